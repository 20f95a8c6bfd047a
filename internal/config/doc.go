// Package config resolves create-lore settings from ~/.lore/config.yaml and
// LORE_* environment variables. Flags are bound on top by the cli package.
// Settings cover where the template comes from (local override, remote URL,
// ref, transport), which filter policy prunes it, and the default tool list.
package config
