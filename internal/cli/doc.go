// Package cli defines the Cobra root command of create-lore. The command
// resolves settings from flags, environment and the user config file, builds
// a scaffold engine, and reports the result. Business logic lives in the
// internal packages; this package only handles flags, I/O formatting, and
// user interaction.
package cli
