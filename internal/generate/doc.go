// Package generate writes the instance-specific files of a freshly
// materialized project: the primary config (from a placeholder template when
// the tree ships one, synthesized otherwise), the gitignored sticky files, and
// the environment file for downstream tooling. Substitution is literal
// replacement of {{key}} tokens; there is no conditional templating.
package generate
