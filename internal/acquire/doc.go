// Package acquire materializes a template tree into a process-unique scratch
// directory. A Source abstracts over where the tree comes from: a local
// override directory, a go-git clone, or the system git binary. Transport
// failures are classified so callers can tell a missing release tag from an
// unreachable host.
package acquire
