// Package tree operates on template trees through go-billy filesystems: it
// strips inherited version-control metadata, prunes development-only assets
// by allowlist or denylist, and copies a tree from one filesystem to another.
package tree
