package tree

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Mode selects how a Policy's entries are interpreted.
type Mode string

const (
	// ModeAllowlist keeps only the named top-level entries. New top-level
	// clutter in the template is dropped without anyone listing it.
	ModeAllowlist Mode = "allowlist"

	// ModeDenylist removes the named paths and keeps everything else.
	ModeDenylist Mode = "denylist"
)

// Policy decides which template paths survive into an instance. Entries are
// slash-separated and relative to the tree root. Allowlist entries must be
// single top-level names; denylist entries may be nested.
type Policy struct {
	Mode    Mode
	Entries []string

	// Prune names nested paths removed after Entries are applied, for build
	// output living inside a directory an allowlist keeps.
	Prune []string
}

// DefaultAllowlist is the set of top-level entries an instance keeps.
var DefaultAllowlist = Policy{
	Mode: ModeAllowlist,
	Entries: []string{
		".claude",
		".cursor",
		".gitignore",
		".lore",
		".opencode",
		"AGENTS.md",
		"CLAUDE.md",
		"docs",
		"hooks",
		"lib",
		"opencode.json",
		"package.json",
		"scripts",
		"skills",
	},
	Prune: []string{
		"docs/assets",
		"docs/javascripts",
		"docs/stylesheets",
	},
}

// DefaultDenylist lists the development-only paths of the template. It is the
// compatibility policy; anything the template adds later ships unless added here.
var DefaultDenylist = Policy{
	Mode: ModeDenylist,
	Entries: []string{
		"test",
		".github",
		"node_modules",
		"site",
		"docs/assets",
		"docs/javascripts",
		"docs/stylesheets",
		"CODE_OF_CONDUCT.md",
		"CONTRIBUTING.md",
		"SECURITY.md",
		"LICENSE",
		"README.md",
		".prettierrc",
		".prettierignore",
		"eslint.config.js",
		"package-lock.json",
	},
}

// PolicyFor returns the default policy for mode.
func PolicyFor(mode Mode) (Policy, error) {
	switch mode {
	case ModeAllowlist:
		return DefaultAllowlist, nil
	case ModeDenylist:
		return DefaultDenylist, nil
	default:
		return Policy{}, fmt.Errorf("unknown filter policy %q", mode)
	}
}

// Validate checks that every entry is a clean relative path that cannot leave
// the tree root, and that allowlist entries are top-level names.
func (p Policy) Validate() error {
	if p.Mode != ModeAllowlist && p.Mode != ModeDenylist {
		return fmt.Errorf("unknown filter policy %q", p.Mode)
	}
	for _, e := range p.Entries {
		if !relativeEntry(e) {
			return fmt.Errorf("invalid %s entry %q", p.Mode, e)
		}
		if p.Mode == ModeAllowlist && strings.Contains(e, "/") {
			return fmt.Errorf("allowlist entry %q must be a top-level name", e)
		}
	}
	for _, e := range p.Prune {
		if !relativeEntry(e) {
			return fmt.Errorf("invalid prune entry %q", e)
		}
	}
	return nil
}

func relativeEntry(e string) bool {
	clean := path.Clean(e)
	return e != "" && clean == e && !path.IsAbs(e) && clean != "." && clean != ".." && !strings.HasPrefix(clean, "../")
}

// Filter prunes fs according to p and returns the removed paths, sorted.
// Only paths are consulted, never file contents.
func Filter(fs billy.Filesystem, p Policy) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var removed []string
	var err error
	switch p.Mode {
	case ModeAllowlist:
		removed, err = filterAllow(fs, p.Entries)
	case ModeDenylist:
		removed, err = filterDeny(fs, p.Entries)
	}
	if err != nil {
		return removed, err
	}

	pruned, err := filterDeny(fs, p.Prune)
	removed = append(removed, pruned...)
	if err != nil {
		return removed, err
	}

	sort.Strings(removed)
	return removed, nil
}

func filterAllow(fs billy.Filesystem, keep []string) ([]string, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}

	entries, err := fs.ReadDir("/")
	if err != nil {
		return nil, fmt.Errorf("reading tree root: %w", err)
	}

	var removed []string
	for _, entry := range entries {
		name := entry.Name()
		if keepSet[name] {
			continue
		}
		if err := util.RemoveAll(fs, name); err != nil {
			return removed, fmt.Errorf("removing %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func filterDeny(fs billy.Filesystem, deny []string) ([]string, error) {
	var removed []string
	for _, entry := range deny {
		p := filepath.FromSlash(entry)
		if _, err := fs.Lstat(p); err != nil {
			continue
		}
		if err := util.RemoveAll(fs, p); err != nil {
			return removed, fmt.Errorf("removing %s: %w", entry, err)
		}
		removed = append(removed, entry)
	}
	return removed, nil
}
