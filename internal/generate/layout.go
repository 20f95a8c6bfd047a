package generate

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultVersion is used when the template declares no parsable version.
const DefaultVersion = "0.0.0"

// DateLayout is the created-date format.
const DateLayout = "2006-01-02"

// StickyFile is an instance-specific file regenerated from a template
// counterpart shipped inside the tree. Paths are slash-separated and relative
// to the instance root.
type StickyFile struct {
	Template string
	Dest     string

	// Required files fail generation when their template is missing.
	Required bool

	// Verbatim files are copied without placeholder substitution.
	Verbatim bool

	// Perm is the file mode of Dest; zero means 0644.
	Perm os.FileMode
}

// Layout is where the template keeps its config and sticky templates.
type Layout struct {
	// ConfigPath is the instance config location. The template's own copy is
	// read for its version before being replaced.
	ConfigPath string

	// ConfigTemplate, when present in the tree, selects placeholder
	// substitution over a synthesized record.
	ConfigTemplate string

	Sticky []StickyFile

	// EnvFile, when set, is generated like a sticky file and must parse as a
	// dotenv file.
	EnvFile *StickyFile
}

// DefaultLayout matches the Lore template.
var DefaultLayout = Layout{
	ConfigPath:     ".lore/config.json",
	ConfigTemplate: ".lore/templates/config.json",
	Sticky: []StickyFile{
		{Template: ".lore/templates/local-index.md", Dest: "docs/knowledge/local/index.md"},
		{Template: ".lore/templates/operator-profile.md", Dest: "docs/knowledge/local/operator-profile.md", Verbatim: true},
	},
	EnvFile: &StickyFile{Template: ".lore/templates/env", Dest: ".env", Perm: 0o600},
}

// Validate checks that every path stays inside the instance root.
func (l Layout) Validate() error {
	paths := []string{l.ConfigPath}
	if l.ConfigTemplate != "" {
		paths = append(paths, l.ConfigTemplate)
	}
	for _, s := range l.stickyFiles() {
		paths = append(paths, s.Template, s.Dest)
	}
	for _, p := range paths {
		if err := checkRelative(p); err != nil {
			return err
		}
	}
	return nil
}

// stickyFiles returns Sticky followed by EnvFile, if any.
func (l Layout) stickyFiles() []StickyFile {
	files := append([]StickyFile(nil), l.Sticky...)
	if l.EnvFile != nil {
		files = append(files, *l.EnvFile)
	}
	return files
}

func checkRelative(p string) error {
	clean := path.Clean(p)
	if p == "" || clean != p || path.IsAbs(p) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("layout path %q must be a clean relative path inside the project", p)
	}
	return nil
}

// join resolves a layout path under root.
func join(root, p string) string {
	return filepath.Join(root, filepath.FromSlash(p))
}
