package generate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lerrors "github.com/lorehq/create-lore/internal/errors"
	"github.com/lorehq/create-lore/internal/output"
	"github.com/subosito/gotenv"
)

// Strategy is how the primary config is produced.
type Strategy int

const (
	// SynthesizedRecord builds the config from scratch.
	SynthesizedRecord Strategy = iota

	// TemplateSubstitution fills placeholders in the tree's config template.
	TemplateSubstitution
)

func (s Strategy) String() string {
	switch s {
	case SynthesizedRecord:
		return "synthesized"
	case TemplateSubstitution:
		return "template"
	default:
		return "unknown"
	}
}

// Input describes the instance being configured.
type Input struct {
	// Root is the materialized instance directory.
	Root string

	ProjectName string
	Created     time.Time
	Tools       []string

	// ToolsSelected records that the operator chose tools explicitly. A
	// synthesized record only carries tools in that case.
	ToolsSelected bool
}

// Result lists what Generate wrote.
type Result struct {
	Config   InstanceConfig
	Strategy Strategy

	// Files are the written paths, slash-separated and relative to Root.
	Files []string

	// Skipped are optional sticky templates that were absent.
	Skipped []string

	// Ignored are the .gitignore lines added.
	Ignored []string
}

// Generator writes instance configuration for a given template layout.
type Generator struct {
	Layout Layout
}

// New returns a Generator for layout.
func New(layout Layout) *Generator {
	return &Generator{Layout: layout}
}

// DetectStrategy reports which config strategy applies to the tree at root.
func (g *Generator) DetectStrategy(root string) (Strategy, error) {
	if g.Layout.ConfigTemplate == "" {
		return SynthesizedRecord, nil
	}
	info, err := os.Stat(join(root, g.Layout.ConfigTemplate))
	switch {
	case err == nil && info.Mode().IsRegular():
		return TemplateSubstitution, nil
	case err == nil:
		return 0, fmt.Errorf("%s is not a regular file", g.Layout.ConfigTemplate)
	case os.IsNotExist(err):
		return SynthesizedRecord, nil
	default:
		return 0, err
	}
}

// Generate writes the primary config and the sticky files into in.Root.
// Every failure is a *lerrors.DetailError with OutcomeUnconfigured.
func (g *Generator) Generate(in Input) (*Result, error) {
	if err := g.Layout.Validate(); err != nil {
		return nil, unconfigured(lerrors.ErrTemplateMalformed, err, "invalid template layout")
	}

	cfg := InstanceConfig{
		Name:    in.ProjectName,
		Version: ReadVersion(join(in.Root, g.Layout.ConfigPath)),
		Created: in.Created.UTC().Format(DateLayout),
		Tools:   append([]string(nil), in.Tools...),
	}
	values := cfg.Values()

	strategy, err := g.DetectStrategy(in.Root)
	if err != nil {
		return nil, unconfigured(lerrors.ErrTemplateMalformed, err, "inspecting config template")
	}
	output.Debug("generating config", "strategy", strategy, "version", cfg.Version)

	var data []byte
	switch strategy {
	case TemplateSubstitution:
		raw, err := os.ReadFile(join(in.Root, g.Layout.ConfigTemplate))
		if err != nil {
			return nil, unconfigured(lerrors.ErrTemplateMalformed, err, "reading config template").
				WithPath(g.Layout.ConfigTemplate)
		}
		data = []byte(Substitute(string(raw), values))
	default:
		record := cfg
		if !in.ToolsSelected {
			record.Tools = nil
		}
		data, err = json.MarshalIndent(record, "", "  ")
		if err != nil {
			return nil, unconfigured(lerrors.ErrMaterialize, err, "encoding config")
		}
		data = append(data, '\n')
	}

	parsed, err := ParseConfig(data)
	if err != nil {
		return nil, unconfigured(lerrors.ErrTemplateMalformed, err, "generated config is invalid").
			WithPath(g.Layout.ConfigTemplate).
			WithHint("check the placeholders in the template's config template")
	}
	if parsed.Name != cfg.Name || parsed.Created != cfg.Created {
		return nil, unconfigured(lerrors.ErrTemplateMalformed,
			fmt.Errorf("name %q created %q", parsed.Name, parsed.Created),
			"generated config does not carry the project identity").
			WithPath(g.Layout.ConfigTemplate)
	}

	res := &Result{Config: *parsed, Strategy: strategy}

	if err := writeFile(join(in.Root, g.Layout.ConfigPath), data, 0o644); err != nil {
		return nil, unconfigured(lerrors.ErrMaterialize, err, "writing config").WithPath(g.Layout.ConfigPath)
	}
	res.Files = append(res.Files, g.Layout.ConfigPath)

	var ignore []string
	for _, sf := range g.Layout.stickyFiles() {
		wrote, err := g.writeSticky(in.Root, sf, values)
		if err != nil {
			return nil, err
		}
		if !wrote {
			res.Skipped = append(res.Skipped, sf.Template)
			continue
		}
		res.Files = append(res.Files, sf.Dest)
		ignore = append(ignore, sf.Dest)
	}

	res.Ignored, err = EnsureIgnored(in.Root, ignore)
	if err != nil {
		return nil, unconfigured(lerrors.ErrMaterialize, err, "updating .gitignore")
	}
	return res, nil
}

// writeSticky renders one sticky file. It reports false when an optional
// template is absent.
func (g *Generator) writeSticky(root string, sf StickyFile, values map[string]string) (bool, error) {
	raw, err := os.ReadFile(join(root, sf.Template))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !sf.Required {
			output.Debug("optional template absent", "path", sf.Template)
			return false, nil
		}
		return false, unconfigured(lerrors.ErrTemplateMalformed, err, "reading sticky template").WithPath(sf.Template)
	}

	content := raw
	if !sf.Verbatim {
		content = []byte(Substitute(string(raw), values))
	}

	if g.Layout.EnvFile != nil && sf.Dest == g.Layout.EnvFile.Dest {
		if _, err := gotenv.StrictParse(bytes.NewReader(content)); err != nil {
			return false, unconfigured(lerrors.ErrTemplateMalformed, err, "environment template is not a valid env file").
				WithPath(sf.Template)
		}
	}

	perm := sf.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err := writeFile(join(root, sf.Dest), content, perm); err != nil {
		return false, unconfigured(lerrors.ErrMaterialize, err, "writing sticky file").WithPath(sf.Dest)
	}
	return true, nil
}

// writeFile replaces path with data, creating parent directories.
func writeFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}

func unconfigured(kind, cause error, msg string) *lerrors.DetailError {
	return lerrors.Wrap(kind, lerrors.OutcomeUnconfigured, cause, msg)
}
