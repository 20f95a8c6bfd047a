package generate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	lerrors "github.com/lorehq/create-lore/internal/errors"
)

var created = time.Date(2026, 3, 9, 22, 30, 0, 0, time.UTC)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSubstitute(t *testing.T) {
	values := map[string]string{"name": "my-lore", "version": "1.4.0"}

	got := Substitute("{{name}}@{{version}} {{name}} {{unknown}}", values)
	want := "my-lore@1.4.0 my-lore {{unknown}}"
	if got != want {
		t.Errorf("Substitute = %q, want %q", got, want)
	}
}

func TestValuesRenderToolsAsJSON(t *testing.T) {
	v := InstanceConfig{Name: "a", Tools: []string{"claude", "cursor"}}.Values()
	if v[KeyTools] != `["claude","cursor"]` {
		t.Errorf("tools = %s", v[KeyTools])
	}
	if v := (InstanceConfig{}).Values(); v[KeyTools] != "[]" {
		t.Errorf("empty tools = %s", v[KeyTools])
	}
}

func TestReadVersion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", `{"version": "1.4.0"}`, "1.4.0"},
		{"with comments", "{\n  // release\n  \"version\": \"2.0.1\",\n}\n", "2.0.1"},
		{"block comment", "{\n  /* shipped by the template */\n  \"version\": /* pinned */ \"2.2.0\"\n}\n", "2.2.0"},
		{"prefixed", `{"version": "v2.0.0"}`, "v2.0.0"},
		{"short", `{"version": "1.2"}`, "1.2"},
		{"prerelease", `{"version": "3.0.0-rc.1+build.7"}`, "3.0.0-rc.1+build.7"},
		{"not semver", `{"version": "latest"}`, DefaultVersion},
		{"missing key", `{"name": "lore"}`, DefaultVersion},
		{"garbage", `{{{`, DefaultVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if got := ReadVersion(path); got != tt.want {
				t.Errorf("ReadVersion = %q, want %q", got, tt.want)
			}
		})
	}

	if got := ReadVersion(filepath.Join(t.TempDir(), "absent.json")); got != DefaultVersion {
		t.Errorf("ReadVersion(absent) = %q", got)
	}
}

func TestParseConfigRejectsSchemaViolations(t *testing.T) {
	_, err := ParseConfig([]byte(`{"name": "x", "version": "one", "created": "2026-03-09"}`))
	var ice *InvalidConfigError
	if !errors.As(err, &ice) {
		t.Fatalf("err = %v, want InvalidConfigError", err)
	}
	if len(ice.Issues) == 0 || ice.Issues[0].Path != "/version" {
		t.Errorf("issues = %+v", ice.Issues)
	}
}

func TestParseConfigAllowsExtraFields(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"name": "x", "version": "1.0.0", "created": "2026-03-09", "hooks": {"enabled": true}}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Name != "x" {
		t.Errorf("Name = %q", cfg.Name)
	}
}

func TestGenerateSynthesized(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".lore/config.json": `{"version": "1.4.0"}`})

	res, err := New(DefaultLayout).Generate(Input{
		Root: root, ProjectName: "my-lore", Created: created,
		Tools: []string{"claude", "cursor", "opencode"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Strategy != SynthesizedRecord {
		t.Errorf("Strategy = %v", res.Strategy)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(readFile(t, root, ".lore/config.json")), &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"name": "my-lore", "version": "1.4.0", "created": "2026-03-09"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("config = %v, want %v", got, want)
	}
}

func TestGenerateKeepsDeclaredVersion(t *testing.T) {
	for _, declared := range []string{"v2.0.0", "1.2", "1.4.0-beta.2"} {
		t.Run(declared, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, map[string]string{
				".lore/config.json": "{\n  /* release metadata */\n  \"version\": \"" + declared + "\",\n}\n",
				".lore/templates/config.json": "{\n  /* instance settings */\n  \"name\": \"{{name}}\",\n" +
					"  \"version\": \"{{version}}\",\n  \"created\": \"{{created}}\",\n}\n",
			})

			res, err := New(DefaultLayout).Generate(Input{Root: root, ProjectName: "my-lore", Created: created})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if res.Config.Version != declared {
				t.Errorf("Version = %q, want %q", res.Config.Version, declared)
			}
			if cfg := readFile(t, root, ".lore/config.json"); !strings.Contains(cfg, `"version": "`+declared+`"`) {
				t.Errorf("config does not carry %q:\n%s", declared, cfg)
			}
		})
	}
}

func TestGenerateSynthesizedSelectedTools(t *testing.T) {
	root := t.TempDir()

	res, err := New(DefaultLayout).Generate(Input{
		Root: root, ProjectName: "my-lore", Created: created,
		Tools: []string{"cursor"}, ToolsSelected: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Config.Version != DefaultVersion {
		t.Errorf("Version = %q, want %q", res.Config.Version, DefaultVersion)
	}
	if !reflect.DeepEqual(res.Config.Tools, []string{"cursor"}) {
		t.Errorf("Tools = %v", res.Config.Tools)
	}
}

func TestGenerateFromTemplate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".lore/config.json": `{"version": "1.4.0"}`,
		".lore/templates/config.json": "{\n  // instance settings\n  \"name\": \"{{name}}\",\n" +
			"  \"version\": \"{{version}}\",\n  \"created\": \"{{created}}\",\n  \"tools\": {{tools}},\n  \"hooks\": true,\n}\n",
		".lore/templates/local-index.md":      "# {{name}} local notes\n",
		".lore/templates/operator-profile.md": "Profile for {{name}}\n",
		".lore/templates/env":                 "LORE_PROJECT={{name}}\nLORE_VERSION={{version}}\n",
		".gitignore":                          "node_modules",
	})

	res, err := New(DefaultLayout).Generate(Input{
		Root: root, ProjectName: "my-lore", Created: created, Tools: []string{"claude"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Strategy != TemplateSubstitution {
		t.Errorf("Strategy = %v", res.Strategy)
	}

	cfg := readFile(t, root, ".lore/config.json")
	for _, want := range []string{`"name": "my-lore"`, `"version": "1.4.0"`, `"created": "2026-03-09"`, `"tools": ["claude"]`, "// instance settings"} {
		if !strings.Contains(cfg, want) {
			t.Errorf("config missing %q:\n%s", want, cfg)
		}
	}

	if got := readFile(t, root, "docs/knowledge/local/index.md"); got != "# my-lore local notes\n" {
		t.Errorf("index.md = %q", got)
	}
	if got := readFile(t, root, "docs/knowledge/local/operator-profile.md"); got != "Profile for {{name}}\n" {
		t.Errorf("operator-profile.md = %q, want verbatim copy", got)
	}
	if got := readFile(t, root, ".env"); got != "LORE_PROJECT=my-lore\nLORE_VERSION=1.4.0\n" {
		t.Errorf(".env = %q", got)
	}
	info, err := os.Stat(filepath.Join(root, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf(".env mode = %v, want 0600", info.Mode().Perm())
	}

	wantIgnore := "node_modules\n/docs/knowledge/local/index.md\n/docs/knowledge/local/operator-profile.md\n/.env\n"
	if got := readFile(t, root, ".gitignore"); got != wantIgnore {
		t.Errorf(".gitignore = %q, want %q", got, wantIgnore)
	}

	wantFiles := []string{".lore/config.json", "docs/knowledge/local/index.md", "docs/knowledge/local/operator-profile.md", ".env"}
	if !reflect.DeepEqual(res.Files, wantFiles) {
		t.Errorf("Files = %v", res.Files)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".lore/templates/local-index.md": "# {{name}}\n"})

	g := New(DefaultLayout)
	in := Input{Root: root, ProjectName: "again", Created: created}
	if _, err := g.Generate(in); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, root, ".gitignore")

	res, err := g.Generate(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Ignored) != 0 {
		t.Errorf("second run added ignore lines %v", res.Ignored)
	}
	if got := readFile(t, root, ".gitignore"); got != first {
		t.Errorf(".gitignore changed: %q -> %q", first, got)
	}
}

func TestGenerateSkipsOptionalSticky(t *testing.T) {
	root := t.TempDir()

	res, err := New(DefaultLayout).Generate(Input{Root: root, ProjectName: "bare", Created: created})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Skipped) != 3 {
		t.Errorf("Skipped = %v", res.Skipped)
	}
	if _, err := os.Stat(filepath.Join(root, ".gitignore")); !os.IsNotExist(err) {
		t.Errorf("unexpected .gitignore: %v", err)
	}
}

func TestGenerateMissingRequiredSticky(t *testing.T) {
	layout := DefaultLayout
	layout.Sticky = []StickyFile{{Template: ".lore/templates/required.md", Dest: "required.md", Required: true}}

	_, err := New(layout).Generate(Input{Root: t.TempDir(), ProjectName: "x", Created: created})
	if !errors.Is(err, lerrors.ErrTemplateMalformed) {
		t.Fatalf("err = %v, want ErrTemplateMalformed", err)
	}
	if lerrors.OutcomeOf(err) != lerrors.OutcomeUnconfigured {
		t.Errorf("outcome = %v", lerrors.OutcomeOf(err))
	}
}

func TestGenerateMalformedTemplate(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"unparsable config", map[string]string{".lore/templates/config.json": `{"name": {{name}}`}},
		{"config without identity", map[string]string{".lore/templates/config.json": `{"name": "fixed", "version": "1.0.0", "created": "2000-01-01"}`}},
		{"bad env file", map[string]string{".lore/templates/env": "not an assignment\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files)

			_, err := New(DefaultLayout).Generate(Input{Root: root, ProjectName: "x", Created: created})
			if !errors.Is(err, lerrors.ErrTemplateMalformed) {
				t.Fatalf("err = %v, want ErrTemplateMalformed", err)
			}
		})
	}
}

func TestLayoutValidate(t *testing.T) {
	if err := DefaultLayout.Validate(); err != nil {
		t.Errorf("DefaultLayout: %v", err)
	}

	bad := DefaultLayout
	bad.Sticky = []StickyFile{{Template: "a.md", Dest: "../escape.md"}}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for escaping dest")
	}
}
