package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func loadIsolated(t *testing.T, content string) *Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestSettingsDefaults(t *testing.T) {
	c := loadIsolated(t, "")

	s, err := c.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.TemplateRepo != "https://github.com/lorehq/lore.git" {
		t.Errorf("TemplateRepo = %q", s.TemplateRepo)
	}
	if s.Transport != TransportGoGit {
		t.Errorf("Transport = %q, want %q", s.Transport, TransportGoGit)
	}
	if s.FilterPolicy != PolicyAllowlist {
		t.Errorf("FilterPolicy = %q, want %q", s.FilterPolicy, PolicyAllowlist)
	}
	if !reflect.DeepEqual(s.Tools, DefaultTools) {
		t.Errorf("Tools = %v, want %v", s.Tools, DefaultTools)
	}
	if s.Template != "" {
		t.Errorf("Template = %q, want empty", s.Template)
	}
}

func TestSettingsFromFile(t *testing.T) {
	c := loadIsolated(t, "transport: git\nfilter_policy: denylist\ntemplate_ref: main\ntools:\n  - claude\n")

	s, err := c.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.Transport != TransportGit {
		t.Errorf("Transport = %q", s.Transport)
	}
	if s.FilterPolicy != PolicyDenylist {
		t.Errorf("FilterPolicy = %q", s.FilterPolicy)
	}
	if s.TemplateRef != "main" {
		t.Errorf("TemplateRef = %q", s.TemplateRef)
	}
	if !reflect.DeepEqual(s.Tools, []string{"claude"}) {
		t.Errorf("Tools = %v", s.Tools)
	}
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("LORE_TEMPLATE", "/tmp/lore-template")
	t.Setenv("LORE_TOOLS", "cursor, opencode")

	c := loadIsolated(t, "")
	s, err := c.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.Template != "/tmp/lore-template" {
		t.Errorf("Template = %q", s.Template)
	}
	if !reflect.DeepEqual(s.Tools, []string{"cursor", "opencode"}) {
		t.Errorf("Tools = %v", s.Tools)
	}
}

func TestSettingsRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"transport", "transport: svn\n"},
		{"policy", "filter_policy: everything\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadIsolated(t, tt.content)
			if _, err := c.Settings(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tools: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}
