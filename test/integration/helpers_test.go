//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HOME, so no user config leaks in
	ScratchDir string // TMPDIR, where scratch trees are created
	WorkDir    string // invocation directory
}

// setupTestEnv creates isolated temp directories and points HOME, TMPDIR and
// the working directory at them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ScratchDir: t.TempDir(),
		WorkDir:    t.TempDir(),
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("TMPDIR", env.ScratchDir)
	for _, key := range []string{"LORE_TEMPLATE", "LORE_TEMPLATE_REF", "LORE_TOOLS", "LORE_TRANSPORT", "LORE_FILTER_POLICY"} {
		t.Setenv(key, "")
	}
	t.Chdir(env.WorkDir)

	return env
}

// templateFiles is a Lore-shaped template with development clutter.
var templateFiles = map[string]string{
	".lore/config.json":                   "{\n  // shipped with the release\n  \"version\": \"1.4.0\",\n}\n",
	".lore/templates/config.json":         "{\n  \"name\": \"{{name}}\",\n  \"version\": \"{{version}}\",\n  \"created\": \"{{created}}\",\n  \"tools\": {{tools}},\n}\n",
	".lore/templates/local-index.md":      "# {{name}} local knowledge\n",
	".lore/templates/operator-profile.md": "# Operator profile\n",
	".lore/templates/env":                 "LORE_PROJECT={{name}}\n",
	".github/workflows/ci.yml":            "on: push\n",
	".gitignore":                          "node_modules/\n",
	"CLAUDE.md":                           "# Instructions\n",
	"README.md":                           "# Lore\n",
	"LICENSE":                             "Apache-2.0\n",
	"docs/index.md":                       "# Docs\n",
	"hooks/session-start.js":              "module.exports = {}\n",
	"test/hooks.test.js":                  "test()\n",
	"package-lock.json":                   "{}\n",
}

// setupTemplateDir writes templateFiles into a fresh directory.
func setupTemplateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range templateFiles {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return dir
}

// setupRemote commits templateFiles into a repository tagged v1.4.0 and
// returns its path. Cloning a local path shells out to git-upload-pack.
func setupRemote(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not available")
	}

	dir := setupTemplateDir(t)
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init remote: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("staging template: %v", err)
	}
	hash, err := wt.Commit("Release 1.4.0", &git.CommitOptions{
		Author: &object.Signature{Name: "Lore", Email: "lore@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := repo.CreateTag("v1.4.0", hash, nil); err != nil {
		t.Fatalf("tag: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Errorf("expected %s to be empty, has %d entries", dir, len(entries))
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q\ncontent:\n%s", path, substr, string(data))
	}
}
