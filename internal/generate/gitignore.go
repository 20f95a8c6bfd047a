package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ignoreLine returns the root-anchored .gitignore pattern for a sticky file.
func ignoreLine(dest string) string {
	return "/" + dest
}

// EnsureIgnored appends a pattern for each dest to root/.gitignore unless the
// pattern is already present. It returns the lines it added.
func EnsureIgnored(root string, dests []string) ([]string, error) {
	if len(dests) == 0 {
		return nil, nil
	}
	gitignorePath := filepath.Join(root, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .gitignore: %w", err)
	}

	present := make(map[string]bool)
	for _, l := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var added []string
	for _, d := range dests {
		line := ignoreLine(d)
		if present[line] || present[d] {
			continue
		}
		present[line] = true
		added = append(added, line)
	}
	if len(added) == 0 {
		return nil, nil
	}

	suffix := strings.Join(added, "\n") + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening .gitignore for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return nil, fmt.Errorf("writing to .gitignore: %w", err)
	}
	return added, nil
}
