package acquire

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GitCLISource clones with the git binary on PATH. It exists for environments
// where credential helpers or proxies are only configured for system git.
type GitCLISource struct {
	URL string
	Ref string
}

// Fetch implements Source.
func (s *GitCLISource) Fetch(ctx context.Context, dir string) error {
	if err := ensureGit(); err != nil {
		return &Error{Reason: ReasonTransport, Source: s.URL, Ref: s.Ref, Err: err}
	}

	args := []string{"clone", "--depth=1", "--single-branch", "--no-tags"}
	if s.Ref != "" {
		args = append(args, "--branch", s.Ref)
	}
	args = append(args, s.URL, dir)

	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		out := strings.TrimSpace(string(output))
		reason := ReasonTransport
		if ctx.Err() == nil {
			reason = classifyOutput(out)
		}
		if out != "" {
			err = fmt.Errorf("%w\n%s", err, out)
		}
		return &Error{Reason: reason, Source: s.URL, Ref: s.Ref, Err: err}
	}
	return nil
}

func (s *GitCLISource) String() string {
	if s.Ref == "" {
		return "git:" + s.URL
	}
	return "git:" + s.URL + "@" + s.Ref
}

// ensureGit checks that git is available on PATH.
func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
