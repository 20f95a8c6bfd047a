package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/lorehq/create-lore/internal/tree"
)

// Source produces a template tree inside an existing, empty directory.
type Source interface {
	// Fetch writes the template tree into dir or returns an *Error.
	Fetch(ctx context.Context, dir string) error

	// String describes the source for logs.
	String() string
}

// LocalSource copies a template from a directory on disk.
type LocalSource struct {
	Dir string
}

// Fetch implements Source.
func (s *LocalSource) Fetch(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Reason: ReasonTransport, Source: s.Dir, Err: err}
	}
	if err := tree.CopyDir(s.Dir, dir); err != nil {
		return &Error{Reason: ReasonLocalCopy, Source: s.Dir, Err: err}
	}
	return nil
}

func (s *LocalSource) String() string {
	return "local:" + s.Dir
}

// GoGitSource performs a shallow, single-revision clone with go-git.
type GoGitSource struct {
	URL string

	// Ref is a tag or branch name, or a full refs/... name. Empty means the
	// remote's default branch.
	Ref string
}

// Fetch implements Source.
func (s *GoGitSource) Fetch(ctx context.Context, dir string) error {
	candidates := referenceCandidates(s.Ref)
	if len(candidates) == 0 {
		candidates = []plumbing.ReferenceName{""}
	}

	var lastErr error
	for _, ref := range candidates {
		opts := &git.CloneOptions{
			URL:           s.URL,
			ReferenceName: ref,
			Depth:         1,
			SingleBranch:  true,
			Tags:          git.NoTags,
		}

		_, err := git.PlainCloneContext(ctx, dir, false, opts)
		if err == nil {
			return nil
		}

		reason := classifyGoGit(err)
		lastErr = &Error{Reason: reason, Source: s.URL, Ref: s.Ref, Err: err}
		if reason != ReasonRefNotFound {
			return lastErr
		}
		// Try the next interpretation of the ref in a clean directory.
		if err := emptyDir(dir); err != nil {
			return &Error{Reason: ReasonTransport, Source: s.URL, Ref: s.Ref, Err: err}
		}
	}
	return lastErr
}

func (s *GoGitSource) String() string {
	if s.Ref == "" {
		return s.URL
	}
	return s.URL + "@" + s.Ref
}

// referenceCandidates expands a short ref into the full names it may denote,
// tags first since releases are pinned by tag.
func referenceCandidates(ref string) []plumbing.ReferenceName {
	switch {
	case ref == "":
		return nil
	case strings.HasPrefix(ref, "refs/"):
		return []plumbing.ReferenceName{plumbing.ReferenceName(ref)}
	default:
		return []plumbing.ReferenceName{
			plumbing.NewTagReferenceName(ref),
			plumbing.NewBranchReferenceName(ref),
		}
	}
}

// emptyDir removes every entry of dir but keeps dir itself.
func emptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(dir, 0o700)
		}
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("clearing %s: %w", dir, err)
		}
	}
	return nil
}
