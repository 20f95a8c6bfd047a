package acquire

import (
	"context"
	"fmt"
	"os"

	"github.com/lorehq/create-lore/internal/branding"
)

// Scratch is a process-unique temporary directory holding one template tree.
type Scratch struct {
	Path     string
	Acquired bool
}

// NewScratch creates an empty scratch directory under the OS temp dir. The
// caller owns it and must call Remove on every exit path.
func NewScratch() (*Scratch, error) {
	dir, err := os.MkdirTemp("", branding.CLIName()+"-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	return &Scratch{Path: dir}, nil
}

// Fill fetches src into the scratch directory. On failure the directory is
// emptied so a partial tree is never mistaken for a valid one.
func (s *Scratch) Fill(ctx context.Context, src Source) error {
	if err := src.Fetch(ctx, s.Path); err != nil {
		_ = emptyDir(s.Path)
		return err
	}
	s.Acquired = true
	return nil
}

// Remove deletes the scratch directory and everything in it.
func (s *Scratch) Remove() error {
	if s == nil || s.Path == "" {
		return nil
	}
	s.Acquired = false
	return os.RemoveAll(s.Path)
}
