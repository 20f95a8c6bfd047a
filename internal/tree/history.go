package tree

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// MetadataDir is the version-control metadata directory carried by clones.
const MetadataDir = ".git"

// StripHistory removes MetadataDir from the root of fs, recursively. A tree
// without one is left untouched.
func StripHistory(fs billy.Filesystem) error {
	if err := util.RemoveAll(fs, MetadataDir); err != nil {
		return fmt.Errorf("removing %s: %w", MetadataDir, err)
	}
	return nil
}
