package target

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lerrors "github.com/lorehq/create-lore/internal/errors"
)

// segmentPattern is the allowed-character policy for user-controlled path
// segments. Shell metacharacters, whitespace and quotes all fail it.
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

const nameHint = "Names may contain letters, numbers, dots, hyphens, and underscores."

// Location is a validated instance target.
type Location struct {
	// AbsolutePath is the cleaned absolute target directory.
	AbsolutePath string

	// FinalSegment is the basename of AbsolutePath.
	FinalSegment string

	// ProjectName is the raw argument in name mode, FinalSegment in path mode.
	ProjectName string

	// PathMode is true when the argument contained a path separator.
	PathMode bool
}

// IsPathArg reports whether raw should be treated as a path rather than a
// bare name.
func IsPathArg(raw string) bool {
	return strings.Contains(raw, "/") || strings.ContainsRune(raw, filepath.Separator)
}

// ValidSegment reports whether s matches the allowed-character policy.
func ValidSegment(s string) bool {
	return segmentPattern.MatchString(s)
}

// Validate resolves raw against cwd and checks, in order: the name-character
// rule on every segment below cwd, containment in cwd, and absence on disk.
func Validate(raw, cwd string) (*Location, error) {
	if raw == "" {
		return nil, lerrors.New(lerrors.ErrInvalidName, lerrors.OutcomeNothingCreated,
			"project name is required").WithHint(nameHint)
	}

	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	pathMode := IsPathArg(raw)
	var resolved string
	if filepath.IsAbs(raw) {
		resolved = filepath.Clean(raw)
	} else {
		resolved = filepath.Join(absCwd, raw)
	}

	finalSegment := filepath.Base(resolved)
	if !ValidSegment(finalSegment) {
		return nil, lerrors.New(lerrors.ErrInvalidName, lerrors.OutcomeNothingCreated,
			fmt.Sprintf("invalid project name '%s'", finalSegment)).WithHint(nameHint)
	}

	rel, err := filepath.Rel(absCwd, resolved)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, lerrors.New(lerrors.ErrPathEscape, lerrors.OutcomeNothingCreated,
			fmt.Sprintf("target directory '%s' is outside the current working directory", resolved)).
			WithPath(resolved).
			WithHint("Use a relative name or path within the current directory.")
	}

	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		if !ValidSegment(seg) {
			return nil, lerrors.New(lerrors.ErrInvalidName, lerrors.OutcomeNothingCreated,
				fmt.Sprintf("invalid path segment '%s'", seg)).WithHint(nameHint)
		}
	}

	if err := CheckAbsent(resolved); err != nil {
		return nil, err
	}

	projectName := raw
	if pathMode {
		projectName = finalSegment
	}

	return &Location{
		AbsolutePath: resolved,
		FinalSegment: finalSegment,
		ProjectName:  projectName,
		PathMode:     pathMode,
	}, nil
}

// CheckAbsent fails with ErrTargetExists when anything (file, directory,
// dangling symlink) is present at path.
func CheckAbsent(path string) error {
	_, err := os.Lstat(path)
	if err == nil {
		return lerrors.New(lerrors.ErrTargetExists, lerrors.OutcomeNothingCreated,
			fmt.Sprintf("%s already exists", path)).
			WithPath(path).
			WithHint("Choose a different name or remove the existing directory.")
	}
	if !os.IsNotExist(err) {
		return lerrors.Wrap(lerrors.ErrTargetExists, lerrors.OutcomeNothingCreated, err,
			fmt.Sprintf("cannot verify that %s is free", path)).WithPath(path)
	}
	return nil
}
