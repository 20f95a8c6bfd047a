// Package errors defines the failure taxonomy of a scaffold run. Every engine
// failure is a *DetailError whose Kind is one of the sentinels below, so
// callers can branch with errors.Is and still reach the underlying cause.
package errors

import (
	"errors"
	"strings"
)

// Sentinel errors for each failure kind.
var (
	// ErrInvalidName means the final path segment has characters outside [A-Za-z0-9._-].
	ErrInvalidName = errors.New("invalid project name")

	// ErrPathEscape means the resolved target is not inside the working directory.
	ErrPathEscape = errors.New("target outside working directory")

	// ErrTargetExists means something already lives at the target path.
	ErrTargetExists = errors.New("target already exists")

	// ErrAcquisition means the template tree could not be fetched or copied.
	ErrAcquisition = errors.New("template acquisition failed")

	// ErrTemplateMalformed means a required template-shipped file is missing or unparsable.
	ErrTemplateMalformed = errors.New("template malformed")

	// ErrMaterialize means the filtered tree could not be copied to the target.
	ErrMaterialize = errors.New("materialize failed")

	// ErrHistoryInit means fresh version-control history could not be started.
	ErrHistoryInit = errors.New("history initialization failed")
)

// Outcome describes what is left on disk when a run stops.
type Outcome int

const (
	// OutcomeNothingCreated means no target directory was created.
	OutcomeNothingCreated Outcome = iota

	// OutcomeIncomplete means a target directory may exist but is only
	// partially populated and should be removed by hand.
	OutcomeIncomplete

	// OutcomeUnconfigured means the file tree is complete but instance
	// configuration could not be generated.
	OutcomeUnconfigured

	// OutcomeNoHistory means the instance is complete except for its fresh
	// version-control history.
	OutcomeNoHistory
)

// String returns a one-line explanation suitable for users.
func (o Outcome) String() string {
	switch o {
	case OutcomeNothingCreated:
		return "nothing was created"
	case OutcomeIncomplete:
		return "a directory may now exist but the operation did not finish; remove it before retrying"
	case OutcomeUnconfigured:
		return "the project files were created but its configuration is missing"
	case OutcomeNoHistory:
		return "the project was created but version-control history was not initialized"
	default:
		return "unknown outcome"
	}
}

// DetailError captures a classified scaffold failure.
type DetailError struct {
	// Kind is one of the sentinel errors (required).
	Kind error

	// Outcome tells the user whether manual cleanup is required.
	Outcome Outcome

	// Message is the specific description (required).
	Message string

	// Path is the file or directory involved (optional).
	Path string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *DetailError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// New creates a DetailError of the given kind.
func New(kind error, outcome Outcome, message string) *DetailError {
	return &DetailError{Kind: kind, Outcome: outcome, Message: message}
}

// Wrap creates a DetailError of the given kind around cause.
func Wrap(kind error, outcome Outcome, cause error, message string) *DetailError {
	return &DetailError{Kind: kind, Outcome: outcome, Message: message, Cause: cause}
}

// WithPath sets Path and returns e.
func (e *DetailError) WithPath(path string) *DetailError {
	e.Path = path
	return e
}

// WithHint sets Hint and returns e.
func (e *DetailError) WithHint(hint string) *DetailError {
	e.Hint = hint
	return e
}

// OutcomeOf returns the outcome recorded in err, or OutcomeIncomplete when err
// carries no classification.
func OutcomeOf(err error) Outcome {
	var de *DetailError
	if errors.As(err, &de) {
		return de.Outcome
	}
	return OutcomeIncomplete
}
