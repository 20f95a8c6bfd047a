package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"
)

// IsTTY reports whether stderr is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// RunWithSpinner executes action while a spinner titled title is shown on
// stderr. When stderr is not a terminal the action runs directly.
func RunWithSpinner(ctx context.Context, title string, action func() error) error {
	if !IsTTY() {
		return action()
	}
	return spin(ctx, os.Stderr, title, action)
}

// spin draws the spinner to w until action returns or ctx ends.
func spin(ctx context.Context, w io.Writer, title string, action func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- action()
	}()

	var result error
	done := false
	spinnerErr := spinner.New().
		Title(title).
		Output(w).
		Action(func() {
			select {
			case <-ctx.Done():
			case result = <-errCh:
				done = true
			}
		}).
		Run()

	if spinnerErr != nil {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}
	if done {
		return result
	}

	// The context ended first; the action observes the same context, so wait
	// for it to unwind before returning.
	return <-errCh
}
