package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	lerrors "github.com/lorehq/create-lore/internal/errors"
	"github.com/lorehq/create-lore/internal/output"
)

// printError writes err to w. Classified scaffold errors also get their hint
// and a line telling the user whether anything was left on disk.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", output.StyleError.Render("Error:"), err)

	var de *lerrors.DetailError
	if !errors.As(err, &de) {
		return
	}
	if de.Hint != "" {
		fmt.Fprintf(w, "  %s\n", output.StyleDim.Render(de.Hint))
	}
	fmt.Fprintf(w, "  %s\n", capitalize(de.Outcome.String())+".")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
