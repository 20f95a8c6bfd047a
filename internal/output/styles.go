package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Use these instead of inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: project names and paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorYellow is used for warnings in the summary.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for the error prefix.
	ColorRed = lipgloss.Color("204")
)

var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleWarning styles non-fatal problems listed in the summary.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleError styles the error prefix on stderr.
	StyleError = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

	styleCheck = lipgloss.NewStyle().Foreground(ColorGreenCheck)
)

// Summary is what gets printed after a successful scaffold.
type Summary struct {
	Name      string
	Path      string
	Version   string
	Tools     []string
	Files     []string
	Warnings  []string
	NextSteps []string
}

// FormatCheckmark returns a green checkmark followed by msg.
func FormatCheckmark(msg string) string {
	return styleCheck.Render("✔") + " " + StyleSummary.Render(msg)
}

// PrintSummary writes the success summary to w.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n%s\n", FormatCheckmark("Created "+StyleNoun.Render(s.Name)))
	fmt.Fprintf(w, "  %s %s\n", StyleDim.Render("path:"), s.Path)
	if s.Version != "" {
		fmt.Fprintf(w, "  %s %s\n", StyleDim.Render("template version:"), s.Version)
	}
	if len(s.Tools) > 0 {
		fmt.Fprintf(w, "  %s %s\n", StyleDim.Render("tools:"), strings.Join(s.Tools, ", "))
	}
	for _, f := range s.Files {
		fmt.Fprintf(w, "  %s %s\n", StyleDim.Render("generated:"), f)
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range s.Warnings {
			fmt.Fprintf(w, "  - %s\n", StyleWarning.Render(warn))
		}
	}

	if len(s.NextSteps) > 0 {
		fmt.Fprintln(w, "\nNext steps:")
		for _, step := range s.NextSteps {
			fmt.Fprintf(w, "  %s\n", step)
		}
	}
}
