// Package output provides terminal output utilities: the leveled stderr
// logger, lipgloss styles for the success summary, and a spinner for the one
// step that can block on the network.
package output
