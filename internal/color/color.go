// Package color provides color detection and theming for CLI output.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Profile reports whether color output should be enabled.
//
// Color is disabled when any of:
//   - NO_COLOR env is set (any value, per https://no-color.org)
//   - CLICOLOR=0
//   - TERM=dumb
//   - noColorFlag is true (--no-color CLI flag)
func Profile(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return true
}

// IsTerminal returns true if f is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}

// Enabled combines Profile with terminal detection for f.
func Enabled(f *os.File, noColorFlag bool) bool {
	return Profile(noColorFlag) && IsTerminal(f)
}

// Theme holds lipgloss styles for validation reports.
type Theme struct {
	Valid   lipgloss.Style
	Invalid lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Header  lipgloss.Style
	Field   lipgloss.Style
	Muted   lipgloss.Style
}

// NewTheme creates a Theme. When color is false, all styles are empty (no ANSI codes).
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Valid:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // bright green
		Invalid: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // bright yellow
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // bright blue
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Field:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")), // gray
	}
}
