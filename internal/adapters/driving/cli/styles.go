package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette used for terminal output. lipgloss drops the colours when the
// output is not a terminal, so piped output stays plain.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	successStyle = lipgloss.NewStyle().Foreground(colourSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourError)
)

// title renders a heading underlined to its own width.
func title(text string) string {
	return titleStyle.Render(text) + "\n" + mutedStyle.Render(strings.Repeat("=", lipgloss.Width(text)))
}

// riskStyle picks a style for a risk level such as "HIGH".
func riskStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "HIGH", "CRITICAL":
		return errorStyle
	case "MEDIUM":
		return warningStyle
	case "LOW":
		return successStyle
	default:
		return mutedStyle
	}
}
