package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor     = lipgloss.Color("7")
	accentColor  = lipgloss.Color("12")
	successColor = lipgloss.Color("10")
	warningColor = lipgloss.Color("11")
	dangerColor  = lipgloss.Color("9")

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	AccentStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)
)

// FormatWarning renders "Warning: msg" with the label highlighted.
func FormatWarning(msg string) string {
	return WarningStyle.Render("Warning:") + " " + msg
}

// FormatError renders "Error: msg" with the label highlighted.
func FormatError(msg string) string {
	return ErrorStyle.Render("Error:") + " " + msg
}

// FormatSuccess renders a check mark followed by msg.
func FormatSuccess(msg string) string {
	return SuccessStyle.Render("✓") + " " + msg
}
