package cli

import "github.com/charmbracelet/lipgloss"

// Styles for the human-facing report on stdout. Structured logs go to
// stderr through zerolog and are not styled here.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorAccent  = lipgloss.Color("#06B6D4")
	colorMuted   = lipgloss.Color("#6C7086")
	colorSuccess = lipgloss.Color("#A6E3A1")
	colorWarning = lipgloss.Color("#F9E2AF")
	colorError   = lipgloss.Color("#F38BA8")

	bannerStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	taglineStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	ruleStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)
