package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	primaryColor = lipgloss.Color("39")  // Blue
	accentColor  = lipgloss.Color("170") // Purple
	dangerColor  = lipgloss.Color("196") // Red
	mutedColor   = lipgloss.Color("241") // Gray
)

// Shared styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(mutedColor)

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(accentColor).
			Underline(true)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	dirStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	fileStyle = lipgloss.NewStyle()

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(dangerColor)

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)
