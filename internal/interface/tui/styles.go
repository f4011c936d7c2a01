package tui

import "github.com/charmbracelet/lipgloss"

// Global styles used across views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("170")).
				Bold(true)

	activeItemStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("120")) // Light green - contrasts better with purple selection

	unsavedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	// Chat view styles
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("cyan")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green")).
			Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")) // Lighter gray that works better in dark terminals

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	// Notification bar
	errorTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
