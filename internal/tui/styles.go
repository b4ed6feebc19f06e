package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor     = lipgloss.Color("#ff8c00")
	emberColor      = lipgloss.Color("#2b1400")
	headerTextColor = lipgloss.Color("#fff4d0")

	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(headerTextColor).Background(emberColor).Padding(1, 2)
	pageTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	promptStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
)
