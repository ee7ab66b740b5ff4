package menu

import "github.com/charmbracelet/lipgloss"

var (
	bannerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	farewellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)
