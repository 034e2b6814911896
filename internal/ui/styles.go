package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	statsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
