package tui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	title        lipgloss.Style
	statusBar    lipgloss.Style
	statusFlag   lipgloss.Style
	statusOff    lipgloss.Style
	cursor       lipgloss.Style
	normal       lipgloss.Style
	dimmed       lipgloss.Style
	price        lipgloss.Style
	outOfStock   lipgloss.Style
	cartHeader   lipgloss.Style
	cartTotal    lipgloss.Style
	notification lipgloss.Style
	errorNote    lipgloss.Style
	modal        lipgloss.Style
	panel        lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		statusBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		statusFlag:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		statusOff:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		cursor:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		normal:       lipgloss.NewStyle(),
		dimmed:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		price:        lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		outOfStock:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		cartHeader:   lipgloss.NewStyle().Bold(true).Underline(true),
		cartTotal:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		notification: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		errorNote:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}
