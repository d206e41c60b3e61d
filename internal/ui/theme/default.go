package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		Foreground: lipgloss.Color("252"),
		Border:     lipgloss.Color("240"),

		TableHeader:   lipgloss.Color("105"),
		TableHeaderBg: lipgloss.Color("236"),
		GroupHeader:   lipgloss.Color("214"),
		Status:        lipgloss.Color("245"),
		Null:          lipgloss.Color("241"),

		FilterTitle: lipgloss.Color("62"),
		SQL:         lipgloss.Color("150"),
	}
}
