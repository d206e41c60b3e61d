package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha palette
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Border:     lipgloss.Color("#45475a"), // Surface1

		TableHeader:   lipgloss.Color("#89b4fa"), // Blue
		TableHeaderBg: lipgloss.Color("#313244"), // Surface0
		GroupHeader:   lipgloss.Color("#fab387"), // Peach
		Status:        lipgloss.Color("#a6adc8"), // Subtext0
		Null:          lipgloss.Color("#6c7086"), // Overlay0

		FilterTitle: lipgloss.Color("#cba6f7"), // Mauve
		SQL:         lipgloss.Color("#a6e3a1"), // Green
	}
}
