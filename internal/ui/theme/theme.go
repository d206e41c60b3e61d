package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors of the grid renderer
type Theme struct {
	Name string

	Foreground lipgloss.Color
	Border     lipgloss.Color

	// Table colors
	TableHeader   lipgloss.Color
	TableHeaderBg lipgloss.Color
	GroupHeader   lipgloss.Color
	Status        lipgloss.Color
	Null          lipgloss.Color

	// Filter list colors
	FilterTitle lipgloss.Color
	SQL         lipgloss.Color
}

var themes = map[string]func() Theme{
	"default":          DefaultTheme,
	"catppuccin-mocha": CatppuccinMochaTheme,
}

// GetTheme returns a theme by name, falling back to the default theme
func GetTheme(name string) Theme {
	if fn, ok := themes[name]; ok {
		return fn()
	}
	return DefaultTheme()
}

// Names lists the known theme names
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
