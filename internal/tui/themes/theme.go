// Package themes holds the color themes of the note editor.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Changed       lipgloss.Style
	Faint         lipgloss.Style
	BorderedBox   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#E4002B"),
	Muted:   lipgloss.Color("#737373"),
	Border:  lipgloss.Color("#404040"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#E4002B")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Changed: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")),
	Faint: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),

	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")).
		Bold(true),
}

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = Theme{
	Primary: lipgloss.Color("#cba6f7"),
	Muted:   lipgloss.Color("#6c7086"),
	Border:  lipgloss.Color("#45475a"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#cdd6f4")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#cba6f7")).
		Foreground(lipgloss.Color("#1e1e2e")).
		Bold(true),
	Changed: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f9e2af")),
	Faint: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#45475a")).
		Padding(0, 1),

	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6e3a1")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f9e2af")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f38ba8")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#89dceb")).
		Bold(true),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
