package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	Text   string
	Muted  string
	Accent string

	Success string
	Warning string
	Danger  string
	Info    string

	SelectionBg   string
	SelectionText string
	Border        string
	BorderFocus   string
}

var themes = []Theme{
	{
		Name:          "Midnight",
		Background:    "#0f172a",
		Surface:       "#1e293b",
		Text:          "#e2e8f0",
		Muted:         "#94a3b8",
		Accent:        "#3b82f6",
		Success:       "#22c55e",
		Warning:       "#eab308",
		Danger:        "#ef4444",
		Info:          "#38bdf8",
		SelectionBg:   "#1d4ed8",
		SelectionText: "#f8fafc",
		Border:        "#334155",
		BorderFocus:   "#3b82f6",
	},
	{
		Name:          "Daylight",
		Background:    "#f8fafc",
		Surface:       "#e2e8f0",
		Text:          "#0f172a",
		Muted:         "#64748b",
		Accent:        "#2563eb",
		Success:       "#15803d",
		Warning:       "#a16207",
		Danger:        "#b91c1c",
		Info:          "#0369a1",
		SelectionBg:   "#bfdbfe",
		SelectionText: "#0f172a",
		Border:        "#94a3b8",
		BorderFocus:   "#2563eb",
	},
}

// GetTheme returns the theme with the given name, defaulting to the first.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name of the theme after the given one, cycling.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// Styles holds the pre-built lipgloss styles derived from a theme.
type Styles struct {
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Danger   lipgloss.Style
	Info     lipgloss.Style
	Selected lipgloss.Style

	Pane      lipgloss.Style
	FocusPane lipgloss.Style
	Title     lipgloss.Style
}

// Styles builds the style set for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		FocusPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Padding(0, 1),
		Title: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
	}
}
