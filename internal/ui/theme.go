package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/printdeck/internal/karmen"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string
	FocusBg    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StateColors colors the printer state badge.
	StateColors map[karmen.PrinterState]string
}

// StateColor returns the badge color for a printer state, muted when unknown.
func (t Theme) StateColor(state karmen.PrinterState) string {
	if c, ok := t.StateColors[state]; ok {
		return c
	}
	return t.Muted
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
		InfoText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Banner: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Danger)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		FocusPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Padding(0, 1),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(t.Danger)).
			Background(lipgloss.Color(t.SurfaceAlt)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(1, 2),

		BarFilled: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		BarEmpty:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),

		theme: t,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Surface lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
	Banner   lipgloss.Style

	Panel      lipgloss.Style
	FocusPanel lipgloss.Style
	Dialog     lipgloss.Style

	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style

	theme Theme
}

// StateStyle returns a badge style for the given printer state.
func (s Styles) StateStyle(state karmen.PrinterState) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(s.theme.StateColor(state))).
		Padding(0, 1)
}

const defaultThemeName = "Nightfox"

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Dracula":  draculaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Dracula", "Slate"}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[defaultThemeName]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		SurfaceAlt: "#212e3f", // bg2
		FocusBg:    "#29394f", // bg3

		SelectionBg:   "#2b3b51", // sel0
		SelectionText: "#cdcecf", // fg1

		Border:      "#39506d", // bg4
		BorderFocus: "#719cd6", // blue

		Text:    "#cdcecf",
		Muted:   "#738091",
		Faint:   "#71839b",
		Accent:  "#719cd6",
		Success: "#81b29a",
		Warning: "#dbc074",
		Danger:  "#c94f6d",
		Info:    "#63cdcf",

		StateColors: map[karmen.PrinterState]string{
			karmen.StatePrinting:    "#719cd6", // blue
			karmen.StatePaused:      "#dbc074", // yellow
			karmen.StateOperational: "#81b29a", // green
			karmen.StateOffline:     "#c94f6d", // red
		},
	}
}

func draculaTheme() Theme {
	// Official Dracula palette: https://draculatheme.com/spec
	return Theme{
		Name: "Dracula",

		Background: "#191A21",
		Surface:    "#282A36",
		SurfaceAlt: "#21222C",
		FocusBg:    "#343746",

		SelectionBg:   "#44475A",
		SelectionText: "#F8F8F2",

		Border:      "#44475A",
		BorderFocus: "#BD93F9",

		Text:    "#F8F8F2",
		Muted:   "#6272A4",
		Faint:   "#44475A",
		Accent:  "#BD93F9",
		Success: "#50FA7B",
		Warning: "#FFB86C",
		Danger:  "#FF5555",
		Info:    "#8BE9FD",

		StateColors: map[karmen.PrinterState]string{
			karmen.StatePrinting:    "#BD93F9", // purple
			karmen.StatePaused:      "#FFB86C", // orange
			karmen.StateOperational: "#50FA7B", // green
			karmen.StateOffline:     "#FF5555", // red
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		SurfaceAlt: "#1e293b", // slate-800
		FocusBg:    "#283548",

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50

		Border:      "#334155", // slate-700
		BorderFocus: "#38bdf8", // sky-400

		Text:    "#f1f5f9",
		Muted:   "#94a3b8",
		Faint:   "#64748b",
		Accent:  "#38bdf8",
		Success: "#22c55e",
		Warning: "#f59e0b",
		Danger:  "#ef4444",
		Info:    "#06b6d4",

		StateColors: map[karmen.PrinterState]string{
			karmen.StatePrinting:    "#38bdf8", // sky-400
			karmen.StatePaused:      "#f59e0b", // amber-500
			karmen.StateOperational: "#22c55e", // green-500
			karmen.StateOffline:     "#dc2626", // red-600
		},
	}
}
