package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding

	// View switching
	ViewPrinters key.Binding
	ViewGcodes   key.Binding
	ViewLogs     key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Printer actions
	ToggleJob     key.Binding
	CancelJob     key.Binding
	DeletePrinter key.Binding
	RefreshJobs   key.Binding

	// G-code library actions
	PrintGcode    key.Binding
	DeleteGcode   key.Binding
	RefreshGcodes key.Binding

	// Confirmation dialogs
	Confirm key.Binding
	Dismiss key.Binding

	// Logs
	ToggleFollow key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle views"),
		),

		ViewPrinters: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "printers"),
		),
		ViewGcodes: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "gcodes"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("3", "l"),
			key.WithHelp("3/l", "logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),

		ToggleJob: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		CancelJob: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel print"),
		),
		DeletePrinter: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "remove printer"),
		),
		RefreshJobs: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload jobs"),
		),

		PrintGcode: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "print on selected printer"),
		),
		DeleteGcode: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "remove file"),
		),
		RefreshGcodes: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload files"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "back"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.ToggleJob, k.CancelJob, k.ViewLogs, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.ToggleJob, k.CancelJob, k.DeletePrinter, k.RefreshJobs},
		{k.PrintGcode, k.DeleteGcode, k.RefreshGcodes},
		{k.ViewPrinters, k.ViewGcodes, k.ViewLogs, k.Tab, k.ToggleFollow},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

// confirmKeys is the help shown while a dialog is open.
type confirmKeys struct{ k keyMap }

func (c confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{c.k.Confirm, c.k.Dismiss}
}

func (c confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{c.ShortHelp()}
}

// gcodeKeys is the short help of the G-code library.
type gcodeKeys struct{ k keyMap }

func (g gcodeKeys) ShortHelp() []key.Binding {
	return []key.Binding{g.k.Up, g.k.Down, g.k.PrintGcode, g.k.DeleteGcode, g.k.RefreshGcodes, g.k.Help, g.k.Quit}
}

func (g gcodeKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{g.ShortHelp()}
}
