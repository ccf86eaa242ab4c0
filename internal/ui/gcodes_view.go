package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/printdeck/internal/projector"
)

// renderGcodes renders the G-code library as a single list.
func (m Model) renderGcodes() string {
	styles := m.theme.Styles()
	width := m.width - 4

	target := styles.MutedText.Render("Print target: ")
	if p, ok := m.selectedPrinter(); ok {
		target += styles.Text.Render(p.DisplayName()) + " " + styles.StateStyle(p.Status.State).Render(string(p.Status.State))
	} else {
		target += styles.FaintText.Render("none")
	}

	lines := []string{target, ""}
	switch {
	case m.gcodes.err != nil:
		lines = append(lines, styles.DangerText.Render("Could not load files: "+describeError(m.gcodes.err)))
	case !m.gcodes.loaded:
		lines = append(lines, styles.MutedText.Render("Loading files..."))
	case len(m.gcodes.items) == 0:
		lines = append(lines, styles.MutedText.Render("No G-code files yet."))
	default:
		for i := range m.gcodes.items {
			lines = append(lines, m.renderGcodeRow(i, width))
		}
		if m.gcodes.next != "" {
			lines = append(lines, "", styles.FaintText.Render("more files on the backend"))
		}
	}

	return styles.FocusPanel.
		Width(m.width - 2).
		Height(m.contentHeight() - 2).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderGcodeRow(i, width int) string {
	styles := m.theme.Styles()
	g := m.gcodes.items[i]

	uploaded := ""
	if t := g.ParsedUploaded(); !t.IsZero() {
		uploaded = t.Local().Format("2006-01-02 15:04")
	}
	meta := formatBytes(g.Size) + "  " + uploaded
	nameWidth := width - lipgloss.Width(meta) - 3
	name := truncate(g.Title(), nameWidth)
	pad := nameWidth - lipgloss.Width(name)
	if pad < 0 {
		pad = 0
	}

	line := "  " + name + strings.Repeat(" ", pad) + " " + meta
	if i == m.gcodes.row {
		return styles.Selected.Render(line)
	}
	return styles.Text.Render(line)
}

func (m Model) renderGcodeDialog() string {
	prompt := projector.GcodePrompt(m.gcodes.target.Title())
	return m.renderPromptBox(prompt, false)
}
