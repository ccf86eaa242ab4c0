package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/projector"
)

const (
	minListWidth     = 28
	progressBarWidth = 30
)

// renderPrinters renders the printer list and the detail pane side by side.
func (m Model) renderPrinters() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	listWidth := m.width / 3
	if listWidth < minListWidth {
		listWidth = minListWidth
	}
	detailWidth := m.width - listWidth
	if detailWidth < 20 {
		detailWidth = 20
	}

	// Borders take two rows and two columns of each panel.
	list := styles.FocusPanel.
		Width(listWidth - 2).
		Height(height - 2).
		Render(m.renderPrinterList(listWidth - 4))
	detail := styles.Panel.
		Width(detailWidth - 2).
		Height(height - 2).
		Render(m.renderDetail(detailWidth - 4))

	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

// renderPrinterList renders one row per printer.
func (m Model) renderPrinterList(width int) string {
	styles := m.theme.Styles()
	if len(m.snapshot.Printers) == 0 {
		if !m.snapshot.HasPrinters {
			return styles.MutedText.Render("Loading printers...")
		}
		return styles.MutedText.Render("No printers yet.")
	}

	rows := make([]string, 0, len(m.snapshot.Printers))
	for i, p := range m.snapshot.Printers {
		rows = append(rows, m.renderPrinterRow(p, i == m.selectedRow, width))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderPrinterRow(p karmen.Printer, selected bool, width int) string {
	styles := m.theme.Styles()
	state := string(p.Status.State)
	if state == "" {
		state = "Unknown"
	}
	badge := styles.StateStyle(p.Status.State).Render(state)

	marker := "  "
	if m.pending[p.Key()] {
		marker = "… "
	}
	nameWidth := width - lipgloss.Width(badge) - len(marker) - 1
	name := truncate(p.DisplayName(), nameWidth)
	pad := nameWidth - lipgloss.Width(name)
	if pad < 0 {
		pad = 0
	}

	line := marker + name + strings.Repeat(" ", pad) + " "
	if selected {
		return styles.Selected.Render(line) + badge
	}
	return styles.Text.Render(line) + badge
}

// renderDetail renders the projected view of the highlighted printer.
func (m Model) renderDetail(width int) string {
	styles := m.theme.Styles()
	p, ok := m.selectedPrinter()
	if !ok {
		return styles.MutedText.Render("Select a printer.")
	}
	view := projector.Project(p)

	var b strings.Builder
	b.WriteString(styles.Logo.Render(truncate(view.Name, width)))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(view.Key))
	b.WriteString("\n")

	tags := make([]string, 0, len(view.Tags))
	for i, tag := range view.Tags {
		if i == 0 {
			tags = append(tags, styles.AccentText.Render(tag))
			continue
		}
		tags = append(tags, styles.StateStyle(p.Status.State).Render(tag))
	}
	b.WriteString(strings.Join(tags, " "))
	b.WriteString("\n")
	b.WriteString(styles.Text.Render(view.Temperature))
	b.WriteString("\n\n")

	m.writeSection(&b, "Job")
	b.WriteString(styles.Text.Render(truncate(view.JobTitle, width)))
	b.WriteString("\n")
	b.WriteString(m.renderProgress(view.Progress))
	b.WriteString("\n")
	if controls := m.renderControls(view); controls != "" {
		b.WriteString(controls)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	m.writeSection(&b, "Connection")
	for _, f := range view.Connection {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-10s", f.Label)))
		b.WriteString(styles.Text.Render(truncate(f.Value, width-10)))
		b.WriteString("\n")
	}
	if view.Webcam != "" {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-10s", "Webcam")))
		b.WriteString(styles.Text.Render(truncateMiddle(view.Webcam, width-10)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	m.writeSection(&b, "Recent jobs")
	b.WriteString(m.renderJobs(view.Key, width))
	return b.String()
}

func (m Model) writeSection(b *strings.Builder, title string) {
	b.WriteString(m.theme.Styles().InfoText.Bold(true).Render(title))
	b.WriteString("\n")
}

// renderProgress renders the job progress bar and its caption.
func (m Model) renderProgress(pd projector.ProgressDisplay) string {
	styles := m.theme.Styles()
	bar := renderProgressBar(pd.BarWidthPercent, progressBarWidth, styles)
	caption := pd.Completion + "%"
	if pd.HasLabel() {
		caption = pd.Detail
	}
	return bar + " " + styles.MutedText.Render(caption)
}

// renderProgressBar fills width cells in proportion to percent.
func renderProgressBar(percent float64, width int, styles Styles) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(percent / 100 * float64(width)))
	filled = clampInt(filled, 0, width)
	return styles.BarFilled.Render(strings.Repeat("█", filled)) +
		styles.BarEmpty.Render(strings.Repeat("░", width-filled))
}

// renderControls shows the transport hints while a job can be driven.
func (m Model) renderControls(view projector.PrinterView) string {
	if !view.Controls.ShowTransportControls {
		return ""
	}
	styles := m.theme.Styles()
	if m.pending[view.Key] {
		return styles.WarningText.Render("waiting for printer...")
	}
	return styles.AccentText.Render("space") + " " +
		styles.Text.Render(view.Controls.ToggleIcon()+" "+view.Controls.ToggleLabel()) + "   " +
		styles.AccentText.Render("x") + " " +
		styles.Text.Render("■ cancel")
}

// renderJobs lists the cached recent print jobs of ip.
func (m Model) renderJobs(ip string, width int) string {
	styles := m.theme.Styles()
	entry, ok := m.jobs.byIP[ip]
	if !ok {
		if m.jobs.loading[ip] {
			return styles.FaintText.Render("loading...")
		}
		return styles.FaintText.Render("none loaded")
	}

	var b strings.Builder
	if entry.err != nil {
		b.WriteString(styles.DangerText.Render(truncate(describeError(entry.err), width)))
		b.WriteString("\n")
	}
	if len(entry.jobs) == 0 && entry.err == nil {
		b.WriteString(styles.FaintText.Render("no print jobs"))
		return b.String()
	}
	for _, job := range entry.jobs {
		started := "-"
		if t := job.ParsedStarted(); !t.IsZero() {
			started = t.Local().Format("2006-01-02 15:04")
		}
		b.WriteString(styles.MutedText.Render(started))
		b.WriteString("  ")
		b.WriteString(styles.Text.Render(truncateMiddle(job.Filename(), width-len(started)-2)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDialog renders the confirmation dialog in place of the printers.
func (m Model) renderDialog() string {
	prompt, ok := m.dialog.Prompt(m.dialogIP)
	if !ok {
		return m.renderPrinters()
	}
	return m.renderPromptBox(prompt, m.pending[m.dialogIP])
}

// renderPromptBox centers a confirmation dialog in the content area.
func (m Model) renderPromptBox(prompt projector.Prompt, waiting bool) string {
	styles := m.theme.Styles()
	lines := []string{
		styles.DangerText.Render(prompt.Title),
		"",
		styles.Text.Render(prompt.Body),
		"",
		styles.AccentText.Render("y") + " " + styles.Text.Render(prompt.Confirm) + "    " +
			styles.AccentText.Render("n") + " " + styles.Text.Render(prompt.Back),
	}
	if waiting {
		lines = append(lines, "", styles.WarningText.Render("waiting for printer..."))
	}

	box := styles.Dialog.Width(min(60, m.width-4)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, box)
}
