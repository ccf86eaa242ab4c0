package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// offlineBanner is shown while the heartbeat reports the backend as down.
const offlineBanner = "Backend is not responding."

// renderMain renders the full UI.
func (m Model) renderMain() string {
	parts := []string{m.renderHeader()}
	if !m.online {
		parts = append(parts, m.renderBanner())
	}
	parts = append(parts, m.renderContent(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	case ViewGcodes:
		if m.gcodes.dialog.Confirming() {
			return m.renderGcodeDialog()
		}
		return m.renderGcodes()
	default:
		if m.dialog.Confirming() {
			return m.renderDialog()
		}
		return m.renderPrinters()
	}
}

// contentHeight is the number of rows left for the active view.
func (m Model) contentHeight() int {
	h := m.height - 2 // header + footer
	if !m.online {
		h--
	}
	if h < 3 {
		h = 3
	}
	return h
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("printdeck")}
	if m.online {
		parts = append(parts, styles.SuccessText.Render("● online"))
	} else {
		parts = append(parts, styles.DangerText.Render("● offline"))
	}
	if m.backendURL != "" {
		parts = append(parts, styles.MutedText.Render(truncateMiddle(m.backendURL, 40)))
	}
	parts = append(parts,
		styles.MutedText.Render("Printers:")+" "+styles.Text.Render(fmt.Sprintf("%d", len(m.snapshot.Printers))))

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, styles.MutedText.Render(ts))
	}

	if m.snapshot.LastError != nil {
		label := "ERROR"
		if m.snapshot.IsStale() {
			label = "STALE"
		}
		maxErr := 60
		if m.width < 100 {
			maxErr = 30
		}
		parts = append(parts,
			styles.DangerText.Render(label)+" "+
				styles.DangerText.Render(truncate(describeError(m.snapshot.LastError), maxErr)))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderBanner renders the liveness warning row.
func (m Model) renderBanner() string {
	return m.theme.Styles().Banner.Width(m.width).Render(offlineBanner)
}

// formatTimestamp formats the last successful poll time with its age.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}
	return last.Format("15:04:05") + " (" + humanizeDuration(time.Since(last)) + ")"
}

// renderFooter renders the notice line and key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText

	var hints string
	switch {
	case m.dialog.Confirming() || m.gcodes.dialog.Confirming():
		hints = m.help.ShortHelpView(confirmKeys{m.keys}.ShortHelp())
	case m.currentView == ViewGcodes:
		hints = m.help.ShortHelpView(gcodeKeys{m.keys}.ShortHelp())
	default:
		hints = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	if m.notice.text != "" {
		style := styles.InfoText
		if m.notice.err {
			style = styles.DangerText
		}
		hints = style.Render(truncate(m.notice.text, m.width/2)) + "  " + hints
	}
	return styles.Footer.Width(m.width).Render(hints)
}

// renderHelp renders the full key reference.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	m.help.ShowAll = true
	m.help.Styles.FullKey = styles.AccentText
	m.help.Styles.FullDesc = styles.Text
	m.help.Styles.FullSeparator = styles.FaintText

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.Logo.Render("printdeck keys"),
		"",
		m.help.View(m.keys),
		"",
		styles.FaintText.Render("press any key to close"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		styles.FocusPanel.Render(body))
}
