package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// resizeLogViewport fits the log viewport to the content area.
func (m *Model) resizeLogViewport() {
	m.logViewport.Width = max(m.width-4, 10)
	m.logViewport.Height = max(m.contentHeight()-3, 1)
}

// handleLogs replaces the viewport content with the latest tail.
func (m *Model) handleLogs(msg logsMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		return
	}
	styles := m.theme.Styles()
	lines := make([]string, 0, len(msg.entries))
	for _, e := range msg.entries {
		lines = append(lines, levelStyle(e.Level, styles).Render(truncate(e.Format(), m.logViewport.Width)))
	}
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	if m.logFollow || atBottom {
		m.logViewport.GotoBottom()
	}
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logFollow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	if !m.logViewport.AtBottom() {
		m.logFollow = false
	}
	return m, cmd
}

// renderLogs renders the logs view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	follow := "paused"
	if m.logFollow {
		follow = "following"
	}
	title := styles.InfoText.Bold(true).Render("Logs") + "  " +
		styles.MutedText.Render(truncateMiddle(m.logPath, 50)) + "  " +
		styles.FaintText.Render(follow)

	var body string
	switch {
	case m.logPath == "":
		body = styles.MutedText.Render("Logging to a file is disabled.")
	case m.logErr != nil:
		body = styles.DangerText.Render(m.logErr.Error())
	default:
		body = m.logViewport.View()
	}

	return styles.FocusPanel.
		Width(m.width - 2).
		Height(m.contentHeight() - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func levelStyle(l zerolog.Level, styles Styles) lipgloss.Style {
	switch l {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return styles.FaintText
	case zerolog.WarnLevel:
		return styles.WarningText
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return styles.DangerText
	default:
		return styles.Text
	}
}
