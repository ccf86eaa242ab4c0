package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/projector"
)

// handlePrintersKey processes keyboard input for the printers view.
func (m Model) handlePrintersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Printers)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.selectRow(m.selectedRow + 1)
		return m, m.maybeFetchJobs()
	case key.Matches(msg, m.keys.Up):
		m.selectRow(m.selectedRow - 1)
		return m, m.maybeFetchJobs()
	case key.Matches(msg, m.keys.Top):
		m.selectRow(0)
		return m, m.maybeFetchJobs()
	case key.Matches(msg, m.keys.Bottom):
		m.selectRow(count - 1)
		return m, m.maybeFetchJobs()
	case key.Matches(msg, m.keys.RefreshJobs):
		return m, m.fetchJobs(true)
	case key.Matches(msg, m.keys.ToggleJob):
		return m.toggleJob()
	case key.Matches(msg, m.keys.CancelJob):
		p, ok := m.selectedPrinter()
		if !ok {
			return m, nil
		}
		controls := projector.ComputeControlsVisibility(p.Status.State)
		m.dialog = m.dialog.RequestCancel(controls)
		if m.dialog.Confirming() {
			m.dialogIP = p.Key()
		}
		return m, nil
	case key.Matches(msg, m.keys.DeletePrinter):
		p, ok := m.selectedPrinter()
		if !ok {
			return m, nil
		}
		m.dialog = m.dialog.RequestDelete()
		m.dialogIP = p.Key()
		return m, nil
	}
	return m, nil
}

// toggleJob pauses or resumes the highlighted printer's job.
func (m Model) toggleJob() (tea.Model, tea.Cmd) {
	p, ok := m.selectedPrinter()
	if !ok || m.backend == nil {
		return m, nil
	}
	ip := p.Key()
	controls := projector.ComputeControlsVisibility(p.Status.State)
	if !controls.ShowTransportControls || m.pending[ip] {
		return m, nil
	}
	m.pending[ip] = true
	m.notice = notice{text: fmt.Sprintf("Requested %s on %s", controls.ToggleLabel(), p.DisplayName())}
	m.log.Info().Str("printer_ip", ip).Str("action", string(karmen.ActionToggle)).Msg("job action requested")
	return m, changeJobCmd(m.ctx, m.backend, ip, karmen.ActionToggle)
}

// handleDialogKey processes keyboard input while a confirmation is open.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dismiss):
		m.dialog = m.dialog.Dismiss()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		ip := m.dialogIP
		if m.backend == nil || ip == "" {
			m.dialog = m.dialog.Dismiss()
			return m, nil
		}
		switch m.dialog {
		case projector.ViewConfirmingCancel:
			// The dialog stays up until the backend answers.
			if m.pending[ip] {
				return m, nil
			}
			m.pending[ip] = true
			m.log.Info().Str("printer_ip", ip).Str("action", string(karmen.ActionCancel)).Msg("job action requested")
			return m, changeJobCmd(m.ctx, m.backend, ip, karmen.ActionCancel)

		case projector.ViewConfirmingDelete:
			m.dialog = m.dialog.Dismiss()
			m.log.Info().Str("printer_ip", ip).Msg("printer removal requested")
			m.removeLocally(ip)
			return m, deletePrinterCmd(m.ctx, m.backend, ip)
		}
	}
	return m, nil
}

// handleJobAction records the outcome of a toggle or cancel request.
func (m Model) handleJobAction(msg jobActionMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, msg.ip)
	if msg.action == karmen.ActionCancel && m.dialog == projector.ViewConfirmingCancel && m.dialogIP == msg.ip {
		m.dialog = m.dialog.Dismiss()
	}

	if msg.err != nil {
		m.log.Error().Err(msg.err).
			Str("printer_ip", msg.ip).
			Str("action", string(msg.action)).
			Msg("job action failed")
		m.notice = notice{text: fmt.Sprintf("%s failed on %s: %s", msg.action, msg.ip, describeError(msg.err)), err: true}
		return m, nil
	}

	m.log.Info().Str("printer_ip", msg.ip).Str("action", string(msg.action)).Msg("job action accepted")
	switch msg.action {
	case karmen.ActionCancel:
		m.notice = notice{text: fmt.Sprintf("Print cancelled on %s", msg.ip)}
	default:
		m.notice = notice{text: fmt.Sprintf("Pause/resume accepted by %s", msg.ip)}
	}
	return m, nil
}

// handleDelete records the outcome of a printer removal.
func (m Model) handleDelete(msg deleteMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && !karmen.IsNotFound(msg.err) {
		m.log.Error().Err(msg.err).Str("printer_ip", msg.ip).Msg("printer removal failed")
		m.notice = notice{text: fmt.Sprintf("Removing %s failed: %s", msg.ip, describeError(msg.err)), err: true}
		return m, nil
	}
	m.log.Info().Str("printer_ip", msg.ip).Msg("printer removed")
	m.notice = notice{text: fmt.Sprintf("Printer %s removed", msg.ip)}
	return m, nil
}

// removeLocally drops ip from the store and the view without waiting for the
// next poll.
func (m *Model) removeLocally(ip string) {
	m.jobs.forget(ip)
	if m.store != nil {
		m.store.Remove(ip)
		m.snapshot = m.store.Snapshot()
	} else {
		kept := m.snapshot.Printers[:0:0]
		for _, p := range m.snapshot.Printers {
			if p.Key() != ip {
				kept = append(kept, p)
			}
		}
		m.snapshot.Printers = kept
	}
	if m.selectedIP == ip {
		m.selectedIP = ""
	}
	m.syncSelection()
}

// describeError shortens backend errors for the notice line.
func describeError(err error) string {
	var se *karmen.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("backend returned %d", se.Code)
	}
	return err.Error()
}
