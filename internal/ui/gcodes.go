package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/projector"
)

// gcodesState is the G-code library view.
type gcodesState struct {
	items   []karmen.Gcode
	next    string
	row     int
	loaded  bool
	loading bool
	err     error

	dialog projector.ViewState
	target karmen.Gcode

	// printing holds the printer ips with a print request in flight.
	printing map[string]bool
}

func newGcodesState() gcodesState {
	return gcodesState{printing: make(map[string]bool)}
}

func (g gcodesState) selected() (karmen.Gcode, bool) {
	if g.row < 0 || g.row >= len(g.items) {
		return karmen.Gcode{}, false
	}
	return g.items[g.row], true
}

func (g *gcodesState) selectRow(row int) {
	if len(g.items) == 0 {
		g.row = 0
		return
	}
	g.row = clampInt(row, 0, len(g.items)-1)
}

func (g *gcodesState) remove(id int64) {
	kept := g.items[:0:0]
	for _, item := range g.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	g.items = kept
	g.selectRow(g.row)
}

func (m Model) switchToGcodes() (tea.Model, tea.Cmd) {
	m.currentView = ViewGcodes
	if m.gcodes.loaded {
		return m, nil
	}
	cmd := m.fetchGcodes()
	return m, cmd
}

func (m *Model) fetchGcodes() tea.Cmd {
	if m.backend == nil || m.gcodes.loading {
		return nil
	}
	m.gcodes.loading = true
	return fetchGcodesCmd(m.ctx, m.backend)
}

// handleGcodesKey processes keyboard input for the G-code library.
func (m Model) handleGcodesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.RefreshGcodes):
		cmd := m.fetchGcodes()
		return m, cmd
	case key.Matches(msg, m.keys.Down):
		m.gcodes.selectRow(m.gcodes.row + 1)
	case key.Matches(msg, m.keys.Up):
		m.gcodes.selectRow(m.gcodes.row - 1)
	case key.Matches(msg, m.keys.Top):
		m.gcodes.selectRow(0)
	case key.Matches(msg, m.keys.Bottom):
		m.gcodes.selectRow(len(m.gcodes.items) - 1)
	case key.Matches(msg, m.keys.DeleteGcode):
		g, ok := m.gcodes.selected()
		if !ok {
			return m, nil
		}
		m.gcodes.dialog = m.gcodes.dialog.RequestDelete()
		m.gcodes.target = g
	case key.Matches(msg, m.keys.PrintGcode):
		return m.printSelected()
	}
	return m, nil
}

// printSelected starts the highlighted file on the highlighted printer.
func (m Model) printSelected() (tea.Model, tea.Cmd) {
	g, ok := m.gcodes.selected()
	if !ok || m.backend == nil {
		return m, nil
	}
	p, ok := m.selectedPrinter()
	if !ok {
		m.notice = notice{text: "Select a printer in the printers view first", err: true}
		return m, nil
	}
	ip := p.Key()
	switch {
	case !p.Client.Connected:
		m.notice = notice{text: fmt.Sprintf("%s is not connected", p.DisplayName()), err: true}
		return m, nil
	case projector.ComputeControlsVisibility(p.Status.State).ShowTransportControls:
		m.notice = notice{text: fmt.Sprintf("%s is already printing", p.DisplayName()), err: true}
		return m, nil
	case m.gcodes.printing[ip]:
		return m, nil
	}
	m.gcodes.printing[ip] = true
	m.notice = notice{text: fmt.Sprintf("Sending %s to %s", g.Title(), p.DisplayName())}
	m.log.Info().Int64("gcode_id", g.ID).Str("printer_ip", ip).Msg("print requested")
	return m, printGcodeCmd(m.ctx, m.backend, g, ip)
}

// handleGcodeDialogKey processes keyboard input while a file removal is
// being confirmed.
func (m Model) handleGcodeDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		m.gcodes.dialog = m.gcodes.dialog.Dismiss()
	case key.Matches(msg, m.keys.Confirm):
		m.gcodes.dialog = m.gcodes.dialog.Dismiss()
		g := m.gcodes.target
		if m.backend == nil || g.ID == 0 {
			return m, nil
		}
		m.log.Info().Int64("gcode_id", g.ID).Msg("gcode removal requested")
		m.gcodes.remove(g.ID)
		return m, deleteGcodeCmd(m.ctx, m.backend, g)
	}
	return m, nil
}

func (m Model) handleGcodes(msg gcodesMsg) (tea.Model, tea.Cmd) {
	m.gcodes.loading = false
	m.gcodes.err = msg.err
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("gcode list failed")
		return m, nil
	}
	m.gcodes.loaded = true
	m.gcodes.items = msg.list.Items
	m.gcodes.next = msg.list.Next
	m.gcodes.selectRow(m.gcodes.row)
	return m, nil
}

func (m Model) handleGcodeDelete(msg gcodeDeleteMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && !karmen.IsNotFound(msg.err) {
		m.log.Error().Err(msg.err).Int64("gcode_id", msg.gcode.ID).Msg("gcode removal failed")
		m.notice = notice{text: fmt.Sprintf("Removing %s failed: %s", msg.gcode.Title(), describeError(msg.err)), err: true}
		// The list was trimmed optimistically; reload the truth.
		cmd := m.fetchGcodes()
		return m, cmd
	}
	m.log.Info().Int64("gcode_id", msg.gcode.ID).Msg("gcode removed")
	m.notice = notice{text: fmt.Sprintf("%s removed", msg.gcode.Title())}
	return m, nil
}

func (m Model) handlePrint(msg printMsg) (tea.Model, tea.Cmd) {
	delete(m.gcodes.printing, msg.ip)
	if msg.err != nil {
		m.log.Error().Err(msg.err).Int64("gcode_id", msg.gcode.ID).Str("printer_ip", msg.ip).Msg("print failed")
		m.notice = notice{text: fmt.Sprintf("Printing %s on %s failed: %s", msg.gcode.Title(), msg.ip, describeError(msg.err)), err: true}
		return m, nil
	}
	m.log.Info().Int64("gcode_id", msg.gcode.ID).Str("printer_ip", msg.ip).Msg("print started")
	m.notice = notice{text: fmt.Sprintf("Printing %s on %s", msg.gcode.Title(), msg.ip)}
	// The new job belongs in the printer's history.
	m.jobs.forget(msg.ip)
	return m, nil
}
