package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/prefs"
	"github.com/five82/printdeck/internal/projector"
	"github.com/five82/printdeck/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewPrinters View = iota
	ViewGcodes
	ViewLogs
)

// LivenessSource reports whether the backend answered its last heartbeat.
type LivenessSource interface {
	IsOnline() bool
}

// Options configures the UI.
type Options struct {
	Context  context.Context
	Backend  karmen.Backend
	Store    *state.Store
	Liveness LivenessSource
	// LivenessChanges delivers heartbeat transitions so the banner flips
	// without waiting for the next tick.
	LivenessChanges <-chan bool
	BackendURL      string
	LogPath         string
	PollTick        time.Duration
	ThemeName       string
	PrefsPath       string
	// Selected is the ip of the printer to highlight first.
	Selected string
	Logger   zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	backend    karmen.Backend
	store      *state.Store
	liveness   LivenessSource
	livenessCh <-chan bool
	backendURL string
	logPath    string
	prefsPath  string
	pollTick   time.Duration
	log        zerolog.Logger

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot    state.Snapshot
	online      bool
	lastUpdated time.Time

	// Printer state
	selectedRow int
	selectedIP  string
	dialog      projector.ViewState
	dialogIP    string
	pending     map[string]bool
	notice      notice
	jobs        jobsState

	// G-code library
	gcodes gcodesState

	// Log state
	logViewport viewport.Model
	logFollow   bool
	logErr      error
}

// notice is the one-line feedback of the last printer action.
type notice struct {
	text string
	err  bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 || pollTick > time.Second {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		backend:     opts.Backend,
		store:       opts.Store,
		liveness:    opts.Liveness,
		livenessCh:  opts.LivenessChanges,
		backendURL:  opts.BackendURL,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		log:         opts.Logger,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       GetTheme(themeName),
		currentView: ViewPrinters,
		online:      true,
		selectedIP:  strings.TrimSpace(opts.Selected),
		pending:     make(map[string]bool),
		logFollow:   true,
		logViewport: viewport.New(0, 0),
	}
	m.jobs = newJobsState()
	m.gcodes = newGcodesState()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.livenessCh != nil {
		cmds = append(cmds, waitLivenessCmd(m.ctx, m.livenessCh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resizeLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		return m.handleSnapshot(state.Snapshot(msg))

	case jobActionMsg:
		return m.handleJobAction(msg)

	case deleteMsg:
		return m.handleDelete(msg)

	case jobsMsg:
		m.jobs.apply(msg)
		return m, nil

	case gcodesMsg:
		return m.handleGcodes(msg)

	case gcodeDeleteMsg:
		return m.handleGcodeDelete(msg)

	case printMsg:
		return m.handlePrint(msg)

	case livenessMsg:
		if !msg.ok {
			return m, nil
		}
		m.online = msg.online
		return m, waitLivenessCmd(m.ctx, m.livenessCh)

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}

	if m.currentView == ViewLogs {
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// An open dialog owns the keyboard.
	if m.dialog.Confirming() {
		return m.handleDialogKey(msg)
	}
	if m.gcodes.dialog.Confirming() {
		return m.handleGcodeDialogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		switch m.currentView {
		case ViewPrinters:
			return m.switchToGcodes()
		case ViewGcodes:
			return m.switchToLogs()
		}
		m.currentView = ViewPrinters
		return m, nil

	case key.Matches(msg, m.keys.ViewPrinters):
		m.currentView = ViewPrinters
		return m, nil

	case key.Matches(msg, m.keys.ViewGcodes):
		return m.switchToGcodes()

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchToLogs()
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	case ViewGcodes:
		return m.handleGcodesKey(msg)
	default:
		return m.handlePrintersKey(msg)
	}
}

func (m Model) switchToLogs() (tea.Model, tea.Cmd) {
	m.currentView = ViewLogs
	m.resizeLogViewport()
	return m, loadLogsCmd(m.logPath)
}

// handleTick processes the UI refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logFollow {
		cmds = append(cmds, loadLogsCmd(m.logPath))
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// handleSnapshot applies a new store snapshot and liveness reading.
func (m Model) handleSnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	m.lastUpdated = time.Now()
	if m.liveness != nil {
		m.online = m.liveness.IsOnline()
	}
	m.syncSelection()

	// A cancel dialog is only meaningful while the job can still be cancelled.
	if m.dialog == projector.ViewConfirmingCancel {
		p, ok := m.snapshot.Printer(m.dialogIP)
		if !ok || !projector.ComputeControlsVisibility(p.Status.State).ShowTransportControls {
			m.dialog = m.dialog.Dismiss()
		}
	}
	if m.dialog == projector.ViewConfirmingDelete {
		if _, ok := m.snapshot.Printer(m.dialogIP); !ok {
			m.dialog = m.dialog.Dismiss()
		}
	}

	return m, m.maybeFetchJobs()
}

// syncSelection keeps the highlighted printer stable across reorders.
func (m *Model) syncSelection() {
	printers := m.snapshot.Printers
	if len(printers) == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedIP != "" {
		for i, p := range printers {
			if p.Key() == m.selectedIP {
				m.selectedRow = i
				return
			}
		}
	}
	m.selectedRow = clampInt(m.selectedRow, 0, len(printers)-1)
	m.selectedIP = printers[m.selectedRow].Key()
}

// selectedPrinter returns the highlighted printer.
func (m Model) selectedPrinter() (karmen.Printer, bool) {
	printers := m.snapshot.Printers
	if m.selectedRow < 0 || m.selectedRow >= len(printers) {
		return karmen.Printer{}, false
	}
	return printers[m.selectedRow], true
}

func (m *Model) selectRow(row int) {
	printers := m.snapshot.Printers
	if len(printers) == 0 {
		return
	}
	m.selectedRow = clampInt(row, 0, len(printers)-1)
	m.selectedIP = printers[m.selectedRow].Key()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Selected: m.selectedIP}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.savePrefs()
	}
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
