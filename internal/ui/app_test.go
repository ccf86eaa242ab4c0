package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/projector"
	"github.com/five82/printdeck/internal/state"
)

type fakeBackend struct {
	mu        sync.Mutex
	actions   []string
	deleted   []string
	jobErr    error
	jobs      []karmen.PrintJob
	gcodes    []karmen.Gcode
	gcodesErr error
	removed   []int64
	removeErr error
	printed   []string
	printErr  error
}

func (f *fakeBackend) CheckLiveness(context.Context) bool { return true }

func (f *fakeBackend) FetchPrinters(context.Context, ...string) ([]karmen.Printer, error) {
	return nil, nil
}

func (f *fakeBackend) FetchPrinter(context.Context, string, ...string) (*karmen.Printer, error) {
	return nil, nil
}

func (f *fakeBackend) DeletePrinter(_ context.Context, ip string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ip)
	return nil
}

func (f *fakeBackend) ChangeCurrentJob(_ context.Context, ip string, action karmen.JobAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, ip+":"+string(action))
	return f.jobErr
}

func (f *fakeBackend) FetchPrintJobs(_ context.Context, q karmen.PrintJobQuery) (karmen.PrintJobListResponse, error) {
	return karmen.PrintJobListResponse{Items: f.jobs}, nil
}

func (f *fakeBackend) AddPrinter(context.Context, string, string) error { return nil }

func (f *fakeBackend) RenamePrinter(context.Context, string, string) error { return nil }

func (f *fakeBackend) FetchGcodes(context.Context, karmen.GcodeQuery) (karmen.GcodeListResponse, error) {
	return karmen.GcodeListResponse{Items: f.gcodes}, f.gcodesErr
}

func (f *fakeBackend) DeleteGcode(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.removeErr
}

func (f *fakeBackend) PrintGcode(_ context.Context, id int64, ip string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.printed = append(f.printed, fmt.Sprintf("%d@%s", id, ip))
	return f.printErr
}

func (f *fakeBackend) FetchSettings(context.Context) ([]karmen.Setting, error) { return nil, nil }

func (f *fakeBackend) ChangeSettings(context.Context, []karmen.Setting) error { return nil }

type fixedLiveness bool

func (f fixedLiveness) IsOnline() bool { return bool(f) }

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, backend *fakeBackend, online bool, printers ...karmen.Printer) Model {
	t.Helper()
	store := &state.Store{}
	store.Update(printers, nil)
	m := New(Options{
		Backend:   backend,
		Store:     store,
		Liveness:  fixedLiveness(online),
		PrefsPath: t.TempDir() + "/prefs.toml",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(snapshotMsg(store.Snapshot()))
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func printing(ip string) karmen.Printer {
	left := 600.0
	return karmen.Printer{
		IP:     ip,
		Name:   "printer " + ip,
		Client: karmen.ClientInfo{Name: "octoprint", Connected: true},
		Status: karmen.PrinterStatus{State: karmen.StatePrinting},
		Job:    &karmen.Job{Name: "benchy.gcode", Completion: 40, PrintTime: 400, PrintTimeLeft: &left},
	}
}

func TestNew_Defaults(t *testing.T) {
	m := New(Options{})
	assert.True(t, m.online, "liveness starts optimistic")
	assert.Equal(t, "Nightfox", m.theme.Name)
	assert.Equal(t, ViewPrinters, m.currentView)
	assert.Equal(t, projector.ViewNormal, m.dialog)
}

func TestSnapshot_RestoresSelectedPrinter(t *testing.T) {
	store := &state.Store{}
	store.Update([]karmen.Printer{printing("10.0.0.1"), printing("10.0.0.2")}, nil)
	m := New(Options{Store: store, Selected: "10.0.0.2"})

	m, _ = update(t, m, snapshotMsg(store.Snapshot()))

	p, ok := m.selectedPrinter()
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2", p.IP)
}

func TestOfflineBanner(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, false, printing("10.0.0.1"))
	assert.Contains(t, m.View(), offlineBanner)

	m = newTestModel(t, &fakeBackend{}, true, printing("10.0.0.1"))
	assert.NotContains(t, m.View(), offlineBanner)
}

func TestCancelFlow_ConfirmSendsCancel(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, true, printing("10.0.0.1"))

	m, cmd := update(t, m, runeKey("x"))
	require.Nil(t, cmd)
	require.Equal(t, projector.ViewConfirmingCancel, m.dialog)
	assert.Contains(t, m.View(), "You are about to cancel the whole print!")

	m, cmd = update(t, m, runeKey("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, projector.ViewConfirmingCancel, m.dialog, "dialog waits for the backend")

	msg := cmd()
	m, _ = update(t, m, msg)
	assert.Equal(t, projector.ViewNormal, m.dialog)
	assert.Equal(t, []string{"10.0.0.1:cancel"}, backend.actions)
	assert.Contains(t, m.notice.text, "cancelled")
	assert.False(t, m.notice.err)
}

func TestCancelFlow_DismissKeepsPrinting(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, true, printing("10.0.0.1"))

	m, _ = update(t, m, runeKey("x"))
	m, cmd := update(t, m, runeKey("n"))

	assert.Nil(t, cmd)
	assert.Equal(t, projector.ViewNormal, m.dialog)
	assert.Empty(t, backend.actions)
}

func TestCancel_IgnoredWithoutActiveJob(t *testing.T) {
	idle := printing("10.0.0.1")
	idle.Status.State = karmen.StateOperational
	m := newTestModel(t, &fakeBackend{}, true, idle)

	m, _ = update(t, m, runeKey("x"))
	assert.Equal(t, projector.ViewNormal, m.dialog)
}

func TestToggle_SendsToggleOnce(t *testing.T) {
	backend := &fakeBackend{}
	paused := printing("10.0.0.1")
	paused.Status.State = karmen.StatePaused
	m := newTestModel(t, backend, true, paused)

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	m, cmd := update(t, m, space)
	require.NotNil(t, cmd)
	assert.Contains(t, m.notice.text, "resume")

	// A second press while the first is in flight does nothing.
	_, again := update(t, m, space)
	assert.Nil(t, again)

	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{"10.0.0.1:toggle"}, backend.actions)
	assert.False(t, m.pending["10.0.0.1"])
}

func TestToggle_ErrorShowsStatus(t *testing.T) {
	backend := &fakeBackend{jobErr: &karmen.StatusError{Op: "change job", Code: 409}}
	m := newTestModel(t, backend, true, printing("10.0.0.1"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.True(t, m.notice.err)
	assert.Contains(t, m.notice.text, "backend returned 409")
}

func TestDeleteFlow_RemovesPrinter(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, true, printing("10.0.0.1"), printing("10.0.0.2"))

	m, _ = update(t, m, runeKey("D"))
	require.Equal(t, projector.ViewConfirmingDelete, m.dialog)
	view := m.View()
	assert.Contains(t, view, "Remove printer")
	assert.Contains(t, view, "10.0.0.1")

	m, cmd := update(t, m, runeKey("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, projector.ViewNormal, m.dialog)
	require.Len(t, m.snapshot.Printers, 1)
	assert.Equal(t, "10.0.0.2", m.snapshot.Printers[0].IP)
	_, stillStored := m.store.Snapshot().Printer("10.0.0.1")
	assert.False(t, stillStored)

	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{"10.0.0.1"}, backend.deleted)
	assert.Contains(t, m.notice.text, "removed")
}

func TestSnapshot_ClosesCancelDialogWhenJobEnds(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, true, printing("10.0.0.1"))
	m, _ = update(t, m, runeKey("x"))
	require.Equal(t, projector.ViewConfirmingCancel, m.dialog)

	done := printing("10.0.0.1")
	done.Status.State = karmen.StateOperational
	m.store.Update([]karmen.Printer{done}, nil)
	m, _ = update(t, m, snapshotMsg(m.store.Snapshot()))

	assert.Equal(t, projector.ViewNormal, m.dialog)
}

func TestNavigation_FetchesJobsForSelection(t *testing.T) {
	backend := &fakeBackend{jobs: []karmen.PrintJob{{ID: 7, PrinterIP: "10.0.0.2"}}}
	m := newTestModel(t, backend, true, printing("10.0.0.1"), printing("10.0.0.2"))

	m, cmd := update(t, m, runeKey("j"))
	require.NotNil(t, cmd)
	assert.Equal(t, "10.0.0.2", m.selectedIP)

	m, _ = update(t, m, cmd())
	entry, ok := m.jobs.byIP["10.0.0.2"]
	require.True(t, ok)
	require.Len(t, entry.jobs, 1)
	assert.Contains(t, m.renderJobs("10.0.0.2", 60), "gcode #0")
}

func TestDetail_ShowsProjectedValues(t *testing.T) {
	p := printing("10.0.0.1")
	p.Status.Temperature = &karmen.Temperature{Tool0: &karmen.TemperatureReading{Actual: 210.5, Target: 210}}
	m := newTestModel(t, &fakeBackend{}, true, p)

	out := m.renderDetail(80)
	assert.Contains(t, out, "Tool: 210.5/210 °C")
	assert.Contains(t, out, "benchy.gcode")
	assert.Contains(t, out, "40.00% (00h 10m remaining)")
	assert.Contains(t, out, "pause")
}

func TestCycleTheme_PersistsPrefs(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, true)
	m, _ = update(t, m, runeKey("T"))
	assert.Equal(t, "Dracula", m.theme.Name)
}

func TestLogsView_Toggle(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, true)
	m, cmd := update(t, m, runeKey("l"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewLogs, m.currentView)
	assert.Contains(t, m.View(), "Logging to a file is disabled.")

	m, _ = update(t, m, runeKey("f"))
	assert.False(t, m.logFollow)

	m, _ = update(t, m, runeKey("1"))
	assert.Equal(t, ViewPrinters, m.currentView)
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "backend returned 404", describeError(&karmen.StatusError{Op: "x", Code: 404}))
	assert.Equal(t, "boom", describeError(errors.New("boom")))
}

func TestRenderProgressBar(t *testing.T) {
	styles := GetTheme("Slate").Styles()
	out := renderProgressBar(50, 10, styles)
	assert.Equal(t, 5, strings.Count(out, "█"))
	assert.Equal(t, 5, strings.Count(out, "░"))

	out = renderProgressBar(150, 4, styles)
	assert.Equal(t, 4, strings.Count(out, "█"))
}

func TestLivenessChange_FlipsBanner(t *testing.T) {
	changes := make(chan bool, 1)
	m := New(Options{Liveness: fixedLiveness(true), LivenessChanges: changes, PrefsPath: t.TempDir() + "/prefs.toml"})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	require.NotContains(t, m.View(), offlineBanner)

	changes <- false
	msg := waitLivenessCmd(context.Background(), changes)()
	assert.Equal(t, livenessMsg{online: false, ok: true}, msg)

	m, cmd := update(t, m, msg)
	assert.Contains(t, m.View(), offlineBanner)
	assert.NotNil(t, cmd, "keeps listening")

	close(changes)
	m, cmd = update(t, m, waitLivenessCmd(context.Background(), changes)())
	assert.Nil(t, cmd)
	assert.False(t, m.online)
}

func TestWaitLiveness_StopsWithContext(t *testing.T) {
	assert.Nil(t, waitLivenessCmd(context.Background(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, livenessMsg{}, waitLivenessCmd(ctx, make(chan bool))())
}
