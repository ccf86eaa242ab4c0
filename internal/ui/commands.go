package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/logtail"
	"github.com/five82/printdeck/internal/state"
)

const (
	actionTimeout = 10 * time.Second
	jobsLimit     = 10
	jobsMaxAge    = 30 * time.Second
	gcodesLimit   = 50
	logTailLines  = 500
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type jobActionMsg struct {
	ip     string
	action karmen.JobAction
	err    error
}

type deleteMsg struct {
	ip  string
	err error
}

type jobsMsg struct {
	ip   string
	jobs []karmen.PrintJob
	err  error
	at   time.Time
}

type gcodesMsg struct {
	list karmen.GcodeListResponse
	err  error
}

type gcodeDeleteMsg struct {
	gcode karmen.Gcode
	err   error
}

type printMsg struct {
	gcode karmen.Gcode
	ip    string
	err   error
}

// livenessMsg carries a heartbeat transition; ok is false once the channel
// is closed.
type livenessMsg struct {
	online bool
	ok     bool
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func changeJobCmd(ctx context.Context, backend karmen.Backend, ip string, action karmen.JobAction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		return jobActionMsg{ip: ip, action: action, err: backend.ChangeCurrentJob(ctx, ip, action)}
	}
}

func deletePrinterCmd(ctx context.Context, backend karmen.Backend, ip string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		return deleteMsg{ip: ip, err: backend.DeletePrinter(ctx, ip)}
	}
}

func fetchJobsCmd(ctx context.Context, backend karmen.Backend, ip string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		resp, err := backend.FetchPrintJobs(ctx, karmen.PrintJobQuery{
			PrinterIP: ip,
			OrderBy:   "-id",
			Limit:     jobsLimit,
		})
		return jobsMsg{ip: ip, jobs: resp.Items, err: err, at: time.Now()}
	}
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		entries, err := logtail.Tail(path, logTailLines)
		return logsMsg{entries: entries, err: err}
	}
}

func fetchGcodesCmd(ctx context.Context, backend karmen.Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		list, err := backend.FetchGcodes(ctx, karmen.GcodeQuery{OrderBy: "-uploaded", Limit: gcodesLimit})
		return gcodesMsg{list: list, err: err}
	}
}

func deleteGcodeCmd(ctx context.Context, backend karmen.Backend, g karmen.Gcode) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		return gcodeDeleteMsg{gcode: g, err: backend.DeleteGcode(ctx, g.ID)}
	}
}

func printGcodeCmd(ctx context.Context, backend karmen.Backend, g karmen.Gcode, ip string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		return printMsg{gcode: g, ip: ip, err: backend.PrintGcode(ctx, g.ID, ip)}
	}
}

// waitLivenessCmd blocks until the heartbeat reports a transition.
func waitLivenessCmd(ctx context.Context, changes <-chan bool) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case online, ok := <-changes:
			return livenessMsg{online: online, ok: ok}
		case <-ctx.Done():
			return livenessMsg{}
		}
	}
}
