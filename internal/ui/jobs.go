package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/printdeck/internal/karmen"
)

// jobsState caches the recent print jobs of each printer.
type jobsState struct {
	byIP    map[string]jobsEntry
	loading map[string]bool
}

type jobsEntry struct {
	jobs    []karmen.PrintJob
	err     error
	fetched time.Time
}

func newJobsState() jobsState {
	return jobsState{
		byIP:    make(map[string]jobsEntry),
		loading: make(map[string]bool),
	}
}

func (j jobsState) apply(msg jobsMsg) {
	delete(j.loading, msg.ip)
	entry := jobsEntry{jobs: msg.jobs, err: msg.err, fetched: msg.at}
	if msg.err != nil {
		// Keep the last good list visible next to the error.
		entry.jobs = j.byIP[msg.ip].jobs
	}
	j.byIP[msg.ip] = entry
}

// needsFetch reports whether ip has no fresh list and none is on the way.
func (j jobsState) needsFetch(ip string, now time.Time) bool {
	if ip == "" || j.loading[ip] {
		return false
	}
	entry, ok := j.byIP[ip]
	return !ok || now.Sub(entry.fetched) >= jobsMaxAge
}

func (j jobsState) forget(ip string) {
	delete(j.byIP, ip)
	delete(j.loading, ip)
}

// maybeFetchJobs loads recent jobs for the highlighted printer when stale.
func (m Model) maybeFetchJobs() tea.Cmd {
	return m.fetchJobs(false)
}

func (m Model) fetchJobs(force bool) tea.Cmd {
	if m.backend == nil {
		return nil
	}
	p, ok := m.selectedPrinter()
	if !ok {
		return nil
	}
	ip := p.Key()
	if !force && !m.jobs.needsFetch(ip, time.Now()) {
		return nil
	}
	if m.jobs.loading[ip] {
		return nil
	}
	m.jobs.loading[ip] = true
	return fetchJobsCmd(m.ctx, m.backend, ip)
}
