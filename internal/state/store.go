package state

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/five82/printdeck/internal/karmen"
)

// offlineThreshold is the number of consecutive failed polls after which the
// printer list is considered stale.
const offlineThreshold = 2

// Snapshot represents the latest printer data available to the UI.
type Snapshot struct {
	Printers            []karmen.Printer
	HasPrinters         bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsStale returns true when printer polls have failed repeatedly.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= offlineThreshold
}

// Printer returns the printer with the given ip.
func (s Snapshot) Printer(ip string) (karmen.Printer, bool) {
	for _, p := range s.Printers {
		if p.Key() == ip {
			return p, true
		}
	}
	return karmen.Printer{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored printer list. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) Update(printers []karmen.Printer, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Printers = clonePrinters(printers)
	sort.SliceStable(s.snapshot.Printers, func(i, j int) bool {
		return s.snapshot.Printers[i].DisplayName() < s.snapshot.Printers[j].DisplayName()
	})
	s.snapshot.HasPrinters = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Remove drops a printer locally, e.g. right after it was deleted, so the UI
// does not wait for the next poll.
func (s *Store) Remove(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.snapshot.Printers[:0:0]
	for _, p := range s.snapshot.Printers {
		if p.Key() != ip {
			kept = append(kept, p)
		}
	}
	s.snapshot.Printers = kept
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Printers = clonePrinters(s.snapshot.Printers)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func clonePrinters(items []karmen.Printer) []karmen.Printer {
	if len(items) == 0 {
		return nil
	}
	dup := make([]karmen.Printer, len(items))
	copy(dup, items)
	return dup
}
