package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/printdeck/internal/karmen"
	"github.com/five82/printdeck/internal/state"
)

type fakeBackend struct {
	karmen.Backend
	printers []karmen.Printer
	err      error
	calls    atomic.Int32
	fields   []string
}

func (f *fakeBackend) FetchPrinters(_ context.Context, fields ...string) ([]karmen.Printer, error) {
	f.calls.Add(1)
	f.fields = fields
	return f.printers, f.err
}

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second},
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestRefresh_UpdatesStore(t *testing.T) {
	store := &state.Store{}
	backend := &fakeBackend{printers: []karmen.Printer{
		{IP: "10.0.0.2", Name: "beta"},
		{IP: "10.0.0.1", Name: "alpha"},
	}}

	refresh(context.Background(), store, backend, zerolog.Nop())

	snap := store.Snapshot()
	if !snap.HasPrinters || len(snap.Printers) != 2 {
		t.Fatalf("snapshot = %#v", snap)
	}
	if snap.Printers[0].Name != "alpha" {
		t.Fatalf("printers not sorted: %#v", snap.Printers)
	}
	if len(backend.fields) != len(karmen.DefaultPrinterFields) {
		t.Fatalf("fields = %v, want %v", backend.fields, karmen.DefaultPrinterFields)
	}
}

func TestRefresh_RecordsFailureAndKeepsData(t *testing.T) {
	store := &state.Store{}
	store.Update([]karmen.Printer{{IP: "10.0.0.1"}}, nil)
	backend := &fakeBackend{err: errors.New("connection refused")}

	refresh(context.Background(), store, backend, zerolog.Nop())
	refresh(context.Background(), store, backend, zerolog.Nop())

	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsStale() {
		t.Fatalf("failures = %d, stale = %v", snap.ConsecutiveFailures, snap.IsStale())
	}
	if len(snap.Printers) != 1 {
		t.Fatalf("previous printers dropped: %#v", snap.Printers)
	}
}

func TestRefresh_IgnoresCancelledContext(t *testing.T) {
	store := &state.Store{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	refresh(ctx, store, &fakeBackend{err: context.Canceled}, zerolog.Nop())

	if snap := store.Snapshot(); snap.ConsecutiveFailures != 0 {
		t.Fatalf("cancelled refresh counted as failure: %d", snap.ConsecutiveFailures)
	}
}

func TestStartPoller_PollsUntilCancelled(t *testing.T) {
	store := &state.Store{}
	backend := &fakeBackend{printers: []karmen.Printer{{IP: "10.0.0.1"}}}
	ctx, cancel := context.WithCancel(context.Background())

	StartPoller(ctx, store, backend, 10*time.Millisecond, zerolog.Nop())

	deadline := time.Now().Add(2 * time.Second)
	for backend.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want at least 2", backend.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := backend.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if backend.calls.Load() != settled {
		t.Fatalf("poller kept running after cancel")
	}
	if !store.Snapshot().HasPrinters {
		t.Fatalf("store never populated")
	}
}
