// Package state provides thread-safe state management for printdeck.
//
// # Overview
//
// This package implements a small store for sharing printer snapshots between
// the background printer poller and the UI. It is the coordination point where
// polling updates meet rendering.
//
//	Producer (poller):             Consumer (UI):
//	┌──────────────────┐          ┌──────────────────┐
//	│ FetchPrinters()  │          │                  │
//	│      ↓           │          │                  │
//	│ store.Update()   │─────────→│ store.Snapshot() │
//	│      ↓           │ (mutex)  │      ↓           │
//	│  repeat...       │          │  project+render  │
//	└──────────────────┘          └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace the printer list (sorted by display name)
//	store.Update(printers, nil)
//
//	// Error: keep the old list, record the error, count the failure
//	store.Update(nil, err)
//
// The UI therefore always has the most recent successful data while still
// learning about polling failures. Two consecutive failures mark the snapshot
// stale.
//
// Backend liveness is not tracked here; it lives in package liveness, which
// owns its own flag and schedule.
//
// # Copying
//
// Update and Snapshot copy the printer slice so neither side can mutate the
// other's view. Printer values hold pointers to job and temperature structs;
// those are treated as immutable once decoded.
//
// The zero value is ready to use.
package state
