package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/printdeck/internal/karmen"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	printers := []karmen.Printer{{IP: "10.0.0.2", Name: "b"}, {IP: "10.0.0.1", Name: "a"}}

	before := time.Now()
	s.Update(printers, nil)

	snap := s.Snapshot()
	if !snap.HasPrinters || len(snap.Printers) != 2 {
		t.Fatalf("snapshot = %#v, want 2 printers", snap)
	}
	if snap.Printers[0].Name != "a" {
		t.Fatalf("printers not sorted by name: %#v", snap.Printers)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Printers[0].Name = "zzz"
	snap2 := s.Snapshot()
	if snap2.Printers[0].Name != "a" {
		t.Fatalf("Snapshot should clone printers; got %q want a", snap2.Printers[0].Name)
	}
	if printers[0].Name != "b" {
		t.Fatalf("Update must not reorder the caller's slice")
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]karmen.Printer{{IP: "10.0.0.1"}}, nil)

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if len(snap.Printers) != 1 || snap.Printers[0].IP != "10.0.0.1" {
		t.Fatalf("printers changed on error: %#v", snap.Printers)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsStale() {
		t.Fatalf("fresh store = %#v, want no failures", snap)
	}

	s.Update(nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsStale() {
		t.Fatalf("after 1 failure = %d stale=%v", snap.ConsecutiveFailures, snap.IsStale())
	}

	s.Update(nil, errors.New("fail 2"))
	if snap := s.Snapshot(); !snap.IsStale() {
		t.Fatal("IsStale() = false, want true with 2 failures")
	}

	s.Update([]karmen.Printer{}, nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsStale() {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if !snap.HasPrinters {
		t.Fatal("HasPrinters = false, want true after an empty but successful poll")
	}
}

func TestStore_RemoveAndLookup(t *testing.T) {
	var s Store
	s.Update([]karmen.Printer{{IP: "10.0.0.1"}, {IP: "10.0.0.2"}}, nil)

	if _, ok := s.Snapshot().Printer("10.0.0.2"); !ok {
		t.Fatal("Printer(10.0.0.2) not found")
	}

	s.Remove("10.0.0.2")
	snap := s.Snapshot()
	if _, ok := snap.Printer("10.0.0.2"); ok {
		t.Fatal("Printer(10.0.0.2) still present after Remove")
	}
	if len(snap.Printers) != 1 {
		t.Fatalf("len(Printers) = %d, want 1", len(snap.Printers))
	}
}
