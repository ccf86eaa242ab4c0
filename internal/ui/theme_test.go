package ui

import (
	"testing"

	"github.com/five82/printdeck/internal/karmen"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Dracula" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Dracula Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Dracula",
		"Dracula":  "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range cases {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %s", in, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if unknown := GetTheme("Unknown"); unknown.Name != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", unknown.Name)
	}
}

func TestStateColor(t *testing.T) {
	th := GetTheme("Dracula")
	if got := th.StateColor(karmen.StatePrinting); got != th.StateColors[karmen.StatePrinting] {
		t.Fatalf("StateColor(Printing) = %q", got)
	}
	if got := th.StateColor("Closed"); got != th.Muted {
		t.Fatalf("StateColor unknown = %q, want %q", got, th.Muted)
	}
}

func TestEveryThemeColorsEveryState(t *testing.T) {
	states := []karmen.PrinterState{karmen.StatePrinting, karmen.StatePaused, karmen.StateOperational, karmen.StateOffline}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, s := range states {
			if th.StateColors[s] == "" {
				t.Fatalf("theme %s has no color for %s", name, s)
			}
		}
	}
}
