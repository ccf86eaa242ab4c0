// Package prefs persists printdeck user preferences.
// Preferences are stored in ~/.config/printdeck/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/printdeck/internal/config"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme string `toml:"theme"`
	// Selected is the ip of the printer highlighted when printdeck last ran.
	Selected string `toml:"selected,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/printdeck/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Any problem (missing file, bad TOML,
// unreadable home) degrades to defaults; preferences never block startup.
func Load(path string) Prefs {
	prefs := Prefs{Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}
	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return prefs
	}
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Theme: defaultTheme}
	}

	prefs.Theme = strings.TrimSpace(prefs.Theme)
	if prefs.Theme == "" {
		prefs.Theme = defaultTheme
	}
	prefs.Selected = strings.TrimSpace(prefs.Selected)
	return prefs
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
