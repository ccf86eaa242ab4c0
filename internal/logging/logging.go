// Package logging builds the zerolog logger printdeck writes to its log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing JSON lines to path at the given level. An
// empty path yields a disabled logger. The returned closer releases the file.
func New(path, level string) (zerolog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}

	return NewWriter(file, lvl), file, nil
}

// NewWriter returns a timestamped logger on w.
func NewWriter(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// ParseLevel maps a config level name to a zerolog level; empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}

// Component returns a child logger tagged with the component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
