package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config captures everything printdeck needs to reach and watch the backend.
type Config struct {
	BackendURL        string
	HeartbeatInterval time.Duration
	PollInterval      time.Duration
	RequestTimeout    time.Duration
	LogFile           string
	LogLevel          string
}

const (
	defaultConfigPath        = "~/.config/printdeck/config.toml"
	defaultBackendURL        = "http://127.0.0.1:9764"
	defaultLogFile           = "~/.local/state/printdeck/printdeck.log"
	defaultLogLevel          = "info"
	defaultHeartbeatInterval = 5 * time.Second
	defaultPollInterval      = 2 * time.Second
	defaultRequestTimeout    = 5 * time.Second
)

// rawConfig is the on-disk shape; durations are whole seconds.
type rawConfig struct {
	BackendURL        string `toml:"backend_url" yaml:"backend_url"`
	HeartbeatInterval int    `toml:"heartbeat_interval" yaml:"heartbeat_interval"`
	PollInterval      int    `toml:"poll_interval" yaml:"poll_interval"`
	RequestTimeout    int    `toml:"request_timeout" yaml:"request_timeout"`
	LogFile           string `toml:"log_file" yaml:"log_file"`
	LogLevel          string `toml:"log_level" yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BackendURL:        defaultBackendURL,
		HeartbeatInterval: defaultHeartbeatInterval,
		PollInterval:      defaultPollInterval,
		RequestTimeout:    defaultRequestTimeout,
		LogFile:           mustExpand(defaultLogFile),
		LogLevel:          defaultLogLevel,
	}
}

// Load locates and parses the printdeck config, falling back to defaults when missing.
// Files ending in .yaml or .yml are read as YAML, everything else as TOML.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &raw)
	default:
		err = toml.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return raw.normalize(), nil
}

func (raw rawConfig) normalize() Config {
	cfg := Default()

	if v := strings.TrimSpace(raw.BackendURL); v != "" {
		cfg.BackendURL = v
	}
	cfg.HeartbeatInterval = seconds(raw.HeartbeatInterval, defaultHeartbeatInterval)
	cfg.PollInterval = seconds(raw.PollInterval, defaultPollInterval)
	cfg.RequestTimeout = seconds(raw.RequestTimeout, defaultRequestTimeout)
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

func seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
