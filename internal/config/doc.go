// Package config handles loading printdeck configuration files.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/printdeck/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Files with a .yaml or .yml extension are decoded as YAML; anything else is
// TOML.
//
// # Default Values
//
//   - backend_url: http://127.0.0.1:9764
//   - heartbeat_interval: 5 (seconds between liveness checks)
//   - poll_interval: 2 (seconds between printer list refreshes)
//   - request_timeout: 5 (seconds per HTTP request)
//   - log_file: ~/.local/state/printdeck/printdeck.log
//   - log_level: info
//
// # Example
//
//	backend_url = "http://karmen.local/api"
//	heartbeat_interval = 5
//	poll_interval = 2
//	log_level = "debug"
//
// # Path Expansion
//
// Paths beginning with ~ are expanded to the user's home directory and made
// absolute.
package config
