// Package config is the contract-level configuration surface for Engram.
// Per the specification, full CLI flag parsing and TOML loading are treated
// as external concerns; this package defines the shape callers depend on and
// a minimal loader, not a general-purpose config framework.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the handful of settings Engram's core components read.
type Config struct {
	// DefaultAgentCommand is used by `record` when no argv is given.
	DefaultAgentCommand string `toml:"default_agent_command"`
	// CaptureBufferBytes bounds the in-memory terminal mirror (§4.2).
	CaptureBufferBytes int64 `toml:"capture_buffer_bytes"`
	// RemoteName is the Git remote sync operations target by default.
	RemoteName string `toml:"remote_name"`
	// IndexDir overrides the default `.git/engram-index` location.
	IndexDir string `toml:"index_dir"`
	// TelemetryEnabled opts into anonymous usage counting.
	TelemetryEnabled bool `toml:"telemetry_enabled"`
}

// Default returns the built-in defaults used when no config file is present.
func Default() Config {
	return Config{
		DefaultAgentCommand: "claude",
		CaptureBufferBytes:  10 << 20,
		RemoteName:          "origin",
		TelemetryEnabled:    false,
	}
}

// Load reads a TOML config file at path, falling back to Default() for any
// field the file doesn't set. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied, not derived from untrusted input
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
