// Package agent identifies the coding agent a capture or import pipeline
// is dealing with. Unlike the teacher's per-tool plugin registry (detection,
// hook installation, and session-file parsing all implemented per agent),
// Engram's hook coordination and transcript parsing are agent-agnostic, so
// this package is reduced to naming: recognizing a known agent from its
// invoked command and giving capture/import a canonical record.Agent.Name.
package agent

import (
	"path/filepath"
	"strings"

	"github.com/engramhq/engram/internal/record"
)

// Name is a canonical, lowercase agent identifier, used as manifest.agent.name.
type Name string

const (
	ClaudeCode Name = "claude-code"
	Codex      Name = "codex"
	Aider      Name = "aider"
	Unknown    Name = "unknown"
)

// commandAliases maps the executable names a known agent is invoked as to
// its canonical Name. Multiple aliases exist because agents are commonly
// wrapped by shims or invoked via their package's bin name.
var commandAliases = map[string]Name{
	"claude":      ClaudeCode,
	"claude-code": ClaudeCode,
	"codex":       Codex,
	"aider":       Aider,
}

// IdentifyCommand maps a child process's command (as passed to the capture
// pipeline, e.g. "claude" or "/usr/local/bin/codex") to a canonical agent
// Name, falling back to Unknown for anything not recognized.
func IdentifyCommand(command string) Name {
	base := filepath.Base(command)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if name, ok := commandAliases[strings.ToLower(base)]; ok {
		return name
	}
	return Unknown
}

// ForCapture builds the record.Agent a wrapper-mode capture should record,
// given the argv it supervised. Model/version are left empty: wrapper mode
// has no structured channel to learn them from.
func ForCapture(argv []string) record.Agent {
	if len(argv) == 0 {
		return record.Agent{Name: string(Unknown)}
	}
	return record.Agent{Name: string(IdentifyCommand(argv[0]))}
}
