// Package record defines Engram's canonical entity types: the five parts
// that make up a record, their ids, and the polymorphic payloads embedded
// inside them. Serialization lives in sibling files (intent.go,
// transcript.go); this file is data shapes only.
package record

import (
	"encoding/json"
	"time"
)

// CaptureMode records how an engram came to exist.
type CaptureMode string

const (
	CaptureModeWrapper CaptureMode = "wrapper"
	CaptureModeImport  CaptureMode = "import"
	CaptureModeSDK     CaptureMode = "sdk"
)

// Agent identifies the coding agent that produced a session.
type Agent struct {
	Name    string `json:"name"`
	Model   string `json:"model,omitempty"`
	Version string `json:"version,omitempty"`
}

// TokenUsage tracks token and cost accounting for a session.
type TokenUsage struct {
	Input      int      `json:"input"`
	Output     int      `json:"output"`
	CacheRead  int      `json:"cache_read"`
	CacheWrite int      `json:"cache_write"`
	Total      int      `json:"total"`
	CostUSD    *float64 `json:"cost_usd,omitempty"`
}

// Add returns the element-wise sum of u and other, with Total recomputed
// as input+output (cache tokens excluded, per the invariant) and CostUSD
// accumulated additively when either side has a value.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	sum := TokenUsage{
		Input:      u.Input + other.Input,
		Output:     u.Output + other.Output,
		CacheRead:  u.CacheRead + other.CacheRead,
		CacheWrite: u.CacheWrite + other.CacheWrite,
	}
	sum.Total = sum.Input + sum.Output
	if u.CostUSD != nil || other.CostUSD != nil {
		var cost float64
		if u.CostUSD != nil {
			cost += *u.CostUSD
		}
		if other.CostUSD != nil {
			cost += *other.CostUSD
		}
		sum.CostUSD = &cost
	}
	return sum
}

// Manifest is the compact metadata blob, sufficient for listing without
// loading the other four parts.
type Manifest struct {
	ID          ID          `json:"id"`
	Version     int         `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty"`
	Agent       Agent       `json:"agent"`
	CaptureMode CaptureMode `json:"capture_mode"`
	GitCommits  []string    `json:"git_commits"`
	TokenUsage  TokenUsage  `json:"token_usage"`
	Summary     string      `json:"summary,omitempty"`
	Tags        []string    `json:"tags"`
	SourceHash  string      `json:"source_hash,omitempty"`
}

// CurrentSchemaVersion is the manifest.version written by this build.
const CurrentSchemaVersion = 1

// DeadEnd is one rejected approach noted in the Intent document.
type DeadEnd struct {
	Approach string `json:"approach"`
	Reason   string `json:"reason"`
	// Heuristic is true when this entry was extracted from raw terminal
	// output by best-effort pattern matching rather than emitted directly
	// by a structured agent SDK. Downstream consumers should not treat
	// heuristic entries as ground truth (open question (b), §9).
	Heuristic bool `json:"heuristic,omitempty"`
}

// Decision is one recorded decision noted in the Intent document.
type Decision struct {
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
	Heuristic   bool   `json:"heuristic,omitempty"`
}

// Intent is the human-readable markdown document describing why a session
// happened. The markdown form is canonical on disk; this struct is the
// parsed in-memory view, round-tripped by ToMarkdown/ParseIntentMarkdown.
type Intent struct {
	OriginalRequest string     `json:"original_request"`
	InterpretedGoal string     `json:"interpreted_goal,omitempty"`
	Summary         string     `json:"summary,omitempty"`
	DeadEnds        []DeadEnd  `json:"dead_ends"`
	Decisions       []Decision `json:"decisions"`
}

// Role identifies the speaker of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ContentKind tags the polymorphic payload of a transcript entry.
type ContentKind string

const (
	ContentKindText       ContentKind = "text"
	ContentKindToolUse    ContentKind = "tool_use"
	ContentKindToolResult ContentKind = "tool_result"
	ContentKindUnknown    ContentKind = "unknown"
)

// Content is a tagged union over a transcript entry's body. Exactly one of
// the kind-specific fields is meaningful, selected by Kind; Raw preserves
// the original bytes for ContentKindUnknown so unrecognized payloads
// round-trip losslessly.
type Content struct {
	Kind ContentKind

	Text string

	ToolUseID string
	ToolName  string
	Input     json.RawMessage

	ToolResultID string
	Output       json.RawMessage
	IsError      bool

	Raw json.RawMessage
}

// TranscriptEntry is one line of the newline-delimited transcript.
type TranscriptEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Role       Role      `json:"role"`
	Content    Content   `json:"content"`
	TokenCount *int      `json:"token_count,omitempty"`
}

// ToolCall records one invocation of a tool during a session.
type ToolCall struct {
	Timestamp      time.Time       `json:"timestamp"`
	ToolName       string          `json:"tool_name"`
	Input          json.RawMessage `json:"input"`
	OutputSummary  string          `json:"output_summary,omitempty"`
	DurationMillis *int64          `json:"duration_ms,omitempty"`
	IsError        bool            `json:"is_error"`
}

// ChangeKind is the closed set of file mutation kinds.
type ChangeKind string

const (
	ChangeCreated  ChangeKind = "created"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeRenamed  ChangeKind = "renamed"
)

// ChangeType is either a bare tag (created/modified/deleted) or the
// structured renamed{from} variant. See change_type.go for its JSON shape.
type ChangeType struct {
	Kind ChangeKind
	From string // only meaningful when Kind == ChangeRenamed
}

// FileChange records one file's mutation during a session.
type FileChange struct {
	Path         string     `json:"path"`
	Change       ChangeType `json:"change_type"`
	LinesAdded   *int       `json:"lines_added,omitempty"`
	LinesRemoved *int       `json:"lines_removed,omitempty"`
}

// ShellCommand records one shell invocation observed during a session.
type ShellCommand struct {
	Timestamp      time.Time `json:"timestamp"`
	Command        string    `json:"command"`
	ExitCode       *int      `json:"exit_code,omitempty"`
	DurationMillis *int64    `json:"duration_ms,omitempty"`
}

// Operations holds the three append-only activity logs of a session.
type Operations struct {
	ToolCalls     []ToolCall     `json:"tool_calls"`
	FileChanges   []FileChange   `json:"file_changes"`
	ShellCommands []ShellCommand `json:"shell_commands"`
}

// Lineage links an engram to its neighbors in the provenance graph.
type Lineage struct {
	ParentEngram    *ID      `json:"parent_engram,omitempty"`
	ChildEngrams    []ID     `json:"child_engrams"`
	RelatedEngrams  []ID     `json:"related_engrams"`
	GitCommits      []string `json:"git_commits"`
	Branch          string   `json:"branch,omitempty"`
}

// Data is a complete, assembled engram: the five persisted parts plus its
// id for convenience.
type Data struct {
	Manifest   Manifest
	Intent     Intent
	Transcript []TranscriptEntry
	Operations Operations
	Lineage    Lineage
}

// ID returns the record's id from its manifest.
func (d *Data) ID() ID { return d.Manifest.ID }
