// Package session models the lifecycle of a capture session as it
// interacts with the user's own Git commits: a small finite-state
// machine the hook coordinator (internal/hooks) drives on every
// prepare-commit-msg and post-commit invocation.
package session

// Phase is one state in the capture session lifecycle.
type Phase string

const (
	// PhaseIdle means no capture is in progress.
	PhaseIdle Phase = "idle"
	// PhaseActive means a capture pipeline is currently running and no
	// commit has been attached to it yet.
	PhaseActive Phase = "active"
	// PhaseActiveCommitted means a capture is running and at least one
	// commit has already been attached to its record.
	PhaseActiveCommitted Phase = "active_committed"
	// PhaseEnded means the capture pipeline just finished; a brief grace
	// window remains in which a trailing commit (e.g. an agent's own
	// auto-commit issued right before it exits) can still be attached.
	PhaseEnded Phase = "ended"
)

var allPhases = []Phase{PhaseIdle, PhaseActive, PhaseActiveCommitted, PhaseEnded}

// PhaseFromString normalizes an arbitrary stored string into a known
// Phase, defaulting to PhaseIdle for empty or unrecognized values so an
// active-session file from a future or corrupted version degrades
// safely rather than panicking.
func PhaseFromString(s string) Phase {
	switch Phase(s) {
	case PhaseActive, PhaseActiveCommitted, PhaseEnded:
		return Phase(s)
	default:
		return PhaseIdle
	}
}

// IsActive reports whether a capture session is currently running in
// this phase (as opposed to idle or in its post-exit grace window).
func (p Phase) IsActive() bool {
	return p == PhaseActive || p == PhaseActiveCommitted
}

// Event is one input to the state machine, corresponding to a hook
// invocation or a capture pipeline lifecycle boundary.
type Event int

const (
	EventCaptureStart Event = iota
	EventCaptureEnd
	EventGitCommit
)

var allEvents = []Event{EventCaptureStart, EventCaptureEnd, EventGitCommit}

func (e Event) String() string {
	switch e {
	case EventCaptureStart:
		return "CaptureStart"
	case EventCaptureEnd:
		return "CaptureEnd"
	case EventGitCommit:
		return "GitCommit"
	default:
		return "Unknown"
	}
}

// Action is a side effect the hook coordinator must perform in response
// to a transition. Multiple actions may fire for one event.
type Action int

const (
	// ActionAttachCommit links the new commit sha to the active record.
	ActionAttachCommit Action = iota
	// ActionAttachCommitIfPending attaches the commit only if a record
	// from the just-ended capture is still unattached to any commit.
	ActionAttachCommitIfPending
	// ActionWarnConcurrentCapture logs that a capture started while
	// another was already active; nested wrapper invocations are
	// unsupported and the newer one wins.
	ActionWarnConcurrentCapture
	// ActionClearEndedAt resets the grace-window timestamp when a new
	// capture starts before it elapses.
	ActionClearEndedAt
	// ActionFinalizeSession marks the active-session file for removal.
	ActionFinalizeSession
)

func (a Action) String() string {
	switch a {
	case ActionAttachCommit:
		return "AttachCommit"
	case ActionAttachCommitIfPending:
		return "AttachCommitIfPending"
	case ActionWarnConcurrentCapture:
		return "WarnConcurrentCapture"
	case ActionClearEndedAt:
		return "ClearEndedAt"
	case ActionFinalizeSession:
		return "FinalizeSession"
	default:
		return "Unknown"
	}
}
