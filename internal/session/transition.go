package session

// TransitionContext carries the extra facts a transition needs beyond
// the bare (phase, event) pair.
type TransitionContext struct {
	// SessionFileCorrupt means the active-session file could not be read
	// or locked cleanly; GitCommit is treated as a no-op rather than
	// risking a write against inconsistent state, mirroring how the
	// coordinator must never block the user's commit.
	SessionFileCorrupt bool
	// HasPendingRecord means, during PhaseEnded, the just-finished
	// capture produced a record that has not yet had any commit attached.
	HasPendingRecord bool
}

// TransitionResult is the outcome of a transition: the new phase and the
// side effects the caller must perform in order.
type TransitionResult struct {
	NewPhase Phase
	Actions  []Action
}

// Transition computes the next phase and required actions for (current,
// event, ctx). Unknown phases are normalized to PhaseIdle first, so
// callers never need to validate stored state before calling this.
func Transition(current Phase, event Event, ctx TransitionContext) TransitionResult {
	current = PhaseFromString(string(current))

	if event == EventGitCommit && ctx.SessionFileCorrupt {
		return TransitionResult{NewPhase: current, Actions: nil}
	}

	switch current {
	case PhaseIdle:
		return transitionFromIdle(event)
	case PhaseActive:
		return transitionFromActive(event)
	case PhaseActiveCommitted:
		return transitionFromActiveCommitted(event)
	case PhaseEnded:
		return transitionFromEnded(event, ctx)
	default:
		return TransitionResult{NewPhase: PhaseIdle, Actions: nil}
	}
}

func transitionFromIdle(event Event) TransitionResult {
	switch event {
	case EventCaptureStart:
		return TransitionResult{NewPhase: PhaseActive, Actions: nil}
	case EventGitCommit:
		return TransitionResult{NewPhase: PhaseIdle, Actions: nil}
	case EventCaptureEnd:
		return TransitionResult{NewPhase: PhaseIdle, Actions: nil}
	default:
		return TransitionResult{NewPhase: PhaseIdle, Actions: nil}
	}
}

func transitionFromActive(event Event) TransitionResult {
	switch event {
	case EventCaptureStart:
		return TransitionResult{NewPhase: PhaseActive, Actions: []Action{ActionWarnConcurrentCapture}}
	case EventGitCommit:
		return TransitionResult{NewPhase: PhaseActiveCommitted, Actions: []Action{ActionAttachCommit}}
	case EventCaptureEnd:
		return TransitionResult{NewPhase: PhaseEnded, Actions: []Action{ActionFinalizeSession}}
	default:
		return TransitionResult{NewPhase: PhaseActive, Actions: nil}
	}
}

func transitionFromActiveCommitted(event Event) TransitionResult {
	switch event {
	case EventCaptureStart:
		return TransitionResult{NewPhase: PhaseActiveCommitted, Actions: []Action{ActionWarnConcurrentCapture}}
	case EventGitCommit:
		return TransitionResult{NewPhase: PhaseActiveCommitted, Actions: []Action{ActionAttachCommit}}
	case EventCaptureEnd:
		return TransitionResult{NewPhase: PhaseEnded, Actions: []Action{ActionFinalizeSession}}
	default:
		return TransitionResult{NewPhase: PhaseActiveCommitted, Actions: nil}
	}
}

func transitionFromEnded(event Event, ctx TransitionContext) TransitionResult {
	switch event {
	case EventCaptureStart:
		return TransitionResult{NewPhase: PhaseActive, Actions: []Action{ActionClearEndedAt}}
	case EventGitCommit:
		if ctx.HasPendingRecord {
			return TransitionResult{NewPhase: PhaseEnded, Actions: []Action{ActionAttachCommitIfPending}}
		}
		return TransitionResult{NewPhase: PhaseEnded, Actions: nil}
	case EventCaptureEnd:
		return TransitionResult{NewPhase: PhaseEnded, Actions: nil}
	default:
		return TransitionResult{NewPhase: PhaseEnded, Actions: nil}
	}
}
