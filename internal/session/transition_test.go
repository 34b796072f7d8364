package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type transitionCase struct {
	name        string
	current     Phase
	event       Event
	ctx         TransitionContext
	wantPhase   Phase
	wantActions []Action
}

func runTransitionTests(t *testing.T, tests []transitionCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := Transition(tt.current, tt.event, tt.ctx)
			assert.Equal(t, tt.wantPhase, result.NewPhase, "unexpected NewPhase")
			assert.Equal(t, tt.wantActions, result.Actions, "unexpected Actions")
		})
	}
}

func TestTransitionFromIdle(t *testing.T) {
	t.Parallel()
	runTransitionTests(t, []transitionCase{
		{
			name:      "CaptureStart_transitions_to_ACTIVE",
			current:   PhaseIdle,
			event:     EventCaptureStart,
			wantPhase: PhaseActive,
		},
		{
			name:      "GitCommit_with_no_active_session_is_noop",
			current:   PhaseIdle,
			event:     EventGitCommit,
			wantPhase: PhaseIdle,
		},
		{
			name:      "CaptureEnd_with_nothing_active_is_noop",
			current:   PhaseIdle,
			event:     EventCaptureEnd,
			wantPhase: PhaseIdle,
		},
	})
}

func TestTransitionFromActive(t *testing.T) {
	t.Parallel()
	runTransitionTests(t, []transitionCase{
		{
			name:        "GitCommit_attaches_and_moves_to_ACTIVE_COMMITTED",
			current:     PhaseActive,
			event:       EventGitCommit,
			wantPhase:   PhaseActiveCommitted,
			wantActions: []Action{ActionAttachCommit},
		},
		{
			name:        "CaptureEnd_finalizes_and_moves_to_ENDED",
			current:     PhaseActive,
			event:       EventCaptureEnd,
			wantPhase:   PhaseEnded,
			wantActions: []Action{ActionFinalizeSession},
		},
		{
			name:        "CaptureStart_while_active_warns",
			current:     PhaseActive,
			event:       EventCaptureStart,
			wantPhase:   PhaseActive,
			wantActions: []Action{ActionWarnConcurrentCapture},
		},
	})
}

func TestTransitionFromActiveCommitted(t *testing.T) {
	t.Parallel()
	runTransitionTests(t, []transitionCase{
		{
			name:        "GitCommit_attaches_again_stays_ACTIVE_COMMITTED",
			current:     PhaseActiveCommitted,
			event:       EventGitCommit,
			wantPhase:   PhaseActiveCommitted,
			wantActions: []Action{ActionAttachCommit},
		},
		{
			name:        "CaptureEnd_finalizes_and_moves_to_ENDED",
			current:     PhaseActiveCommitted,
			event:       EventCaptureEnd,
			wantPhase:   PhaseEnded,
			wantActions: []Action{ActionFinalizeSession},
		},
	})
}

func TestTransitionFromEnded(t *testing.T) {
	t.Parallel()
	runTransitionTests(t, []transitionCase{
		{
			name:        "CaptureStart_clears_ended_and_resumes_ACTIVE",
			current:     PhaseEnded,
			event:       EventCaptureStart,
			wantPhase:   PhaseActive,
			wantActions: []Action{ActionClearEndedAt},
		},
		{
			name:        "GitCommit_with_pending_record_attaches",
			current:     PhaseEnded,
			event:       EventGitCommit,
			ctx:         TransitionContext{HasPendingRecord: true},
			wantPhase:   PhaseEnded,
			wantActions: []Action{ActionAttachCommitIfPending},
		},
		{
			name:      "GitCommit_with_no_pending_record_is_noop",
			current:   PhaseEnded,
			event:     EventGitCommit,
			wantPhase: PhaseEnded,
		},
	})
}

func TestTransition_corruptSessionFile_alwaysProducesEmptyActions(t *testing.T) {
	t.Parallel()
	ctx := TransitionContext{SessionFileCorrupt: true}

	for _, phase := range allPhases {
		result := Transition(phase, EventGitCommit, ctx)
		assert.Empty(t, result.Actions, "corrupt session file should produce empty actions for phase %s", phase)
		assert.Equal(t, phase, result.NewPhase, "corrupt session file should not change phase for %s", phase)
	}
}

func TestTransition_allPhaseEventCombinationsAreDefined(t *testing.T) {
	t.Parallel()
	for _, phase := range allPhases {
		for _, event := range allEvents {
			result := Transition(phase, event, TransitionContext{})
			assert.NotEmpty(t, string(result.NewPhase))
			normalized := PhaseFromString(string(result.NewPhase))
			assert.Equal(t, result.NewPhase, normalized)
		}
	}
}
