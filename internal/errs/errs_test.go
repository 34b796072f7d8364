package errs

import (
	"errors"
	"testing"
)

func TestExitCode_CoversAllKinds(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotRepository, 1},
		{KindNotFound, 1},
		{KindAlreadyImported, 1},
		{KindSessionBusy, 1},
		{KindInvalidID, 2},
		{KindParseFailed, 2},
		{KindSchemaMismatch, 2},
		{KindStorageError, 2},
		{KindSyncError, 3},
		{KindAmbiguous, 4},
		{KindHookFailure, 0},
	}
	for _, tc := range cases {
		if got := tc.kind.ExitCode(); got != tc.want {
			t.Errorf("Kind(%d).ExitCode() = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestIs_MatchesByKindRegardlessOfMessage(t *testing.T) {
	err := Wrap(KindNotFound, "engram abc123 not found", errors.New("no such ref"))
	if !errors.Is(err, NotFound) {
		t.Fatal("expected errors.Is to match NotFound sentinel by kind")
	}
	if errors.Is(err, Ambiguous) {
		t.Fatal("did not expect errors.Is to match a different kind")
	}
}

func TestKindOf_ExtractsKindFromWrappedError(t *testing.T) {
	base := New(KindSyncError, "push failed")
	wrapped := fmtErrorf(base)

	kind, ok := KindOf(wrapped)
	if !ok {
		t.Fatal("expected KindOf to find the wrapped *Error")
	}
	if kind != KindSyncError {
		t.Fatalf("got kind %d, want %d", kind, KindSyncError)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatal("did not expect KindOf to match a plain error")
	}
}

func fmtErrorf(e *Error) error {
	return errors.Join(errors.New("context"), e)
}

func TestUnwrap_ReturnsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindStorageError, "write blob", cause)
	if errors.Unwrap(err) != cause {
		t.Fatal("expected Unwrap to return the wrapped cause")
	}
}
