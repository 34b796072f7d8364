package main

import (
	"errors"
	"testing"

	"github.com/engramhq/engram/internal/errs"
)

func TestExitCodeFor_MapsTaxonomyKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"not_repository", errs.New(errs.KindNotRepository, "x"), 1},
		{"storage_error", errs.New(errs.KindStorageError, "x"), 2},
		{"sync_error", errs.New(errs.KindSyncError, "x"), 3},
		{"ambiguous", errs.New(errs.KindAmbiguous, "x"), 4},
		{"plain_error", errors.New("boom"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCodeFor(tc.err); got != tc.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestSilentError_UnwrapsToCause(t *testing.T) {
	cause := errors.New("underlying")
	se := newSilentError(cause)
	if !errors.Is(se, cause) {
		t.Fatal("silentError should unwrap to its cause")
	}
	if se.Error() != cause.Error() {
		t.Fatalf("got %q, want %q", se.Error(), cause.Error())
	}
}
