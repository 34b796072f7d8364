package stringutil

import "testing"

func TestCollapseWhitespace_FoldsMultilineToOneLine(t *testing.T) {
	in := "fix the bug\n\n  in the   parser\t\tplease"
	want := "fix the bug in the parser please"
	if got := CollapseWhitespace(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTruncateRunes_LeavesShortStringUntouched(t *testing.T) {
	in := "short"
	if got := TruncateRunes(in, 10, "..."); got != in {
		t.Fatalf("got %q, want %q", got, in)
	}
}

func TestTruncateRunes_AppendsSuffixOnMultiByteText(t *testing.T) {
	in := "café résumé naïve"
	got := TruncateRunes(in, 6, "...")
	want := "caf..."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
