package hooks

import (
	"fmt"
	"strings"
)

const (
	trailerEngramID    = "Engram-Id"
	trailerEngramAgent = "Engram-Agent"
)

// InjectTrailers appends Engram-Id/Engram-Agent trailer lines to msg,
// unless it already carries an Engram-Id trailer (idempotent, so
// re-running prepare-commit-msg on an amend does not duplicate them).
func InjectTrailers(msg, engramID, agent string) string {
	if strings.Contains(msg, trailerEngramID+":") {
		return msg
	}
	trimmed := strings.TrimRight(msg, "\n")
	var b strings.Builder
	b.WriteString(trimmed)
	if trimmed != "" {
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s: %s\n", trailerEngramID, engramID)
	if agent != "" {
		fmt.Fprintf(&b, "%s: %s\n", trailerEngramAgent, agent)
	}
	return b.String()
}

// ExtractTrailer reads the Engram-Id trailer from a commit message, if
// present.
func ExtractTrailer(msg string) (id string, ok bool) {
	for _, line := range strings.Split(msg, "\n") {
		if rest, found := strings.CutPrefix(line, trailerEngramID+": "); found {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
