package capture

import (
	"regexp"
	"strings"

	"github.com/engramhq/engram/internal/record"
)

// These patterns are deliberately loose: extraction is best-effort and
// every result it produces is flagged Heuristic, never presented as
// something the agent stated in structured form (open question (b)).
var (
	deadEndPattern  = regexp.MustCompile(`(?i)\b(?:tried|rejected|ruled out|considered|decided against)\b\s+(.{3,120}?)(?:[.\n]|$)`)
	decisionPattern = regexp.MustCompile(`(?i)\b(?:decided to|chose to|chose|will use)\b\s+(.{3,120}?)(?:[.\n]|$)`)
)

// ExtractDeadEnds scans raw terminal output for phrases suggesting an
// abandoned approach.
func ExtractDeadEnds(output []byte) []record.DeadEnd {
	text := string(output)
	var out []record.DeadEnd
	for _, m := range deadEndPattern.FindAllStringSubmatch(text, -1) {
		approach := strings.TrimSpace(m[1])
		if approach == "" {
			continue
		}
		out = append(out, record.DeadEnd{
			Approach:  approach,
			Reason:    "",
			Heuristic: true,
		})
	}
	return out
}

// ExtractDecisions scans raw terminal output for phrases suggesting a
// decision was made.
func ExtractDecisions(output []byte) []record.Decision {
	text := string(output)
	var out []record.Decision
	for _, m := range decisionPattern.FindAllStringSubmatch(text, -1) {
		desc := strings.TrimSpace(m[1])
		if desc == "" {
			continue
		}
		out = append(out, record.Decision{
			Description: desc,
			Rationale:   "",
			Heuristic:   true,
		})
	}
	return out
}
