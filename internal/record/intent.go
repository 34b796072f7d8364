package record

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

const (
	headingOriginalRequest = "# Original Request"
	headingInterpretedGoal = "## Interpreted Goal"
	headingSummary         = "## Summary"
	headingDeadEnds        = "## Dead Ends"
	headingDecisions       = "## Decisions"
)

// bulletPattern matches "- **X**: Y" with X and Y captured. Callers strip
// a trailing heuristicSuffix, which flags best-effort extraction (§9 open
// question (b)), before matching.
var bulletPattern = regexp.MustCompile(`^-\s+\*\*(.+?)\*\*:\s*(.*)$`)

const heuristicSuffix = " _(heuristic)_"

// ToMarkdown renders Intent in its canonical on-disk markdown shape.
func (in Intent) ToMarkdown() string {
	var b strings.Builder
	b.WriteString(headingOriginalRequest)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(in.OriginalRequest))
	b.WriteString("\n")

	if in.InterpretedGoal != "" {
		b.WriteString("\n" + headingInterpretedGoal + "\n\n")
		b.WriteString(strings.TrimSpace(in.InterpretedGoal))
		b.WriteString("\n")
	}
	if in.Summary != "" {
		b.WriteString("\n" + headingSummary + "\n\n")
		b.WriteString(strings.TrimSpace(in.Summary))
		b.WriteString("\n")
	}
	if len(in.DeadEnds) > 0 {
		b.WriteString("\n" + headingDeadEnds + "\n\n")
		for _, d := range in.DeadEnds {
			b.WriteString(fmt.Sprintf("- **%s**: %s", d.Approach, d.Reason))
			if d.Heuristic {
				b.WriteString(heuristicSuffix)
			}
			b.WriteString("\n")
		}
	}
	if len(in.Decisions) > 0 {
		b.WriteString("\n" + headingDecisions + "\n\n")
		for _, d := range in.Decisions {
			b.WriteString(fmt.Sprintf("- **%s**: %s", d.Description, d.Rationale))
			if d.Heuristic {
				b.WriteString(heuristicSuffix)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ParseIntentMarkdown parses the canonical markdown shape back into an
// Intent. It round-trips ToMarkdown's output modulo whitespace
// normalization of section bodies (surrounding whitespace trimmed).
func ParseIntentMarkdown(md string) (Intent, error) {
	var in Intent
	scanner := bufio.NewScanner(strings.NewReader(md))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var section string
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		switch section {
		case headingOriginalRequest:
			in.OriginalRequest = text
		case headingInterpretedGoal:
			in.InterpretedGoal = text
		case headingSummary:
			in.Summary = text
		case headingDeadEnds:
			in.DeadEnds = parseDeadEnds(body)
		case headingDecisions:
			in.Decisions = parseDecisions(body)
		}
		body = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimRight(line, " ") {
		case headingOriginalRequest, headingInterpretedGoal, headingSummary, headingDeadEnds, headingDecisions:
			if section != "" {
				flush()
			}
			section = strings.TrimRight(line, " ")
			continue
		}
		body = append(body, line)
	}
	if err := scanner.Err(); err != nil {
		return in, fmt.Errorf("record: parse intent markdown: %w", err)
	}
	if section != "" {
		flush()
	}
	return in, nil
}

func parseDeadEnds(lines []string) []DeadEnd {
	var out []DeadEnd
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		heuristic := strings.HasSuffix(l, heuristicSuffix)
		l = strings.TrimSuffix(l, heuristicSuffix)
		if m := bulletPattern.FindStringSubmatch(l); m != nil {
			out = append(out, DeadEnd{Approach: m[1], Reason: m[2], Heuristic: heuristic})
		}
	}
	return out
}

func parseDecisions(lines []string) []Decision {
	var out []Decision
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		heuristic := strings.HasSuffix(l, heuristicSuffix)
		l = strings.TrimSuffix(l, heuristicSuffix)
		if m := bulletPattern.FindStringSubmatch(l); m != nil {
			out = append(out, Decision{Description: m[1], Rationale: m[2], Heuristic: heuristic})
		}
	}
	return out
}
