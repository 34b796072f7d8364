package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/engramhq/engram/internal/hooks"
	"github.com/engramhq/engram/internal/record"
)

// RecordLoader is the read surface review needs from the storage engine.
type RecordLoader interface {
	Read(idOrPrefix string) (*record.Data, error)
}

// CommitSummary is one commit's review entry: its trailer-linked engram,
// if any, and the fields a reviewer cares about.
type CommitSummary struct {
	SHA       string
	Subject   string
	EngramID  string
	HasEngram bool
	Data      *record.Data // nil when HasEngram is false or the referenced engram no longer exists
}

// Gather walks commits and loads the engram referenced by each one's
// Engram-Id trailer, skipping commits that don't carry a trailer and
// tolerating a trailer that points at a deleted or unknown id.
func Gather(commits []*object.Commit, loader RecordLoader) []CommitSummary {
	summaries := make([]CommitSummary, 0, len(commits))
	for _, c := range commits {
		s := CommitSummary{SHA: c.Hash.String(), Subject: subjectLine(c.Message)}
		if id, ok := hooks.ExtractTrailer(c.Message); ok {
			s.EngramID = id
			s.HasEngram = true
			if data, err := loader.Read(id); err == nil {
				s.Data = data
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func subjectLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}
	return message
}

// RollUp aggregates every summary that carries a loaded engram: total
// token/cost usage, the union of files touched, and the union of dead ends.
type RollUp struct {
	CommitCount int
	EngramCount int
	Tokens      record.TokenUsage
	Files       []string
	DeadEnds    []record.DeadEnd
}

// Aggregate computes a RollUp over summaries.
func Aggregate(summaries []CommitSummary) RollUp {
	roll := RollUp{CommitCount: len(summaries)}
	files := make(map[string]bool)
	deadEnds := make(map[string]record.DeadEnd)

	for _, s := range summaries {
		if s.Data == nil {
			continue
		}
		roll.EngramCount++
		roll.Tokens = roll.Tokens.Add(s.Data.Manifest.TokenUsage)
		for _, fc := range s.Data.Operations.FileChanges {
			files[fc.Path] = true
		}
		for _, de := range s.Data.Intent.DeadEnds {
			deadEnds[de.Approach] = de
		}
	}

	for path := range files {
		roll.Files = append(roll.Files, path)
	}
	sort.Strings(roll.Files)

	for _, de := range deadEnds {
		roll.DeadEnds = append(roll.DeadEnds, de)
	}
	sort.Slice(roll.DeadEnds, func(i, j int) bool { return roll.DeadEnds[i].Approach < roll.DeadEnds[j].Approach })

	return roll
}

// RenderMarkdown renders a per-commit review plus a roll-up as markdown,
// suitable both for terminal display and for pasting into a PR description.
func RenderMarkdown(summaries []CommitSummary, roll RollUp) string {
	var b strings.Builder

	for _, s := range summaries {
		b.WriteString(renderCommitSection(s))
		b.WriteString("\n")
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Commits: %d (%d with an attached engram)\n", roll.CommitCount, roll.EngramCount)
	fmt.Fprintf(&b, "- Tokens: %d input / %d output (total %d)\n", roll.Tokens.Input, roll.Tokens.Output, roll.Tokens.Total)
	if roll.Tokens.CostUSD != nil {
		fmt.Fprintf(&b, "- Cost: $%.4f\n", *roll.Tokens.CostUSD)
	}
	if len(roll.Files) > 0 {
		b.WriteString("- Files touched:\n")
		for _, f := range roll.Files {
			fmt.Fprintf(&b, "  - `%s`\n", f)
		}
	}
	if len(roll.DeadEnds) > 0 {
		b.WriteString("- Dead ends considered:\n")
		for _, de := range roll.DeadEnds {
			fmt.Fprintf(&b, "  - **%s**: %s\n", de.Approach, de.Reason)
		}
	}
	return b.String()
}

func renderCommitSection(s CommitSummary) string {
	var b strings.Builder
	shortSHA := s.SHA
	if len(shortSHA) > 8 {
		shortSHA = shortSHA[:8]
	}
	fmt.Fprintf(&b, "## %s %s\n\n", shortSHA, s.Subject)

	if !s.HasEngram {
		b.WriteString("_No engram recorded for this commit._\n")
		return b.String()
	}
	if s.Data == nil {
		fmt.Fprintf(&b, "_Engram `%s` referenced but could not be loaded._\n", s.EngramID)
		return b.String()
	}

	intent := s.Data.Intent
	if intent.OriginalRequest != "" {
		fmt.Fprintf(&b, "**Request:** %s\n\n", intent.OriginalRequest)
	}
	if intent.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", intent.Summary)
	}
	if len(intent.DeadEnds) > 0 {
		b.WriteString("**Dead ends:**\n")
		for _, de := range intent.DeadEnds {
			fmt.Fprintf(&b, "- %s: %s\n", de.Approach, de.Reason)
		}
		b.WriteString("\n")
	}
	if len(s.Data.Operations.FileChanges) > 0 {
		b.WriteString("**Files changed:**\n")
		for _, fc := range s.Data.Operations.FileChanges {
			fmt.Fprintf(&b, "- `%s` (%s)\n", fc.Path, fc.Change.Kind)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "_Tokens: %d, Cost: %s_\n", s.Data.Manifest.TokenUsage.Total, formatCost(s.Data.Manifest.TokenUsage.CostUSD))
	return b.String()
}

func formatCost(cost *float64) string {
	if cost == nil {
		return "n/a"
	}
	return fmt.Sprintf("$%.4f", *cost)
}
