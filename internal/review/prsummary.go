package review

import "github.com/engramhq/engram/internal/record"

// PRSummary is the JSON-structured form of a review render, for
// `pr-summary --format json`. The markdown form (RenderMarkdown) carries
// identical content in prose; this is its structured twin.
type PRSummary struct {
	Commits []PRCommit `json:"commits"`
	RollUp  PRRollUp   `json:"roll_up"`
}

// PRCommit is one commit's entry in the structured PR summary.
type PRCommit struct {
	SHA      string             `json:"sha"`
	Subject  string             `json:"subject"`
	EngramID string             `json:"engram_id,omitempty"`
	Request  string             `json:"request,omitempty"`
	Summary  string             `json:"summary,omitempty"`
	DeadEnds []record.DeadEnd   `json:"dead_ends,omitempty"`
	Files    []string           `json:"files,omitempty"`
	Tokens   *record.TokenUsage `json:"tokens,omitempty"`
}

// PRRollUp is the structured form of a RollUp.
type PRRollUp struct {
	CommitCount int               `json:"commit_count"`
	EngramCount int               `json:"engram_count"`
	Tokens      record.TokenUsage `json:"tokens"`
	Files       []string          `json:"files"`
	DeadEnds    []record.DeadEnd  `json:"dead_ends"`
}

// BuildPRSummary converts summaries and their roll-up into the JSON shape.
func BuildPRSummary(summaries []CommitSummary, roll RollUp) PRSummary {
	out := PRSummary{
		RollUp: PRRollUp{
			CommitCount: roll.CommitCount,
			EngramCount: roll.EngramCount,
			Tokens:      roll.Tokens,
			Files:       roll.Files,
			DeadEnds:    roll.DeadEnds,
		},
	}
	for _, s := range summaries {
		c := PRCommit{SHA: s.SHA, Subject: s.Subject, EngramID: s.EngramID}
		if s.Data != nil {
			c.Request = s.Data.Intent.OriginalRequest
			c.Summary = s.Data.Intent.Summary
			c.DeadEnds = s.Data.Intent.DeadEnds
			for _, fc := range s.Data.Operations.FileChanges {
				c.Files = append(c.Files, fc.Path)
			}
			tokens := s.Data.Manifest.TokenUsage
			c.Tokens = &tokens
		}
		out.Commits = append(out.Commits, c)
	}
	return out
}
