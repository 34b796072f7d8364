package query

import (
	"sort"

	"github.com/engramhq/engram/internal/record"
)

// FileSetDiff partitions the file paths touched by two records.
type FileSetDiff struct {
	LeftOnly  []string
	RightOnly []string
	Both      []string
}

// TokenDelta is the left-to-right change in token/cost accounting.
type TokenDelta struct {
	InputDelta  int
	OutputDelta int
	TotalDelta  int
	CostDelta   *float64
}

// AgentIdentityDiff reports whether the two records were produced by the
// same agent and/or model.
type AgentIdentityDiff struct {
	LeftAgent  record.Agent
	RightAgent record.Agent
	SameAgent  bool
	SameModel  bool
}

// RecordDiff is the full comparison between two records.
type RecordDiff struct {
	Files  FileSetDiff
	Tokens TokenDelta
	Agent  AgentIdentityDiff
}

// Diff compares two records: the files each touched, the change in token
// and cost usage from left to right, and whether they share an agent/model.
func Diff(left, right *record.Data) RecordDiff {
	return RecordDiff{
		Files:  diffFiles(left, right),
		Tokens: diffTokens(left.Manifest.TokenUsage, right.Manifest.TokenUsage),
		Agent:  diffAgent(left.Manifest.Agent, right.Manifest.Agent),
	}
}

func diffFiles(left, right *record.Data) FileSetDiff {
	leftPaths := filePathSet(left)
	rightPaths := filePathSet(right)

	var diff FileSetDiff
	for path := range leftPaths {
		if rightPaths[path] {
			diff.Both = append(diff.Both, path)
		} else {
			diff.LeftOnly = append(diff.LeftOnly, path)
		}
	}
	for path := range rightPaths {
		if !leftPaths[path] {
			diff.RightOnly = append(diff.RightOnly, path)
		}
	}
	sort.Strings(diff.LeftOnly)
	sort.Strings(diff.RightOnly)
	sort.Strings(diff.Both)
	return diff
}

func filePathSet(data *record.Data) map[string]bool {
	set := make(map[string]bool, len(data.Operations.FileChanges))
	for _, fc := range data.Operations.FileChanges {
		set[fc.Path] = true
	}
	return set
}

func diffTokens(left, right record.TokenUsage) TokenDelta {
	delta := TokenDelta{
		InputDelta:  right.Input - left.Input,
		OutputDelta: right.Output - left.Output,
		TotalDelta:  right.Total - left.Total,
	}
	if left.CostUSD != nil || right.CostUSD != nil {
		var l, r float64
		if left.CostUSD != nil {
			l = *left.CostUSD
		}
		if right.CostUSD != nil {
			r = *right.CostUSD
		}
		d := r - l
		delta.CostDelta = &d
	}
	return delta
}

func diffAgent(left, right record.Agent) AgentIdentityDiff {
	return AgentIdentityDiff{
		LeftAgent:  left,
		RightAgent: right,
		SameAgent:  left.Name == right.Name,
		SameModel:  left.Model == right.Model,
	}
}
