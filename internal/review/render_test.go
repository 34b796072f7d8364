package review

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engramhq/engram/internal/record"
)

type fakeRecordLoader struct {
	records map[string]*record.Data
}

func (f *fakeRecordLoader) Read(idOrPrefix string) (*record.Data, error) {
	if d, ok := f.records[idOrPrefix]; ok {
		return d, nil
	}
	return nil, assert.AnError
}

func commitWithMessage(hash string, message string) *object.Commit {
	return &object.Commit{Hash: plumbing.NewHash(hash), Message: message}
}

func TestGather_ExtractsTrailerAndLoadsEngram(t *testing.T) {
	cost := 0.02
	loader := &fakeRecordLoader{records: map[string]*record.Data{
		"abc123": {
			Manifest: record.Manifest{TokenUsage: record.TokenUsage{Input: 10, Output: 5, Total: 15, CostUSD: &cost}},
			Intent:   record.Intent{OriginalRequest: "fix bug", Summary: "fixed it"},
		},
	}}
	commits := []*object.Commit{
		commitWithMessage("0000000000000000000000000000000000000a", "fix bug\n\nEngram-Id: abc123\n"),
	}

	summaries := Gather(commits, loader)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].HasEngram)
	assert.Equal(t, "abc123", summaries[0].EngramID)
	require.NotNil(t, summaries[0].Data)
	assert.Equal(t, "fix bug", summaries[0].Data.Intent.OriginalRequest)
}

func TestGather_CommitWithoutTrailerHasNoEngram(t *testing.T) {
	loader := &fakeRecordLoader{records: map[string]*record.Data{}}
	commits := []*object.Commit{commitWithMessage("0000000000000000000000000000000000000b", "docs: typo fix")}

	summaries := Gather(commits, loader)
	require.Len(t, summaries, 1)
	assert.False(t, summaries[0].HasEngram)
	assert.Nil(t, summaries[0].Data)
}

func TestGather_TrailerPointingAtMissingEngramLeavesDataNil(t *testing.T) {
	loader := &fakeRecordLoader{records: map[string]*record.Data{}}
	commits := []*object.Commit{commitWithMessage("0000000000000000000000000000000000000c", "fix\n\nEngram-Id: gone\n")}

	summaries := Gather(commits, loader)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].HasEngram)
	assert.Nil(t, summaries[0].Data)
}

func sampleSummaries() []CommitSummary {
	cost1 := 0.01
	cost2 := 0.02
	return []CommitSummary{
		{
			SHA: "aaaaaaaa", Subject: "fix login", HasEngram: true, EngramID: "id1",
			Data: &record.Data{
				Manifest: record.Manifest{TokenUsage: record.TokenUsage{Input: 100, Output: 50, Total: 150, CostUSD: &cost1}},
				Intent: record.Intent{
					OriginalRequest: "fix the login bug",
					DeadEnds:        []record.DeadEnd{{Approach: "regex validation", Reason: "too brittle"}},
				},
				Operations: record.Operations{FileChanges: []record.FileChange{
					{Path: "auth/login.go", Change: record.ChangeType{Kind: record.ChangeModified}},
				}},
			},
		},
		{
			SHA: "bbbbbbbb", Subject: "add tests", HasEngram: true, EngramID: "id2",
			Data: &record.Data{
				Manifest: record.Manifest{TokenUsage: record.TokenUsage{Input: 60, Output: 20, Total: 80, CostUSD: &cost2}},
				Operations: record.Operations{FileChanges: []record.FileChange{
					{Path: "auth/login_test.go", Change: record.ChangeType{Kind: record.ChangeCreated}},
				}},
			},
		},
		{SHA: "cccccccc", Subject: "docs", HasEngram: false},
	}
}

func TestAggregate_SumsTokensAndUnionsFiles(t *testing.T) {
	roll := Aggregate(sampleSummaries())

	assert.Equal(t, 3, roll.CommitCount)
	assert.Equal(t, 2, roll.EngramCount)
	assert.Equal(t, 160, roll.Tokens.Input)
	assert.Equal(t, 70, roll.Tokens.Output)
	require.NotNil(t, roll.Tokens.CostUSD)
	assert.InDelta(t, 0.03, *roll.Tokens.CostUSD, 1e-9)
	assert.Equal(t, []string{"auth/login.go", "auth/login_test.go"}, roll.Files)
	require.Len(t, roll.DeadEnds, 1)
	assert.Equal(t, "regex validation", roll.DeadEnds[0].Approach)
}

func TestRenderMarkdown_IncludesCommitsAndSummary(t *testing.T) {
	summaries := sampleSummaries()
	roll := Aggregate(summaries)
	md := RenderMarkdown(summaries, roll)

	assert.Contains(t, md, "fix login")
	assert.Contains(t, md, "fix the login bug")
	assert.Contains(t, md, "regex validation")
	assert.Contains(t, md, "auth/login.go")
	assert.Contains(t, md, "_No engram recorded for this commit._")
	assert.Contains(t, md, "## Summary")
	assert.Contains(t, md, "Commits: 3")
}

func TestBuildPRSummary_MirrorsMarkdownContent(t *testing.T) {
	summaries := sampleSummaries()
	roll := Aggregate(summaries)
	pr := BuildPRSummary(summaries, roll)

	require.Len(t, pr.Commits, 3)
	assert.Equal(t, "fix the login bug", pr.Commits[0].Request)
	assert.Equal(t, 2, pr.RollUp.EngramCount)
	assert.Equal(t, []string{"auth/login.go", "auth/login_test.go"}, pr.RollUp.Files)
}
