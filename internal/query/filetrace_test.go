package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engramhq/engram/internal/record"
)

type fakeLoader struct {
	manifests []record.Manifest
	records   map[string]*record.Data
}

func (f *fakeLoader) List(ctx context.Context) ([]record.Manifest, error) {
	return f.manifests, nil
}

func (f *fakeLoader) Read(idOrPrefix string) (*record.Data, error) {
	return f.records[idOrPrefix], nil
}

func TestFileTrace_OrdersByCreatedAtAscending(t *testing.T) {
	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)

	loader := &fakeLoader{
		manifests: []record.Manifest{
			{ID: "new", CreatedAt: newer, Summary: "second touch"},
			{ID: "old", CreatedAt: older, Summary: "first touch"},
		},
		records: map[string]*record.Data{
			"old": {Operations: record.Operations{FileChanges: []record.FileChange{
				{Path: "a.go", Change: record.ChangeType{Kind: record.ChangeCreated}},
			}}},
			"new": {Operations: record.Operations{FileChanges: []record.FileChange{
				{Path: "a.go", Change: record.ChangeType{Kind: record.ChangeModified}},
			}}},
		},
	}

	entries, err := FileTrace(context.Background(), loader, "a.go")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, record.ID("old"), entries[0].ID)
	assert.Equal(t, record.ID("new"), entries[1].ID)
}

func TestFileTrace_MatchesRenameSource(t *testing.T) {
	loader := &fakeLoader{
		manifests: []record.Manifest{
			{ID: "r1", CreatedAt: time.Now()},
		},
		records: map[string]*record.Data{
			"r1": {Operations: record.Operations{FileChanges: []record.FileChange{
				{Path: "new.go", Change: record.ChangeType{Kind: record.ChangeRenamed, From: "old.go"}},
			}}},
		},
	}

	entries, err := FileTrace(context.Background(), loader, "old.go")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, record.ChangeRenamed, entries[0].Change.Kind)
}

func TestFileTrace_UntouchedFileReturnsEmpty(t *testing.T) {
	loader := &fakeLoader{
		manifests: []record.Manifest{{ID: "r1", CreatedAt: time.Now()}},
		records: map[string]*record.Data{
			"r1": {Operations: record.Operations{FileChanges: []record.FileChange{
				{Path: "a.go", Change: record.ChangeType{Kind: record.ChangeCreated}},
			}}},
		},
	}

	entries, err := FileTrace(context.Background(), loader, "b.go")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
