package query

import (
	"context"
	"sort"
	"time"

	"github.com/engramhq/engram/internal/record"
)

// Loader is the subset of store.Store's read surface query needs. Defined
// here rather than imported so this package has no hard dependency on the
// storage layer's concrete type.
type Loader interface {
	List(ctx context.Context) ([]record.Manifest, error)
	Read(idOrPrefix string) (*record.Data, error)
}

// TraceEntry is one record that touched a traced file.
type TraceEntry struct {
	ID        record.ID
	CreatedAt time.Time
	Change    record.ChangeType
	Summary   string
}

// FileTrace returns every record whose operations.file_changes touched
// path, ordered by created_at ascending (oldest first), so a reader sees
// the file's history in the order it happened.
func FileTrace(ctx context.Context, loader Loader, path string) ([]TraceEntry, error) {
	manifests, err := loader.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].CreatedAt.Before(manifests[j].CreatedAt)
	})

	var entries []TraceEntry
	for _, m := range manifests {
		data, err := loader.Read(string(m.ID))
		if err != nil {
			return nil, err
		}
		for _, fc := range data.Operations.FileChanges {
			if fc.Path == path || fc.Change.From == path {
				entries = append(entries, TraceEntry{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					Change:    fc.Change,
					Summary:   m.Summary,
				})
				break
			}
		}
	}
	return entries, nil
}
