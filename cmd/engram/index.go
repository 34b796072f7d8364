package main

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/engramhq/engram/internal/paths"
	"github.com/engramhq/engram/internal/query"
	"github.com/engramhq/engram/internal/store"
)

// indexPath returns the full-text index's on-disk location for s, honoring
// cfg.IndexDir when set.
func indexPath(s *store.Store, indexDir string) string {
	dir := indexDir
	if dir == "" {
		dir = filepath.Join(s.GitDir(), paths.IndexDirName)
	}
	return filepath.Join(dir, "index.jsonl")
}

// loadIndex reads the persisted index, returning a fresh empty one if none
// exists yet (e.g. before the first `engram reindex`).
func loadIndex(path string) (*query.Index, error) {
	idx, err := query.LoadIndex(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return query.NewIndex(), nil
		}
		return nil, err
	}
	return idx, nil
}

// rebuildIndex walks every record in s and writes a fresh index to path.
func rebuildIndex(ctx context.Context, s *store.Store, path string) (*query.Index, error) {
	manifests, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := query.NewIndex()
	for _, m := range manifests {
		data, readErr := s.Read(string(m.ID))
		if readErr != nil {
			continue
		}
		idx.Add(query.DocumentFor(data))
	}
	if err := idx.Save(path); err != nil {
		return nil, err
	}
	return idx, nil
}

// reindexer implements sync.Reindexer: its ReindexIDs loads the persisted
// index, adds each newly-arrived id's document, and saves it back.
type reindexer struct {
	store *store.Store
	path  string
}

func (r *reindexer) ReindexIDs(_ context.Context, ids []string) error {
	idx, err := loadIndex(r.path)
	if err != nil {
		return err
	}
	for _, id := range ids {
		data, readErr := r.store.Read(id)
		if readErr != nil {
			continue
		}
		idx.Add(query.DocumentFor(data))
	}
	return idx.Save(r.path)
}
