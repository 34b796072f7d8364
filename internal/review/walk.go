// Package review walks a commit range, gathers the engrams referenced by
// each commit's trailer, and renders per-commit and roll-up summaries
// suitable for code review or a pull-request description (C8).
package review

import (
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/engramhq/engram/internal/errs"
)

// WalkRange returns every commit reachable from toRev but not from
// fromRev (the ordinary A..B meaning), in topological order: a commit
// always appears after all of its parents.
func WalkRange(repo *git.Repository, fromRev, toRev string) ([]*object.Commit, error) {
	fromHash, err := repo.ResolveRevision(plumbing.Revision(fromRev))
	if err != nil {
		return nil, errs.Wrap(errs.KindStorageError, "resolve "+fromRev, err)
	}
	toHash, err := repo.ResolveRevision(plumbing.Revision(toRev))
	if err != nil {
		return nil, errs.Wrap(errs.KindStorageError, "resolve "+toRev, err)
	}

	excluded := make(map[plumbing.Hash]bool)
	if err := markAncestors(repo, *fromHash, excluded); err != nil {
		return nil, err
	}

	included := make(map[plumbing.Hash]*object.Commit)
	if err := collectAncestors(repo, *toHash, excluded, included); err != nil {
		return nil, err
	}

	return topoSort(*toHash, included), nil
}

func markAncestors(repo *git.Repository, start plumbing.Hash, excluded map[plumbing.Hash]bool) error {
	if excluded[start] {
		return nil
	}
	excluded[start] = true
	commit, err := repo.CommitObject(start)
	if err != nil {
		return errs.Wrap(errs.KindStorageError, "load commit "+start.String(), err)
	}
	for _, p := range commit.ParentHashes {
		if err := markAncestors(repo, p, excluded); err != nil {
			return err
		}
	}
	return nil
}

func collectAncestors(repo *git.Repository, start plumbing.Hash, excluded map[plumbing.Hash]bool, included map[plumbing.Hash]*object.Commit) error {
	if excluded[start] {
		return nil
	}
	if _, ok := included[start]; ok {
		return nil
	}
	commit, err := repo.CommitObject(start)
	if err != nil {
		return errs.Wrap(errs.KindStorageError, "load commit "+start.String(), err)
	}
	included[start] = commit
	for _, p := range commit.ParentHashes {
		if err := collectAncestors(repo, p, excluded, included); err != nil {
			return err
		}
	}
	return nil
}

// topoSort returns included in ancestor-before-descendant order via a
// post-order DFS rooted at start, breaking ties among any remaining
// disconnected commits by hash for determinism.
func topoSort(start plumbing.Hash, included map[plumbing.Hash]*object.Commit) []*object.Commit {
	visited := make(map[plumbing.Hash]bool)
	var order []*object.Commit

	var visit func(h plumbing.Hash)
	visit = func(h plumbing.Hash) {
		if visited[h] {
			return
		}
		visited[h] = true
		c, ok := included[h]
		if !ok {
			return
		}
		for _, p := range c.ParentHashes {
			visit(p)
		}
		order = append(order, c)
	}
	visit(start)

	var remaining []plumbing.Hash
	for h := range included {
		if !visited[h] {
			remaining = append(remaining, h)
		}
	}
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].String() < remaining[j].String() })
	for _, h := range remaining {
		visit(h)
	}
	return order
}
