package review

import (
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitOn(t *testing.T, repo *gogit.Repository, parents []plumbing.Hash, message string) plumbing.Hash {
	t.Helper()
	blob := repo.Storer.NewEncodedObject()
	blob.SetType(plumbing.BlobObject)
	w, err := blob.Writer()
	require.NoError(t, err)
	_, err = w.Write([]byte(message))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	blobHash, err := repo.Storer.SetEncodedObject(blob)
	require.NoError(t, err)

	tree := object.Tree{Entries: []object.TreeEntry{{Name: "f.txt", Mode: 0o100644, Hash: blobHash}}}
	treeObj := repo.Storer.NewEncodedObject()
	require.NoError(t, tree.Encode(treeObj))
	treeHash, err := repo.Storer.SetEncodedObject(treeObj)
	require.NoError(t, err)

	sig := object.Signature{Name: "Engram", Email: "engram@localhost", When: time.Now()}
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parents,
	}
	obj := repo.Storer.NewEncodedObject()
	require.NoError(t, commit.Encode(obj))
	hash, err := repo.Storer.SetEncodedObject(obj)
	require.NoError(t, err)
	return hash
}

func TestWalkRange_LinearHistoryInTopologicalOrder(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, true)
	require.NoError(t, err)

	c1 := commitOn(t, repo, nil, "first")
	c2 := commitOn(t, repo, []plumbing.Hash{c1}, "second")
	c3 := commitOn(t, repo, []plumbing.Hash{c2}, "third")

	commits, err := WalkRange(repo, c1.String(), c3.String())
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, c2, commits[0].Hash)
	assert.Equal(t, c3, commits[1].Hash)
}

func TestWalkRange_ExcludesAncestorsOfFrom(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, true)
	require.NoError(t, err)

	c1 := commitOn(t, repo, nil, "first")
	c2 := commitOn(t, repo, []plumbing.Hash{c1}, "second")

	commits, err := WalkRange(repo, c1.String(), c2.String())
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, c2, commits[0].Hash)
}

func TestWalkRange_EmptyRangeWhenSameRevision(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, true)
	require.NoError(t, err)

	c1 := commitOn(t, repo, nil, "first")

	commits, err := WalkRange(repo, c1.String(), c1.String())
	require.NoError(t, err)
	assert.Empty(t, commits)
}
