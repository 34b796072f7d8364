package sync

import (
	"context"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engramhq/engram/internal/errs"
)

func initRepo(t *testing.T, bare bool) *gogit.Repository {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, bare)
	require.NoError(t, err)
	return repo
}

// commitEngramRef writes a trivial blob/tree/commit and points refName at
// it, mirroring the write sequence the storage engine uses.
func commitEngramRef(t *testing.T, repo *gogit.Repository, refName plumbing.ReferenceName, content string) plumbing.Hash {
	t.Helper()

	blob := repo.Storer.NewEncodedObject()
	blob.SetType(plumbing.BlobObject)
	w, err := blob.Writer()
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	blobHash, err := repo.Storer.SetEncodedObject(blob)
	require.NoError(t, err)

	tree := object.Tree{Entries: []object.TreeEntry{{Name: "manifest.json", Mode: 0o100644, Hash: blobHash}}}
	treeObj := repo.Storer.NewEncodedObject()
	require.NoError(t, tree.Encode(treeObj))
	treeHash, err := repo.Storer.SetEncodedObject(treeObj)
	require.NoError(t, err)

	sig := object.Signature{Name: "Engram", Email: "engram@localhost", When: time.Now()}
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      "engram: test",
		TreeHash:     treeHash,
		ParentHashes: nil,
	}
	commitObj := repo.Storer.NewEncodedObject()
	require.NoError(t, commit.Encode(commitObj))
	commitHash, err := repo.Storer.SetEncodedObject(commitObj)
	require.NoError(t, err)

	ref := plumbing.NewHashReference(refName, commitHash)
	require.NoError(t, repo.Storer.SetReference(ref))
	return commitHash
}

func TestConfigureRemote_AddsEngramRefSpecs(t *testing.T) {
	repo := initRepo(t, false)
	_, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"/tmp/does-not-need-to-exist"}})
	require.NoError(t, err)

	require.NoError(t, ConfigureRemote(repo, "origin"))

	remote, err := repo.Remote("origin")
	require.NoError(t, err)
	cfg := remote.Config()
	assert.Contains(t, cfg.Fetch, config.RefSpec(EngramRefSpec))
	assert.Contains(t, cfg.Push, config.RefSpec(EngramPushRefSpec))
}

func TestConfigureRemote_IdempotentNoDuplicates(t *testing.T) {
	repo := initRepo(t, false)
	_, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"/tmp/does-not-need-to-exist"}})
	require.NoError(t, err)

	require.NoError(t, ConfigureRemote(repo, "origin"))
	require.NoError(t, ConfigureRemote(repo, "origin"))

	remote, err := repo.Remote("origin")
	require.NoError(t, err)
	cfg := remote.Config()

	count := 0
	for _, s := range cfg.Fetch {
		if s == config.RefSpec(EngramRefSpec) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestConfigureRemote_UnknownRemoteIsSyncError(t *testing.T) {
	repo := initRepo(t, false)
	err := ConfigureRemote(repo, "origin")
	assert.ErrorIs(t, err, errs.SyncErr)
}

func TestPushThenFetch_TransfersEngramRef(t *testing.T) {
	originDir := t.TempDir()
	originRepo, err := gogit.PlainInit(originDir, true)
	require.NoError(t, err)

	localRepo := initRepo(t, false)
	refName := plumbing.ReferenceName("refs/engrams/ab/abcdef0123456789abcdef0123456789")
	commitEngramRef(t, localRepo, refName, `{"id":"abcdef0123456789abcdef0123456789"}`)

	_, err = localRepo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{originDir}})
	require.NoError(t, err)
	require.NoError(t, ConfigureRemote(localRepo, "origin"))

	ctx := context.Background()
	require.NoError(t, Push(ctx, localRepo, "origin", false))

	_, err = originRepo.Reference(refName, true)
	assert.NoError(t, err, "pushed ref should exist on the origin")

	// A second clone fetching from origin should pick up the ref.
	clone := initRepo(t, false)
	_, err = clone.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{originDir}})
	require.NoError(t, err)
	require.NoError(t, ConfigureRemote(clone, "origin"))
	require.NoError(t, Fetch(ctx, clone, "origin"))

	_, err = clone.Reference(refName, true)
	assert.NoError(t, err, "fetched ref should exist locally")
}

type fakeReindexer struct {
	ids []string
}

func (f *fakeReindexer) ReindexIDs(ctx context.Context, ids []string) error {
	f.ids = append(f.ids, ids...)
	return nil
}

func TestPull_ReindexesOnlyNewlyArrivedRefs(t *testing.T) {
	originDir := t.TempDir()
	originRepo, err := gogit.PlainInit(originDir, true)
	require.NoError(t, err)

	seed := initRepo(t, false)
	existingRef := plumbing.ReferenceName("refs/engrams/aa/aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	commitEngramRef(t, seed, existingRef, `{"id":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}`)
	_, err = seed.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{originDir}})
	require.NoError(t, err)
	require.NoError(t, ConfigureRemote(seed, "origin"))
	require.NoError(t, Push(context.Background(), seed, "origin", false))

	clone := initRepo(t, false)
	_, err = clone.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{originDir}})
	require.NoError(t, err)
	require.NoError(t, ConfigureRemote(clone, "origin"))

	ctx := context.Background()
	reindexer := &fakeReindexer{}
	require.NoError(t, Pull(ctx, clone, "origin", reindexer))
	assert.Contains(t, reindexer.ids, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	// A second pull with nothing new should not reindex again.
	reindexer2 := &fakeReindexer{}
	require.NoError(t, Pull(ctx, clone, "origin", reindexer2))
	assert.Empty(t, reindexer2.ids)

	_ = originRepo
}
