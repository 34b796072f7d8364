// Package store maps engram records onto Git's object model: each record
// becomes a commit whose tree holds five blobs, reachable from a ref under
// refs/engrams/<fanout>/<id>. This is the storage engine, C2.
package store

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/engramhq/engram/internal/errs"
	"github.com/engramhq/engram/internal/logging"
	"github.com/engramhq/engram/internal/paths"
	"github.com/engramhq/engram/internal/record"
)

// Store is a handle onto one repository's engram storage.
type Store struct {
	repo   *git.Repository
	gitDir string
}

// Discover walks up from path to find the enclosing Git repository and
// opens it for engram storage. Fails with errs.KindNotRepository otherwise.
func Discover(path string) (*Store, error) {
	gitDir, err := discoverGitDir(path)
	if err != nil {
		return nil, err
	}
	repoRoot := filepath.Dir(gitDir)
	repo, err := git.PlainOpenWithOptions(repoRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errs.Wrap(errs.KindNotRepository, "open repository", err)
	}
	return &Store{repo: repo, gitDir: gitDir}, nil
}

// GitDir returns the repository's common .git directory, where Engram's
// ambient state (HEAD pointer, active-session file, index) lives.
func (s *Store) GitDir() string { return s.gitDir }

// Repository exposes the underlying go-git handle for callers (sync,
// hooks) that need lower-level Git operations.
func (s *Store) Repository() *git.Repository { return s.repo }

func refName(id record.ID) plumbing.ReferenceName {
	return plumbing.ReferenceName(fmt.Sprintf("%s/%s/%s", paths.RefsNamespace, id.FanoutPrefix(), id))
}

// Create writes a record's five blobs, builds its tree and commit, points a
// new ref at it, and updates the HEAD pointer. Partial writes never leave a
// ref behind: the ref is only set after every blob, the tree, and the
// commit have been written successfully.
func (s *Store) Create(ctx context.Context, data *record.Data) (record.ID, error) {
	if data.Manifest.ID == "" {
		data.Manifest.ID = record.NewID()
	}
	if err := data.Validate(); err != nil {
		return "", errs.Wrap(errs.KindStorageError, "validate record before write", err)
	}

	manifestBlob, err := record.MarshalManifest(data.Manifest)
	if err != nil {
		return "", errs.Wrap(errs.KindStorageError, "marshal manifest", err)
	}
	intentBlob := []byte(data.Intent.ToMarkdown())
	transcriptBlob, err := record.ToJSONL(data.Transcript)
	if err != nil {
		return "", errs.Wrap(errs.KindStorageError, "marshal transcript", err)
	}
	operationsBlob, err := record.MarshalOperations(data.Operations)
	if err != nil {
		return "", errs.Wrap(errs.KindStorageError, "marshal operations", err)
	}
	lineageBlob, err := record.MarshalLineage(data.Lineage)
	if err != nil {
		return "", errs.Wrap(errs.KindStorageError, "marshal lineage", err)
	}

	treeHash, err := s.writeRecordTree(recordBlobs{
		intent:     intentBlob,
		lineage:    lineageBlob,
		manifest:   manifestBlob,
		operations: operationsBlob,
		transcript: transcriptBlob,
	})
	if err != nil {
		return "", errs.Wrap(errs.KindStorageError, "write record tree", err)
	}

	sig := s.signature()
	message := data.Manifest.Summary
	if message == "" {
		message = "session"
	}
	commit := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   fmt.Sprintf("engram: %s", message),
		TreeHash:  treeHash,
	}
	commitHash, err := s.writeCommit(commit)
	if err != nil {
		return "", errs.Wrap(errs.KindStorageError, "write commit", err)
	}

	ref := plumbing.NewHashReference(refName(data.Manifest.ID), commitHash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return "", errs.Wrap(errs.KindStorageError, "set ref", err)
	}

	if err := s.writeHead(data.Manifest.ID); err != nil {
		logging.Warn(ctx, "failed to update engram-head pointer", "error", err)
	}

	return data.Manifest.ID, nil
}

type recordBlobs struct {
	intent     []byte
	lineage    []byte
	manifest   []byte
	operations []byte
	transcript []byte
}

// writeRecordTree writes the five blobs and assembles the tree whose
// entries must be emitted in sorted order for reproducible tree OIDs —
// Go's map iteration isn't stable, so this uses an explicit sorted slice.
func (s *Store) writeRecordTree(b recordBlobs) (plumbing.Hash, error) {
	type namedBlob struct {
		name    string
		content []byte
	}
	blobs := []namedBlob{
		{paths.IntentFile, b.intent},
		{paths.LineageFile, b.lineage},
		{paths.ManifestFile, b.manifest},
		{paths.OperationsFile, b.operations},
		{paths.TranscriptFile, b.transcript},
	}
	sort.Slice(blobs, func(i, j int) bool { return blobs[i].name < blobs[j].name })

	entries := make([]object.TreeEntry, 0, len(blobs))
	for _, nb := range blobs {
		hash, err := s.writeBlob(nb.content)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("write blob %s: %w", nb.name, err)
		}
		entries = append(entries, object.TreeEntry{Name: nb.name, Mode: filemode.Regular, Hash: hash})
	}
	return s.writeTree(entries)
}

func (s *Store) writeBlob(content []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, err
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}
	return s.repo.Storer.SetEncodedObject(obj)
}

func (s *Store) writeTree(entries []object.TreeEntry) (plumbing.Hash, error) {
	tree := object.Tree{Entries: entries}
	obj := s.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return s.repo.Storer.SetEncodedObject(obj)
}

func (s *Store) writeCommit(commit *object.Commit) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return s.repo.Storer.SetEncodedObject(obj)
}

func (s *Store) signature() object.Signature {
	name, email := "Engram", "engram@localhost"
	if cfg, err := s.repo.Config(); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return object.Signature{Name: name, Email: email, When: time.Now()}
}

// Read resolves idOrPrefix and returns the fully assembled record.
func (s *Store) Read(idOrPrefix string) (*record.Data, error) {
	id, err := s.resolve(idOrPrefix)
	if err != nil {
		return nil, err
	}
	ref, err := s.repo.Reference(refName(id), true)
	if err != nil {
		return nil, errs.Wrap(errs.KindStorageError, "resolve ref", err)
	}
	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, errs.Wrap(errs.KindStorageError, "load commit", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errs.Wrap(errs.KindStorageError, "load tree", err)
	}

	manifestData, err := s.blobContent(tree, paths.ManifestFile)
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "read manifest blob", err)
	}
	manifest, err := record.ParseManifest(manifestData)
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "parse manifest", err)
	}

	intentData, err := s.blobContent(tree, paths.IntentFile)
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "read intent blob", err)
	}
	intent, err := record.ParseIntentMarkdown(string(intentData))
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "parse intent", err)
	}

	transcriptData, err := s.blobContent(tree, paths.TranscriptFile)
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "read transcript blob", err)
	}
	transcript, err := record.ParseTranscriptJSONL(transcriptData)
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "parse transcript", err)
	}

	operationsData, err := s.blobContent(tree, paths.OperationsFile)
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "read operations blob", err)
	}
	operations, err := record.ParseOperations(operationsData)
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "parse operations", err)
	}

	lineageData, err := s.blobContent(tree, paths.LineageFile)
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "read lineage blob", err)
	}
	lineage, err := record.ParseLineage(lineageData)
	if err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "parse lineage", err)
	}

	return &record.Data{
		Manifest:   manifest,
		Intent:     intent,
		Transcript: transcript,
		Operations: operations,
		Lineage:    lineage,
	}, nil
}

// ReadManifest is the fast path that loads only manifest.json.
func (s *Store) ReadManifest(idOrPrefix string) (record.Manifest, error) {
	id, err := s.resolve(idOrPrefix)
	if err != nil {
		return record.Manifest{}, err
	}
	ref, err := s.repo.Reference(refName(id), true)
	if err != nil {
		return record.Manifest{}, errs.Wrap(errs.KindStorageError, "resolve ref", err)
	}
	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return record.Manifest{}, errs.Wrap(errs.KindStorageError, "load commit", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return record.Manifest{}, errs.Wrap(errs.KindStorageError, "load tree", err)
	}
	data, err := s.blobContent(tree, paths.ManifestFile)
	if err != nil {
		return record.Manifest{}, errs.Wrap(errs.KindParseFailed, "read manifest blob", err)
	}
	return record.ParseManifest(data)
}

func (s *Store) blobContent(tree *object.Tree, name string) ([]byte, error) {
	entry, err := tree.File(name)
	if err != nil {
		return nil, err
	}
	r, err := entry.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// List enumerates all records sorted by created_at descending. Entries
// that fail to parse are skipped and logged, never failing the whole call.
func (s *Store) List(ctx context.Context) ([]record.Manifest, error) {
	var manifests []record.Manifest
	err := s.forEachEngramRef(func(id record.ID, ref *plumbing.Reference) error {
		m, err := s.manifestAt(ref)
		if err != nil {
			logging.Warn(ctx, "skipping unparseable engram", "id", string(id), "error", err)
			return nil
		}
		manifests = append(manifests, m)
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindStorageError, "enumerate engram refs", err)
	}
	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].CreatedAt.After(manifests[j].CreatedAt)
	})
	return manifests, nil
}

func (s *Store) manifestAt(ref *plumbing.Reference) (record.Manifest, error) {
	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return record.Manifest{}, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return record.Manifest{}, err
	}
	data, err := s.blobContent(tree, paths.ManifestFile)
	if err != nil {
		return record.Manifest{}, err
	}
	return record.ParseManifest(data)
}

// Delete removes a record's ref. Other refs are unaffected; the underlying
// objects are reclaimed by ordinary `git gc`.
func (s *Store) Delete(idOrPrefix string) error {
	id, err := s.resolve(idOrPrefix)
	if err != nil {
		return err
	}
	if err := s.repo.Storer.RemoveReference(refName(id)); err != nil {
		return errs.Wrap(errs.KindStorageError, "remove ref", err)
	}
	return nil
}

// FindBySourceHash linearly scans manifests for one whose source_hash
// equals h, used by the import pipeline's dedup check.
func (s *Store) FindBySourceHash(h string) (record.ID, bool, error) {
	var found record.ID
	var ok bool
	err := s.forEachEngramRef(func(id record.ID, ref *plumbing.Reference) error {
		if ok {
			return nil
		}
		m, err := s.manifestAt(ref)
		if err != nil {
			return nil
		}
		if m.SourceHash == h {
			found, ok = id, true
		}
		return nil
	})
	if err != nil {
		return "", false, errs.Wrap(errs.KindStorageError, "scan for source hash", err)
	}
	return found, ok, nil
}

// ResolveHead reads the HEAD pointer file, falling back to the most recent
// entry of List() if the pointer is missing or stale.
func (s *Store) ResolveHead(ctx context.Context) (record.ID, error) {
	if id, err := s.readHead(); err == nil && id != "" {
		if _, refErr := s.repo.Reference(refName(id), true); refErr == nil {
			return id, nil
		}
	}
	manifests, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if len(manifests) == 0 {
		return "", errs.New(errs.KindNotFound, "no engrams recorded")
	}
	return manifests[0].ID, nil
}

func (s *Store) forEachEngramRef(fn func(id record.ID, ref *plumbing.Reference) error) error {
	refs, err := s.repo.Storer.IterReferences()
	if err != nil {
		return err
	}
	defer refs.Close()
	return refs.ForEach(func(ref *plumbing.Reference) error {
		name := string(ref.Name())
		if !strings.HasPrefix(name, paths.RefsNamespace+"/") {
			return nil
		}
		parts := strings.Split(name, "/")
		id := parts[len(parts)-1]
		return fn(record.ID(id), ref)
	})
}

// resolve implements §4.1's prefix resolution: exact match first, then a
// unique-prefix scan; zero matches is NotFound, more than one is Ambiguous.
func (s *Store) resolve(idOrPrefix string) (record.ID, error) {
	if idOrPrefix == "" {
		return "", errs.New(errs.KindNotFound, "empty identifier")
	}
	if len(idOrPrefix) == 32 {
		full := record.ID(idOrPrefix)
		if _, err := s.repo.Reference(refName(full), true); err == nil {
			return full, nil
		}
	}

	var matches []record.ID
	err := s.forEachEngramRef(func(id record.ID, ref *plumbing.Reference) error {
		if strings.HasPrefix(string(id), idOrPrefix) {
			matches = append(matches, id)
		}
		return nil
	})
	if err != nil {
		return "", errs.Wrap(errs.KindStorageError, "scan refs for prefix", err)
	}
	switch len(matches) {
	case 0:
		return "", errs.New(errs.KindNotFound, fmt.Sprintf("no engram matches %q", idOrPrefix))
	case 1:
		return matches[0], nil
	default:
		return "", errs.Wrap(errs.KindAmbiguous, fmt.Sprintf("%d engrams match %q", len(matches), idOrPrefix), nil)
	}
}
