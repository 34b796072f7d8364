package store

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/engramhq/engram/internal/errs"
	"github.com/engramhq/engram/internal/record"
)

// AttachCommit links a newly made Git commit SHA to a record, appending it
// to both manifest.git_commits and lineage.git_commits and repointing the
// record's ref at a new commit over a rewritten tree. This is the one
// sanctioned post-creation mutation (§3 Lifecycle): the record's content is
// otherwise immutable, only its ref target moves.
func (s *Store) AttachCommit(idOrPrefix, sha string) error {
	id, err := s.resolve(idOrPrefix)
	if err != nil {
		return err
	}
	data, err := s.Read(string(id))
	if err != nil {
		return err
	}

	if !containsString(data.Manifest.GitCommits, sha) {
		data.Manifest.GitCommits = append(data.Manifest.GitCommits, sha)
	}
	if !containsString(data.Lineage.GitCommits, sha) {
		data.Lineage.GitCommits = append(data.Lineage.GitCommits, sha)
	}

	manifestBlob, err := record.MarshalManifest(data.Manifest)
	if err != nil {
		return errs.Wrap(errs.KindStorageError, "marshal manifest", err)
	}
	lineageBlob, err := record.MarshalLineage(data.Lineage)
	if err != nil {
		return errs.Wrap(errs.KindStorageError, "marshal lineage", err)
	}
	intentBlob := []byte(data.Intent.ToMarkdown())
	transcriptBlob, err := record.ToJSONL(data.Transcript)
	if err != nil {
		return errs.Wrap(errs.KindStorageError, "marshal transcript", err)
	}
	operationsBlob, err := record.MarshalOperations(data.Operations)
	if err != nil {
		return errs.Wrap(errs.KindStorageError, "marshal operations", err)
	}

	treeHash, err := s.writeRecordTree(recordBlobs{
		intent:     intentBlob,
		lineage:    lineageBlob,
		manifest:   manifestBlob,
		operations: operationsBlob,
		transcript: transcriptBlob,
	})
	if err != nil {
		return errs.Wrap(errs.KindStorageError, "rewrite record tree", err)
	}

	sig := s.signature()
	commit := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   fmt.Sprintf("engram: attach commit %s", sha),
		TreeHash:  treeHash,
	}
	if ref, err := s.repo.Reference(refName(id), true); err == nil {
		commit.ParentHashes = []plumbing.Hash{ref.Hash()}
	}
	commitHash, err := s.writeCommit(commit)
	if err != nil {
		return errs.Wrap(errs.KindStorageError, "write commit", err)
	}

	ref := plumbing.NewHashReference(refName(id), commitHash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return errs.Wrap(errs.KindStorageError, "update ref", err)
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
