// Package sync configures and drives Git's ordinary push/fetch/pull against
// the engrams refspec so records travel between clones without any wire
// protocol of Engram's own (C7).
package sync

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/engramhq/engram/internal/errs"
	"github.com/engramhq/engram/internal/logging"
	"github.com/engramhq/engram/internal/paths"
)

// EngramRefSpec is the fetch refspec configured on init: forced, so that a
// remote's newly rewritten engram ref (a commit reattached with a new SHA)
// always overwrites the local copy rather than being rejected as a
// non-fast-forward.
const EngramRefSpec = "+" + paths.RefsNamespace + "/*:" + paths.RefsNamespace + "/*"

// EngramPushRefSpec is the push refspec configured on init. Pushing is not
// forced by default; a genuine divergence (two clones attaching different
// commits to the same engram id) surfaces as a rejected push rather than
// silently clobbering the remote.
const EngramPushRefSpec = paths.RefsNamespace + "/*:" + paths.RefsNamespace + "/*"

// ConfigureRemote adds the engrams fetch/push refspecs to remoteName's
// configuration, alongside whatever refspecs it already has. Safe to call
// repeatedly: it does not duplicate an already-present refspec.
func ConfigureRemote(repo *git.Repository, remoteName string) error {
	remote, err := repo.Remote(remoteName)
	if err != nil {
		return errs.Wrap(errs.KindSyncError, "find remote "+remoteName, err)
	}
	cfg := remote.Config()

	if !containsRefSpec(cfg.Fetch, EngramRefSpec) {
		cfg.Fetch = append(cfg.Fetch, config.RefSpec(EngramRefSpec))
	}
	if !containsRefSpec(cfg.Push, EngramPushRefSpec) {
		cfg.Push = append(cfg.Push, config.RefSpec(EngramPushRefSpec))
	}

	gitCfg, err := repo.Config()
	if err != nil {
		return errs.Wrap(errs.KindSyncError, "read repository config", err)
	}
	gitCfg.Remotes[remoteName] = cfg
	if err := repo.SetConfig(gitCfg); err != nil {
		return errs.Wrap(errs.KindSyncError, "write repository config", err)
	}
	return nil
}

func containsRefSpec(specs []config.RefSpec, want string) bool {
	for _, s := range specs {
		if string(s) == want {
			return true
		}
	}
	return false
}

// Push pushes the engrams refspec to remoteName. A non-fast-forward push is
// only forced when force is true; otherwise it is reported as a SyncError.
func Push(ctx context.Context, repo *git.Repository, remoteName string, force bool) error {
	ctx = logging.WithComponent(ctx, "sync")
	spec := EngramPushRefSpec
	if force {
		spec = "+" + spec
	}
	err := repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(spec)},
	})
	if err != nil {
		if err == git.NoErrAlreadyUpToDate {
			logging.Debug(ctx, "push: already up to date")
			return nil
		}
		return errs.Wrap(errs.KindSyncError, "push engrams", err)
	}
	return nil
}

// Fetch fetches the engrams refspec from remoteName without reindexing.
func Fetch(ctx context.Context, repo *git.Repository, remoteName string) error {
	ctx = logging.WithComponent(ctx, "sync")
	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(EngramRefSpec)},
		Force:      true,
	})
	if err != nil {
		if err == git.NoErrAlreadyUpToDate {
			logging.Debug(ctx, "fetch: already up to date")
			return nil
		}
		return errs.Wrap(errs.KindSyncError, "fetch engrams", err)
	}
	return nil
}

// Reindexer adds newly fetched engram refs to the search index. Defined
// here rather than importing internal/query's concrete Index so this
// package has no hard dependency on the query layer's storage format.
type Reindexer interface {
	ReindexIDs(ctx context.Context, ids []string) error
}

// Pull fetches the engrams refspec, then reindexes only the refs that were
// newly present after the fetch but absent before it.
func Pull(ctx context.Context, repo *git.Repository, remoteName string, reindexer Reindexer) error {
	ctx = logging.WithComponent(ctx, "sync")

	before, err := engramRefNames(repo)
	if err != nil {
		return err
	}

	if err := Fetch(ctx, repo, remoteName); err != nil {
		return err
	}

	after, err := engramRefNames(repo)
	if err != nil {
		return err
	}

	var newIDs []string
	for name := range after {
		if !before[name] {
			newIDs = append(newIDs, refBaseName(name))
		}
	}
	if len(newIDs) == 0 {
		logging.Debug(ctx, "pull: no new engram refs")
		return nil
	}
	logging.Info(ctx, "pull: reindexing new engrams", "count", len(newIDs))
	if reindexer == nil {
		return nil
	}
	return reindexer.ReindexIDs(ctx, newIDs)
}

func engramRefNames(repo *git.Repository) (map[plumbing.ReferenceName]bool, error) {
	refs, err := repo.References()
	if err != nil {
		return nil, errs.Wrap(errs.KindSyncError, "list refs", err)
	}
	names := make(map[plumbing.ReferenceName]bool)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if hasEngramPrefix(ref.Name()) {
			names[ref.Name()] = true
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindSyncError, "walk refs", err)
	}
	return names, nil
}

func hasEngramPrefix(name plumbing.ReferenceName) bool {
	s := name.String()
	return len(s) > len(paths.RefsNamespace) && s[:len(paths.RefsNamespace)] == paths.RefsNamespace
}

func refBaseName(name plumbing.ReferenceName) string {
	s := name.String()
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return s[i+1:]
		}
	}
	return s
}
