package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/engramhq/engram/internal/errs"
)

// discoverGitDir walks up from start looking for a ".git" entry, resolving
// worktree redirection files (a ".git" file containing "gitdir: ...") back
// to the repository's common directory, the way engram-head and
// engram-session are meant to be shared across worktrees.
func discoverGitDir(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errs.Wrap(errs.KindNotRepository, "resolve start directory", err)
	}

	for {
		candidate := filepath.Join(dir, ".git")
		info, statErr := os.Stat(candidate)
		if statErr == nil {
			if info.IsDir() {
				return candidate, nil
			}
			if gitDir, ok := resolveGitLink(dir, candidate); ok {
				return gitDir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errs.New(errs.KindNotRepository, "not a git repository (or any parent up to /)")
}

// resolveGitLink reads a ".git" file (used by worktrees and submodules) and
// follows it to the real git directory, then further resolves a "commondir"
// file if present so callers always land on the repository's shared common
// directory rather than a per-worktree one.
func resolveGitLink(base, linkFile string) (string, bool) {
	data, err := os.ReadFile(linkFile) //nolint:gosec // path is derived from directory walk, not user input
	if err != nil {
		return "", false
	}
	line := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	gitDir := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(base, gitDir)
	}
	gitDir = filepath.Clean(gitDir)

	commonFile := filepath.Join(gitDir, "commondir")
	if data, err := os.ReadFile(commonFile); err == nil { //nolint:gosec // same as above
		common := strings.TrimSpace(string(data))
		if !filepath.IsAbs(common) {
			common = filepath.Join(gitDir, common)
		}
		return filepath.Clean(common), true
	}
	return gitDir, true
}
