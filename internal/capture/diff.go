// Package capture drives a supervised agent child process to completion
// and builds a wrapper-mode engram from what it observed: the terminal
// transcript and the filesystem delta. This is the capture pipeline, C3.
package capture

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/engramhq/engram/internal/record"
)

// alwaysExcluded are directories never walked regardless of .gitignore
// contents, matching §4.2's explicit examples.
var alwaysExcluded = map[string]bool{
	"node_modules": true,
	"target":       true,
	".git":         true,
}

// fileState is what Snapshot tracks per included path.
type fileState struct {
	modTime time.Time
	sha256  string
}

// Snapshot maps every gitignore-included file under a root to its mtime and
// content hash, taken once before spawn and once after exit.
type Snapshot map[string]fileState

// TakeSnapshot walks root honoring .gitignore, .git/info/exclude, and the
// global gitignore, hashing every included file.
func TakeSnapshot(root string) (Snapshot, error) {
	fs := osfs.New(root)
	matcher, err := buildMatcher(fs)
	if err != nil {
		return nil, err
	}

	snap := make(Snapshot)
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // best-effort walk; unreadable entries are skipped, not fatal
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		segments := splitPath(rel)
		if d.IsDir() {
			if alwaysExcluded[d.Name()] || matcher.Match(segments, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if isLockfile(d.Name()) {
			return nil
		}
		for _, seg := range segments[:len(segments)-1] {
			if alwaysExcluded[seg] {
				return nil
			}
		}
		if matcher.Match(segments, false) {
			return nil
		}
		info, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		hash, hashErr := hashFile(path)
		if hashErr != nil {
			return nil
		}
		snap[rel] = fileState{modTime: info.ModTime(), sha256: hash}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func splitPath(rel string) []string {
	rel = filepath.ToSlash(rel)
	var parts []string
	for _, p := range splitNonEmpty(rel, '/') {
		parts = append(parts, p)
	}
	return parts
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isLockfile(name string) bool {
	switch name {
	case "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "Cargo.lock", "go.sum":
		return true
	default:
		return false
	}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from a directory walk rooted at the capture target, not untrusted input
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func buildMatcher(fs billy.Filesystem) (gitignore.Matcher, error) {
	var patterns []gitignore.Pattern

	if ps, err := gitignore.ReadPatterns(fs, nil); err == nil {
		patterns = append(patterns, ps...)
	}
	if excludePatterns, err := readExcludeFile(fs); err == nil {
		patterns = append(patterns, excludePatterns...)
	}
	if global, err := gitignore.LoadGlobalPatterns(fs); err == nil {
		patterns = append(patterns, global...)
	}
	return gitignore.NewMatcher(patterns), nil
}

func readExcludeFile(fs billy.Filesystem) ([]gitignore.Pattern, error) {
	f, err := fs.Open(".git/info/exclude")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var patterns []gitignore.Pattern
	for _, line := range splitNonEmpty(string(data), '\n') {
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns, nil
}

// DiffSnapshots classifies every path that differs between before and
// after into a FileChange. A deleted path and a created path sharing the
// same content hash are reported as a single renamed change rather than
// a delete/create pair.
func DiffSnapshots(before, after Snapshot) []record.FileChange {
	var created, deleted []string
	var changes []record.FileChange

	for path, afterState := range after {
		beforeState, existed := before[path]
		switch {
		case !existed:
			created = append(created, path)
		case beforeState.sha256 != afterState.sha256:
			changes = append(changes, record.FileChange{Path: path, Change: record.ChangeType{Kind: record.ChangeModified}})
		}
	}
	for path := range before {
		if _, stillExists := after[path]; !stillExists {
			deleted = append(deleted, path)
		}
	}

	renamedFrom := make(map[string]bool)
	for _, newPath := range created {
		matched := ""
		for _, oldPath := range deleted {
			if renamedFrom[oldPath] {
				continue
			}
			if before[oldPath].sha256 == after[newPath].sha256 {
				matched = oldPath
				break
			}
		}
		if matched != "" {
			renamedFrom[matched] = true
			changes = append(changes, record.FileChange{Path: newPath, Change: record.ChangeType{Kind: record.ChangeRenamed, From: matched}})
		} else {
			changes = append(changes, record.FileChange{Path: newPath, Change: record.ChangeType{Kind: record.ChangeCreated}})
		}
	}
	for _, oldPath := range deleted {
		if !renamedFrom[oldPath] {
			changes = append(changes, record.FileChange{Path: oldPath, Change: record.ChangeType{Kind: record.ChangeDeleted}})
		}
	}
	return changes
}
