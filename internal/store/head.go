package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/engramhq/engram/internal/paths"
	"github.com/engramhq/engram/internal/record"
)

func (s *Store) headPath() string {
	return filepath.Join(s.gitDir, paths.HeadFileName)
}

func (s *Store) writeHead(id record.ID) error {
	return os.WriteFile(s.headPath(), []byte(string(id)+"\n"), 0o600)
}

// readHead reads the HEAD pointer file. A missing file is tolerated,
// returning ("", nil): readers never depend on it for correctness.
func (s *Store) readHead() (record.ID, error) {
	data, err := os.ReadFile(s.headPath()) //nolint:gosec // path is derived from repo discovery, not user input
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return record.ID(strings.TrimSpace(string(data))), nil
}
