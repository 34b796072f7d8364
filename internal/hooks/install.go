package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/engramhq/engram/internal/errs"
	"github.com/engramhq/engram/internal/paths"
)

const (
	beginMarker = "# >>> engram hook >>>"
	endMarker   = "# <<< engram hook <<<"
)

// hookBody is the shell body installed between the markers for each
// hook type. It must never fail the user's commit: every internal error
// is swallowed and logged, and the script always exits 0.
var hookBody = map[string]string{
	"prepare-commit-msg": `engram internal-hook prepare-commit-msg "$1" "$2" "$3" >/dev/null 2>>"$(git rev-parse --git-dir)/` + paths.ErrorLogFileName + `" || true
exit 0`,
	"post-commit": `engram internal-hook post-commit "$(git rev-parse HEAD)" >/dev/null 2>>"$(git rev-parse --git-dir)/` + paths.ErrorLogFileName + `" || true
exit 0`,
}

// Install writes or updates the engram section of the named hook under
// hooksDir. A pre-existing hook body (not previously installed by
// engram) is preserved by chaining through a ".pre-engram" backup file
// that the installed script invokes before its own body.
func Install(hooksDir, hookName string) error {
	body, ok := hookBody[hookName]
	if !ok {
		return errs.New(errs.KindStorageError, fmt.Sprintf("hooks: no body defined for %q", hookName))
	}

	hookPath := filepath.Join(hooksDir, hookName)
	existing, err := os.ReadFile(hookPath) //nolint:gosec // path is derived from repo discovery
	if err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.KindStorageError, "reading existing hook", err)
	}

	if len(existing) > 0 && !strings.Contains(string(existing), beginMarker) {
		backupPath := hookPath + paths.PreEngramSuffix
		if _, statErr := os.Stat(backupPath); os.IsNotExist(statErr) {
			if err := os.WriteFile(backupPath, existing, 0o755); err != nil { //nolint:gosec // hook scripts must be executable
				return errs.Wrap(errs.KindStorageError, "backing up original hook", err)
			}
		}
	}

	prefix := "#!/bin/sh\n"
	if _, statErr := os.Stat(hookPath + paths.PreEngramSuffix); statErr == nil {
		prefix += fmt.Sprintf("\"$(dirname \"$0\")/%s%s\" \"$@\" || true\n\n", hookName, paths.PreEngramSuffix)
	}

	content := prefix + beginMarker + "\n" + body + "\n" + endMarker + "\n"
	if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil { //nolint:gosec // hook scripts must be executable
		return errs.Wrap(errs.KindStorageError, "writing hook", err)
	}
	return nil
}

// InstallAll installs every hook engram coordinates.
func InstallAll(hooksDir string) error {
	for name := range hookBody {
		if err := Install(hooksDir, name); err != nil {
			return err
		}
	}
	return nil
}

// Uninstall removes engram's marker-delimited section from the named
// hook, restoring the pre-engram backup verbatim if one exists.
func Uninstall(hooksDir, hookName string) error {
	hookPath := filepath.Join(hooksDir, hookName)
	backupPath := hookPath + paths.PreEngramSuffix

	if data, err := os.ReadFile(backupPath); err == nil { //nolint:gosec // path is derived from repo discovery
		if err := os.WriteFile(hookPath, data, 0o755); err != nil { //nolint:gosec // hook scripts must be executable
			return errs.Wrap(errs.KindStorageError, "restoring original hook", err)
		}
		return os.Remove(backupPath)
	}

	if err := os.Remove(hookPath); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.KindStorageError, "removing installed hook", err)
	}
	return nil
}
