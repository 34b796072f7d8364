// Package paths centralizes the on-disk layout Engram keeps inside a Git
// repository's metadata directory.
package paths

// RefsNamespace is the root under which every engram ref lives.
const RefsNamespace = "refs/engrams"

// HeadFileName is the file under the Git common dir that tracks the id of
// the most recently created engram.
const HeadFileName = "engram-head"

// SessionFileName is the file under the Git common dir that tracks the
// currently active capture session.
const SessionFileName = "engram-session"

// SessionLockFileName guards read-modify-write access to SessionFileName.
const SessionLockFileName = "engram-session.lock"

// IndexDirName is the directory under the Git common dir holding the
// full-text search index.
const IndexDirName = "engram-index"

// ErrorLogFileName is where hook failures are appended, never surfaced to
// the user's commit.
const ErrorLogFileName = "engram-errors.log"

// HooksDirName is the standard Git hooks directory, relative to the common dir.
const HooksDirName = "hooks"

// PreEngramSuffix is appended to a hook's original body when Engram installs
// its own marker-delimited section, so the original can be chained and restored.
const PreEngramSuffix = ".pre-engram"

// Manifest entry names within a record's tree, in the canonical sort order
// Git requires for reproducible tree OIDs.
const (
	IntentFile      = "intent.md"
	LineageFile     = "lineage.json"
	ManifestFile    = "manifest.json"
	OperationsFile  = "operations.json"
	TranscriptFile  = "transcript.jsonl"
)
