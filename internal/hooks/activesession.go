// Package hooks links the user's own Git commits to the capture session
// that is currently producing an engram: the active-session file, the
// installed prepare-commit-msg/post-commit scripts, and the state
// machine in internal/session that governs what each hook invocation
// does.
package hooks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/engramhq/engram/internal/errs"
	"github.com/engramhq/engram/internal/paths"
	"github.com/engramhq/engram/internal/record"
	"github.com/engramhq/engram/internal/session"
)

// lockWait bounds how long a reader or writer waits to acquire the
// active-session lock before failing with SessionBusy.
const lockWait = 2 * time.Second

// ActiveSession is the contents of .git/engram-session: which record the
// currently running capture is building, and its lifecycle phase.
type ActiveSession struct {
	EngramID  record.ID     `json:"engram_id"`
	Agent     string        `json:"agent"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	Phase     session.Phase `json:"phase"`
}

// Coordinator reads and writes the active-session file under a shared
// advisory lock so concurrent hook invocations serialize cleanly.
type Coordinator struct {
	gitDir string
}

// NewCoordinator returns a Coordinator rooted at the Git common
// directory gitDir (as returned by internal/store's repo discovery).
func NewCoordinator(gitDir string) *Coordinator {
	return &Coordinator{gitDir: gitDir}
}

func (c *Coordinator) sessionPath() string {
	return filepath.Join(c.gitDir, paths.SessionFileName)
}

func (c *Coordinator) lockPath() string {
	return filepath.Join(c.gitDir, paths.SessionLockFileName)
}

func (c *Coordinator) lock() (*flock.Flock, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lockWait)
	defer cancel()

	fl := flock.New(c.lockPath())
	locked, err := fl.TryLockContext(ctx, 25*time.Millisecond)
	if err != nil || !locked {
		return nil, errs.Wrap(errs.KindSessionBusy, "acquiring active-session lock", err)
	}
	return fl, nil
}

// Start writes a new active-session file for engramID/agent, in
// PhaseActive. An existing active session is overwritten; the caller is
// expected to have already logged ActionWarnConcurrentCapture if one was
// found by Read.
func (c *Coordinator) Start(engramID record.ID, agent string) error {
	fl, err := c.lock()
	if err != nil {
		return err
	}
	defer fl.Unlock() //nolint:errcheck

	sess := ActiveSession{
		EngramID:  engramID,
		Agent:     agent,
		StartedAt: time.Now(),
		Phase:     session.PhaseActive,
	}
	return c.write(sess)
}

// Read loads the current active-session file. A missing file is not an
// error: it returns (nil, nil), meaning no capture is in progress.
func (c *Coordinator) Read() (*ActiveSession, error) {
	fl, err := c.lock()
	if err != nil {
		return nil, err
	}
	defer fl.Unlock() //nolint:errcheck

	return c.readLocked()
}

func (c *Coordinator) readLocked() (*ActiveSession, error) {
	data, err := os.ReadFile(c.sessionPath()) //nolint:gosec // path is derived from repo discovery
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindStorageError, "reading active-session file", err)
	}
	var sess ActiveSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errs.Wrap(errs.KindParseFailed, "parsing active-session file", err)
	}
	return &sess, nil
}

func (c *Coordinator) write(sess ActiveSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errs.Wrap(errs.KindStorageError, "marshaling active-session file", err)
	}
	return os.WriteFile(c.sessionPath(), data, 0o600)
}

// Mark transitions the active session through event, persisting the new
// phase and returning the actions the caller must perform.
func (c *Coordinator) Mark(event session.Event, ctx session.TransitionContext) (session.TransitionResult, error) {
	fl, err := c.lock()
	if err != nil {
		return session.TransitionResult{}, err
	}
	defer fl.Unlock() //nolint:errcheck

	sess, err := c.readLocked()
	if err != nil {
		return session.TransitionResult{}, err
	}
	current := session.PhaseIdle
	if sess != nil {
		current = sess.Phase
	}

	result := session.Transition(current, event, ctx)
	if sess != nil {
		sess.Phase = result.NewPhase
		if result.NewPhase == session.PhaseEnded && sess.EndedAt == nil {
			now := time.Now()
			sess.EndedAt = &now
		}
		if err := c.write(*sess); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Finish removes the active-session file. It is called on capture
// pipeline cleanup; nothing removes the file on a timer.
func (c *Coordinator) Finish() error {
	fl, err := c.lock()
	if err != nil {
		return err
	}
	defer fl.Unlock() //nolint:errcheck

	err = os.Remove(c.sessionPath())
	if err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.KindStorageError, "removing active-session file", err)
	}
	return nil
}
