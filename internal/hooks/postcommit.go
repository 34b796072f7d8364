package hooks

import (
	"context"

	"github.com/engramhq/engram/internal/logging"
	"github.com/engramhq/engram/internal/session"
)

// AttachCommitter is the narrow slice of the storage engine the hook
// coordinator needs: attaching a freshly made commit SHA to a record.
type AttachCommitter interface {
	AttachCommit(idOrPrefix, sha string) error
}

// HandlePostCommit runs the post-commit side of hook coordination: if an
// active capture session exists, it attaches sha to the session's
// record by driving the phase machine and, per its actions, calling
// store.AttachCommit. It never returns an error that should fail the
// user's commit — callers at the process boundary must still swallow
// whatever it returns (per the hook contract in internal/hooks/install.go).
func HandlePostCommit(coord *Coordinator, store AttachCommitter, sha string) error {
	ctx := logging.WithComponent(context.Background(), "hooks")
	tctx := contextFromSession(coord)

	result, err := coord.Mark(session.EventGitCommit, tctx)
	if err != nil {
		return err
	}

	for _, action := range result.Actions {
		switch action {
		case session.ActionAttachCommit, session.ActionAttachCommitIfPending:
			sess, readErr := coord.Read()
			if readErr != nil || sess == nil {
				continue
			}
			if attachErr := store.AttachCommit(string(sess.EngramID), sha); attachErr != nil {
				logging.Warn(ctx, "attaching commit to engram", "error", attachErr, "engram_id", sess.EngramID)
			}
		case session.ActionWarnConcurrentCapture:
			logging.Warn(ctx, "git commit observed during active capture session with no pending attach")
		}
	}
	return nil
}

// contextFromSession sets HasPendingRecord whenever the session file names
// an engram; whether a commit is already attached to it is not checked.
func contextFromSession(coord *Coordinator) session.TransitionContext {
	sess, err := coord.Read()
	if err != nil || sess == nil {
		return session.TransitionContext{SessionFileCorrupt: err != nil}
	}
	return session.TransitionContext{HasPendingRecord: len(sess.EngramID) > 0}
}

// HandlePrepareCommitMsg runs the prepare-commit-msg side: if an active
// capture session exists, it injects Engram-Id/Engram-Agent trailers
// into msg.
func HandlePrepareCommitMsg(coord *Coordinator, msg string) (string, error) {
	sess, err := coord.Read()
	if err != nil {
		return msg, err
	}
	if sess == nil {
		return msg, nil
	}
	return InjectTrailers(msg, string(sess.EngramID), sess.Agent), nil
}
