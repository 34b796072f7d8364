package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engramhq/engram/internal/session"
)

func TestCoordinator_StartThenReadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c := NewCoordinator(dir)

	require.NoError(t, c.Start("abc123", "claude-code"))

	sess, err := c.Read()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "abc123", string(sess.EngramID))
	assert.Equal(t, "claude-code", sess.Agent)
	assert.Equal(t, session.PhaseActive, sess.Phase)
}

func TestCoordinator_ReadWithNoActiveSessionReturnsNil(t *testing.T) {
	dir := t.TempDir()
	c := NewCoordinator(dir)

	sess, err := c.Read()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestCoordinator_MarkGitCommitAttachesAndAdvancesPhase(t *testing.T) {
	dir := t.TempDir()
	c := NewCoordinator(dir)
	require.NoError(t, c.Start("abc123", "claude-code"))

	result, err := c.Mark(session.EventGitCommit, session.TransitionContext{})
	require.NoError(t, err)
	assert.Equal(t, session.PhaseActiveCommitted, result.NewPhase)
	assert.Contains(t, result.Actions, session.ActionAttachCommit)

	sess, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, session.PhaseActiveCommitted, sess.Phase)
}

func TestCoordinator_FinishRemovesFile(t *testing.T) {
	dir := t.TempDir()
	c := NewCoordinator(dir)
	require.NoError(t, c.Start("abc123", "claude-code"))
	require.NoError(t, c.Finish())

	sess, err := c.Read()
	require.NoError(t, err)
	assert.Nil(t, sess)
}
