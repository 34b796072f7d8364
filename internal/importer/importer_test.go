package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engramhq/engram/internal/record"
)

func TestImport_StructuredSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	content := []byte(`{"type":"message","role":"user","content":"fix the bug","timestamp":"2026-01-01T00:00:00Z"}
{"type":"tool_call","tool_name":"run_tests","input":{},"timestamp":"2026-01-01T00:00:01Z"}`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	data, err := Import(path, FormatStructuredSession)
	require.NoError(t, err)

	assert.Equal(t, record.CaptureModeImport, data.Manifest.CaptureMode)
	assert.Equal(t, SourceHash(content), data.Manifest.SourceHash)
	assert.Equal(t, "fix the bug", data.Intent.OriginalRequest)
	require.Len(t, data.Operations.ToolCalls, 1)
}

func TestImport_SameBytesProduceSameSourceHash(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jsonl")
	b := filepath.Join(dir, "b.jsonl")
	content := []byte(`{"type":"message","role":"user","content":"hi"}`)
	require.NoError(t, os.WriteFile(a, content, 0o644))
	require.NoError(t, os.WriteFile(b, content, 0o644))

	da, err := Import(a, FormatStructuredSession)
	require.NoError(t, err)
	db, err := Import(b, FormatStructuredSession)
	require.NoError(t, err)

	assert.Equal(t, da.Manifest.SourceHash, db.Manifest.SourceHash)
}

func TestImport_ChatMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.md")
	content := []byte("# user\n\nhello there\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	data, err := Import(path, FormatChatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "hello there", data.Intent.OriginalRequest)
}

func TestGuessFormat(t *testing.T) {
	assert.Equal(t, FormatChatMarkdown, GuessFormat("history.md"))
	assert.Equal(t, FormatStructuredSession, GuessFormat("session.jsonl"))
}
