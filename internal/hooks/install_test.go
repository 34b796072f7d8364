package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstall_WritesMarkerDelimitedBody(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Install(dir, "post-commit"))

	data, err := os.ReadFile(filepath.Join(dir, "post-commit"))
	require.NoError(t, err)
	assert.Contains(t, string(data), beginMarker)
	assert.Contains(t, string(data), endMarker)
	assert.Contains(t, string(data), "engram internal-hook post-commit")
}

func TestInstall_PreservesExistingHookAsBackup(t *testing.T) {
	dir := t.TempDir()
	hookPath := filepath.Join(dir, "post-commit")
	original := "#!/bin/sh\necho custom hook\n"
	require.NoError(t, os.WriteFile(hookPath, []byte(original), 0o755))

	require.NoError(t, Install(dir, "post-commit"))

	backup, err := os.ReadFile(hookPath + ".pre-engram")
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))

	installed, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.Contains(t, string(installed), "post-commit.pre-engram")
}

func TestInstall_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Install(dir, "post-commit"))
	require.NoError(t, Install(dir, "post-commit"))

	backup := filepath.Join(dir, "post-commit.pre-engram")
	_, err := os.Stat(backup)
	assert.True(t, os.IsNotExist(err), "re-installing over engram's own hook should not create a backup")
}

func TestUninstall_RestoresBackup(t *testing.T) {
	dir := t.TempDir()
	hookPath := filepath.Join(dir, "post-commit")
	original := "#!/bin/sh\necho custom hook\n"
	require.NoError(t, os.WriteFile(hookPath, []byte(original), 0o755))
	require.NoError(t, Install(dir, "post-commit"))

	require.NoError(t, Uninstall(dir, "post-commit"))

	data, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))

	_, err = os.Stat(hookPath + ".pre-engram")
	assert.True(t, os.IsNotExist(err))
}
