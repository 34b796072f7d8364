package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engramhq/engram/internal/record"
)

func TestRun_WrapperModeAssemblesRecord(t *testing.T) {
	dir := t.TempDir()

	result, err := Run(context.Background(), Options{
		Command: "echo",
		Args:    []string{"hello"},
		Dir:     dir,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, record.CaptureModeWrapper, result.Data.Manifest.CaptureMode)
	assert.Nil(t, result.Data.Transcript)
	assert.Equal(t, "hello", result.Data.Intent.OriginalRequest)
	assert.NotNil(t, result.Data.Manifest.FinishedAt)
}

func TestRun_DetectsFileChangesAcrossSupervisedProcess(t *testing.T) {
	dir := t.TempDir()

	result, err := Run(context.Background(), Options{
		Command: "sh",
		Args:    []string{"-c", "echo hi > new.txt"},
		Dir:     dir,
	})
	require.NoError(t, err)

	var found bool
	for _, c := range result.Data.Operations.FileChanges {
		if c.Path == "new.txt" && c.Change.Kind == record.ChangeCreated {
			found = true
		}
	}
	assert.True(t, found, "expected new.txt to be reported as created")
}
