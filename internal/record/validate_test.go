package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRecord() *Data {
	return &Data{
		Manifest: Manifest{
			ID:          NewID(),
			Version:     CurrentSchemaVersion,
			CreatedAt:   time.Now(),
			Agent:       Agent{Name: "claude-code"},
			CaptureMode: CaptureModeWrapper,
			GitCommits:  []string{},
			TokenUsage:  TokenUsage{Input: 10, Output: 5, Total: 15},
			Tags:        []string{},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	d := validRecord()
	assert.NoError(t, d.Validate())
}

func TestValidate_RejectsBadTotal(t *testing.T) {
	d := validRecord()
	d.Manifest.TokenUsage.Total = 999
	assert.Error(t, d.Validate())
}

func TestValidate_RejectsShortID(t *testing.T) {
	d := validRecord()
	d.Manifest.ID = "short"
	assert.Error(t, d.Validate())
}

func TestValidate_SourceHashMustMatchImportMode(t *testing.T) {
	d := validRecord()
	d.Manifest.SourceHash = "deadbeef"
	assert.Error(t, d.Validate(), "source_hash without capture_mode=import should fail")

	d.Manifest.CaptureMode = CaptureModeImport
	assert.NoError(t, d.Validate())
}
