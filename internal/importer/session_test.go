package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engramhq/engram/internal/record"
)

func TestParseSessionJSONL_BuildsTranscriptAndOperations(t *testing.T) {
	data := []byte(`
{"type":"message","role":"user","content":"add a login form","timestamp":"2026-01-01T00:00:00Z"}
{"type":"tool_call","tool_name":"write_file","input":{"path":"login.go"},"output":"wrote 40 lines","timestamp":"2026-01-01T00:00:01Z"}
{"type":"message","role":"assistant","content":"done","timestamp":"2026-01-01T00:00:02Z"}
{"type":"usage","tokens_input":120,"tokens_output":80}
`)

	parsed, err := ParseSessionJSONL(data)
	require.NoError(t, err)

	require.Len(t, parsed.Operations.ToolCalls, 1)
	assert.Equal(t, "write_file", parsed.Operations.ToolCalls[0].ToolName)
	assert.Equal(t, "wrote 40 lines", parsed.Operations.ToolCalls[0].OutputSummary)

	assert.Equal(t, 120, parsed.TokenUsage.Input)
	assert.Equal(t, 80, parsed.TokenUsage.Output)

	var sawUser bool
	for _, e := range parsed.Transcript {
		if e.Role == record.RoleUser && e.Content.Text == "add a login form" {
			sawUser = true
		}
	}
	assert.True(t, sawUser)
}

func TestParseSessionJSONL_SkipsUnknownLineTypes(t *testing.T) {
	data := []byte(`{"type":"heartbeat"}
{"type":"message","role":"user","content":"hi"}`)
	parsed, err := ParseSessionJSONL(data)
	require.NoError(t, err)
	require.Len(t, parsed.Transcript, 1)
}

func TestParseSessionJSONL_RejectsMalformedJSON(t *testing.T) {
	_, err := ParseSessionJSONL([]byte(`not json`))
	assert.Error(t, err)
}
