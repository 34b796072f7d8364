package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptJSONLRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	tokens := 42
	entries := []TranscriptEntry{
		{Timestamp: now, Role: RoleUser, Content: Content{Kind: ContentKindText, Text: "hello"}},
		{
			Timestamp: now, Role: RoleAssistant,
			Content:    Content{Kind: ContentKindToolUse, ToolUseID: "t1", ToolName: "Bash", Input: json.RawMessage(`{"command":"ls"}`)},
			TokenCount: &tokens,
		},
		{
			Timestamp: now, Role: RoleTool,
			Content: Content{Kind: ContentKindToolResult, ToolResultID: "t1", Output: json.RawMessage(`"file1\nfile2"`)},
		},
	}

	data, err := ToJSONL(entries)
	require.NoError(t, err)

	parsed, err := ParseTranscriptJSONL(data)
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	assert.Equal(t, entries[0].Content.Text, parsed[0].Content.Text)
	assert.Equal(t, entries[1].Content.ToolName, parsed[1].Content.ToolName)
	require.NotNil(t, parsed[1].TokenCount)
	assert.Equal(t, 42, *parsed[1].TokenCount)
	assert.Equal(t, entries[2].Content.ToolResultID, parsed[2].Content.ToolResultID)
}

func TestContentUnknown_RoundTripsLosslessly(t *testing.T) {
	raw := []byte(`{"type":"thinking","signature":"abc","thinking":"pondering"}`)
	var c Content
	require.NoError(t, json.Unmarshal(raw, &c))
	assert.Equal(t, ContentKindUnknown, c.Kind)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(out))
}

func TestParseTranscriptJSONL_SkipsBlankLines(t *testing.T) {
	data := []byte("\n{\"timestamp\":\"2024-01-01T00:00:00Z\",\"role\":\"user\",\"content\":{\"type\":\"text\",\"text\":\"hi\"}}\n\n")
	entries, err := ParseTranscriptJSONL(data)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hi", entries[0].Content.Text)
}
