package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeType_BareTagRoundTrip(t *testing.T) {
	c := ChangeType{Kind: ChangeModified}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"modified"`, string(data))

	var parsed ChangeType
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, c, parsed)
}

func TestChangeType_RenamedRoundTrip(t *testing.T) {
	c := ChangeType{Kind: ChangeRenamed, From: "old.go"}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"renamed":{"from":"old.go"}}`, string(data))

	var parsed ChangeType
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, c, parsed)
}

func TestFileChange_MarshalsWithinStruct(t *testing.T) {
	fc := FileChange{Path: "src/x.go", Change: ChangeType{Kind: ChangeCreated}}
	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"change_type":"created"`)
}
