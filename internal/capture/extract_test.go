package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDeadEnds_MatchesKnownPhrases(t *testing.T) {
	output := []byte("I tried using a regex parser but it choked on nested braces.\nConsidered a hand-rolled tokenizer.")
	deadEnds := ExtractDeadEnds(output)
	require.NotEmpty(t, deadEnds)
	for _, d := range deadEnds {
		assert.True(t, d.Heuristic)
		assert.NotEmpty(t, d.Approach)
	}
}

func TestExtractDecisions_MatchesKnownPhrases(t *testing.T) {
	output := []byte("decided to use a trie for prefix lookups instead.")
	decisions := ExtractDecisions(output)
	require.Len(t, decisions, 1)
	assert.True(t, decisions[0].Heuristic)
	assert.Contains(t, decisions[0].Description, "trie")
}

func TestExtractDeadEnds_NoMatchesReturnsEmpty(t *testing.T) {
	assert.Empty(t, ExtractDeadEnds([]byte("all quiet on the western front")))
	assert.Empty(t, ExtractDecisions([]byte("all quiet on the western front")))
}
