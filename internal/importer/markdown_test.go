package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engramhq/engram/internal/record"
)

func TestParseChatMarkdown_SplitsSectionsByRole(t *testing.T) {
	md := []byte(`# user

add a login form

# assistant

Sure, here's the plan.

` + "```" + `
func Login() {}
` + "```" + `
`)
	entries, err := ParseChatMarkdown(md)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, record.RoleUser, entries[0].Role)
	assert.Equal(t, "add a login form", entries[0].Content.Text)
	assert.Equal(t, record.RoleAssistant, entries[1].Role)
	assert.Contains(t, entries[1].Content.Text, "func Login")
}

func TestParseChatMarkdown_IgnoresFencedHeadingLookalikes(t *testing.T) {
	md := []byte("# user\n\nexplain this:\n\n```\n# assistant inside a fence\n```\n")
	entries, err := ParseChatMarkdown(md)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Content.Text, "# assistant inside a fence")
}
