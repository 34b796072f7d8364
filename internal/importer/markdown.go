package importer

import (
	"bufio"
	"strings"
	"time"

	"github.com/engramhq/engram/internal/record"
)

// ParseChatMarkdown parses an agent chat-history export: sections
// demarcated by leading "# user" / "# assistant" markers. A fenced code
// block stays in the text of the section it appears in, and markers
// inside it do not start a new section; it does not become a separate
// tool-output entry. Role inference is best-effort; tool calls are
// unavailable in this format (§4.3).
func ParseChatMarkdown(data []byte) ([]record.TranscriptEntry, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var entries []record.TranscriptEntry
	var role record.Role
	var body []string
	var inFence bool

	flush := func() {
		if role == "" {
			return
		}
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text == "" {
			return
		}
		entries = append(entries, record.TranscriptEntry{
			Timestamp: time.Time{},
			Role:      role,
			Content:   record.Content{Kind: record.ContentKindText, Text: text},
		})
		body = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			body = append(body, line)
			continue
		}
		if !inFence {
			if newRole, ok := sectionRole(lower); ok {
				flush()
				role = newRole
				continue
			}
		}
		body = append(body, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return entries, nil
}

func sectionRole(lowerTrimmed string) (record.Role, bool) {
	switch {
	case strings.HasPrefix(lowerTrimmed, "# user"):
		return record.RoleUser, true
	case strings.HasPrefix(lowerTrimmed, "# assistant"):
		return record.RoleAssistant, true
	case strings.HasPrefix(lowerTrimmed, "# system"):
		return record.RoleSystem, true
	default:
		return "", false
	}
}
