package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"time"

	"github.com/engramhq/engram/internal/record"
)

// ParseGenericJSONL passes a generic line-delimited JSON file through as
// a transcript: each line that is valid JSON becomes one system-role
// entry whose content holds the line's bytes (surrounding whitespace
// trimmed), since nothing about the schema is known. Blank lines and
// lines that are not valid JSON are skipped.
func ParseGenericJSONL(data []byte) ([]record.TranscriptEntry, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var entries []record.TranscriptEntry
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		if !json.Valid(raw) {
			continue
		}
		cp := make(json.RawMessage, len(raw))
		copy(cp, raw)
		entries = append(entries, record.TranscriptEntry{
			Timestamp: time.Time{},
			Role:      record.RoleSystem,
			Content:   record.Content{Kind: record.ContentKindUnknown, Raw: cp},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
