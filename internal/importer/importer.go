package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/engramhq/engram/internal/record"
	"github.com/engramhq/engram/internal/redact"
	"github.com/engramhq/engram/internal/textutil"
)

// Import reads the file at path, parses it according to format, and
// assembles an import-mode record. The caller is responsible for
// checking the store's FindBySourceHash before persisting.
func Import(path string, format Format) (*record.Data, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied, not derived from untrusted network input
	if err != nil {
		return nil, fmt.Errorf("importer: reading %s: %w", path, err)
	}

	sourceHash := SourceHash(data)
	createdAt := time.Now()
	if info, statErr := os.Stat(path); statErr == nil {
		createdAt = info.ModTime()
	}

	result := &record.Data{
		Manifest: record.Manifest{
			Version:     record.CurrentSchemaVersion,
			CreatedAt:   createdAt,
			CaptureMode: record.CaptureModeImport,
			GitCommits:  []string{},
			Tags:        []string{},
			SourceHash:  sourceHash,
			Summary:     filepath.Base(path),
		},
	}

	switch format {
	case FormatStructuredSession:
		redacted, redactErr := redact.JSONLBytes(data)
		if redactErr != nil {
			return nil, fmt.Errorf("importer: redacting structured session: %w", redactErr)
		}
		if looksLikeGenericJSONL(redacted) {
			entries, parseErr := ParseGenericJSONL(redacted)
			if parseErr != nil {
				return nil, fmt.Errorf("importer: parsing generic jsonl: %w", parseErr)
			}
			result.Transcript = entries
			break
		}
		parsed, parseErr := ParseSessionJSONL(redacted)
		if parseErr != nil {
			return nil, fmt.Errorf("importer: parsing structured session: %w", parseErr)
		}
		result.Transcript = parsed.Transcript
		result.Operations = parsed.Operations
		result.Manifest.TokenUsage = parsed.TokenUsage
		result.Intent.OriginalRequest = textutil.StripHostTags(firstUserMessage(parsed.Transcript))
	case FormatChatMarkdown:
		entries, parseErr := ParseChatMarkdown(redact.Bytes(data))
		if parseErr != nil {
			return nil, fmt.Errorf("importer: parsing chat markdown: %w", parseErr)
		}
		result.Transcript = entries
		result.Intent.OriginalRequest = textutil.StripHostTags(firstUserMessage(entries))
	case FormatGenericJSONL:
		redacted, redactErr := redact.JSONLBytes(data)
		if redactErr != nil {
			return nil, fmt.Errorf("importer: redacting generic jsonl: %w", redactErr)
		}
		entries, parseErr := ParseGenericJSONL(redacted)
		if parseErr != nil {
			return nil, fmt.Errorf("importer: parsing generic jsonl: %w", parseErr)
		}
		result.Transcript = entries
	default:
		return nil, fmt.Errorf("importer: unknown format %q", format)
	}

	return result, nil
}

// SourceHash computes the dedup key recorded in manifest.source_hash.
func SourceHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// looksLikeGenericJSONL sniffs the first non-empty line: a structured
// session line always carries a "type" discriminator, so its absence
// signals an unrecognized schema that should fall back to passthrough.
func looksLikeGenericJSONL(data []byte) bool {
	for _, line := range splitLines(data) {
		if len(line) == 0 {
			continue
		}
		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			return true
		}
		return probe.Type != sessionLineMessage && probe.Type != sessionLineTool && probe.Type != sessionLineUsage
	}
	return true
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, trimSpace(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, trimSpace(data[start:]))
	}
	return lines
}

func trimSpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func firstUserMessage(entries []record.TranscriptEntry) string {
	for _, e := range entries {
		if e.Role == record.RoleUser && e.Content.Kind == record.ContentKindText {
			return e.Content.Text
		}
	}
	return ""
}
