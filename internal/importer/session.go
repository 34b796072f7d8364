// Package importer converts foreign session artifacts into import-mode
// records: structured agent JSONL, chat-history markdown, and generic
// line-delimited JSON. See session.go, markdown.go, generic.go for the
// three format parsers and detect.go for auto-detection of well-known
// session locations.
package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/engramhq/engram/internal/record"
)

// sessionLine is one newline-delimited record in a structured agent
// session file: a discriminated union over message/tool/usage lines.
type sessionLine struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Role      string          `json:"role"`
	Content   json.RawMessage `json:"content"`

	ToolName       string          `json:"tool_name"`
	Input          json.RawMessage `json:"input"`
	Output         json.RawMessage `json:"output"`
	IsError        bool            `json:"is_error"`
	DurationMillis *int64          `json:"duration_ms"`

	TokensInput  int      `json:"tokens_input"`
	TokensOutput int      `json:"tokens_output"`
	CostUSD      *float64 `json:"cost_usd"`
}

const (
	sessionLineMessage = "message"
	sessionLineTool    = "tool_call"
	sessionLineUsage   = "usage"
)

// ParsedSession is what a structured agent JSONL file yields.
type ParsedSession struct {
	Transcript []record.TranscriptEntry
	Operations record.Operations
	TokenUsage record.TokenUsage
}

// ParseSessionJSONL parses a structured agent session file. Unrecognized
// line types are skipped rather than rejected, since new line kinds are
// additive by convention.
func ParseSessionJSONL(data []byte) (*ParsedSession, error) {
	parsed := &ParsedSession{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var line sessionLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, fmt.Errorf("importer: session line %d: %w", lineNo, err)
		}
		applySessionLine(parsed, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("importer: scanning session: %w", err)
	}
	return parsed, nil
}

func applySessionLine(parsed *ParsedSession, line sessionLine) {
	switch line.Type {
	case sessionLineMessage:
		entry := record.TranscriptEntry{
			Timestamp: line.Timestamp,
			Role:      record.Role(line.Role),
			Content:   textContent(line.Content),
		}
		parsed.Transcript = append(parsed.Transcript, entry)
	case sessionLineTool:
		call := record.ToolCall{
			Timestamp:      line.Timestamp,
			ToolName:       line.ToolName,
			Input:          line.Input,
			DurationMillis: line.DurationMillis,
			IsError:        line.IsError,
		}
		if summary := outputSummary(line.Output); summary != "" {
			call.OutputSummary = summary
		}
		parsed.Operations.ToolCalls = append(parsed.Operations.ToolCalls, call)
		parsed.Transcript = append(parsed.Transcript, record.TranscriptEntry{
			Timestamp: line.Timestamp,
			Role:      record.RoleTool,
			Content: record.Content{
				Kind:         record.ContentKindToolResult,
				ToolResultID: line.ToolName,
				Output:       line.Output,
				IsError:      line.IsError,
			},
		})
	case sessionLineUsage:
		parsed.TokenUsage = parsed.TokenUsage.Add(record.TokenUsage{
			Input:   line.TokensInput,
			Output:  line.TokensOutput,
			Total:   line.TokensInput + line.TokensOutput,
			CostUSD: line.CostUSD,
		})
	}
}

// textContent extracts a best-effort string from a message line's content
// field, which may be a bare JSON string or an object with a "text" key.
func textContent(raw json.RawMessage) record.Content {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return record.Content{Kind: record.ContentKindText, Text: s}
	}
	var wrapped struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Text != "" {
		return record.Content{Kind: record.ContentKindText, Text: wrapped.Text}
	}
	return record.Content{Kind: record.ContentKindUnknown, Raw: raw}
}

func outputSummary(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if len(s) > 200 {
			return s[:200] + "…"
		}
		return s
	}
	return ""
}
