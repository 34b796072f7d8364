package record

import (
	"encoding/json"
	"fmt"
)

// wireContent is the on-disk shape of Content: a discriminated union keyed
// by "type", matching the shape Claude-style transcripts already use for
// content blocks (see internal/importer for the foreign-format analog).
type wireContent struct {
	Type string `json:"type"`

	Text string `json:"text,omitempty"`

	ToolUseID string          `json:"id,omitempty"`
	ToolName  string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`

	ToolResultID string          `json:"tool_use_id,omitempty"`
	Output       json.RawMessage `json:"output,omitempty"`
	IsError      bool            `json:"is_error,omitempty"`
}

// MarshalJSON renders Content in its wire shape, preserving unknown
// payloads verbatim.
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ContentKindText:
		return json.Marshal(wireContent{Type: string(ContentKindText), Text: c.Text})
	case ContentKindToolUse:
		return json.Marshal(wireContent{
			Type:      string(ContentKindToolUse),
			ToolUseID: c.ToolUseID,
			ToolName:  c.ToolName,
			Input:     c.Input,
		})
	case ContentKindToolResult:
		return json.Marshal(wireContent{
			Type:         string(ContentKindToolResult),
			ToolResultID: c.ToolResultID,
			Output:       c.Output,
			IsError:      c.IsError,
		})
	default:
		if len(c.Raw) == 0 {
			return []byte(`{"type":"unknown"}`), nil
		}
		return c.Raw, nil
	}
}

// UnmarshalJSON parses Content from its wire shape. A "type" value that
// doesn't match a known kind is preserved losslessly as ContentKindUnknown.
func (c *Content) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("record: content: %w", err)
	}
	switch ContentKind(probe.Type) {
	case ContentKindText:
		var w wireContent
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*c = Content{Kind: ContentKindText, Text: w.Text}
	case ContentKindToolUse:
		var w wireContent
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*c = Content{Kind: ContentKindToolUse, ToolUseID: w.ToolUseID, ToolName: w.ToolName, Input: w.Input}
	case ContentKindToolResult:
		var w wireContent
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*c = Content{Kind: ContentKindToolResult, ToolResultID: w.ToolResultID, Output: w.Output, IsError: w.IsError}
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		*c = Content{Kind: ContentKindUnknown, Raw: raw}
	}
	return nil
}
