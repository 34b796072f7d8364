// Package jsonutil provides the small JSON marshaling conventions shared by
// every on-disk record blob: indented, newline-terminated, stable field order.
package jsonutil

import "encoding/json"

// MarshalIndentWithNewline marshals v as indented JSON and appends a
// trailing newline, so files written to disk end cleanly.
func MarshalIndentWithNewline(v any, prefix, indent string) ([]byte, error) {
	data, err := json.MarshalIndent(v, prefix, indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// MarshalCompact marshals v without indentation, used for JSONL lines.
func MarshalCompact(v any) ([]byte, error) {
	return json.Marshal(v)
}
