package record

import (
	"encoding/json"

	"github.com/engramhq/engram/internal/jsonutil"
)

func marshalCompact(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalStrict(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// MarshalManifest renders a Manifest as indented JSON with a trailing newline.
func MarshalManifest(m Manifest) ([]byte, error) {
	return marshalIndent(m)
}

// ParseManifest parses a Manifest from its on-disk JSON form.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	err := json.Unmarshal(data, &m)
	return m, err
}

// MarshalOperations renders Operations as indented JSON with a trailing newline.
func MarshalOperations(o Operations) ([]byte, error) {
	return marshalIndent(o)
}

// ParseOperations parses Operations from its on-disk JSON form.
func ParseOperations(data []byte) (Operations, error) {
	var o Operations
	err := json.Unmarshal(data, &o)
	return o, err
}

// MarshalLineage renders Lineage as indented JSON with a trailing newline.
func MarshalLineage(l Lineage) ([]byte, error) {
	return marshalIndent(l)
}

// ParseLineage parses Lineage from its on-disk JSON form.
func ParseLineage(data []byte) (Lineage, error) {
	var l Lineage
	err := json.Unmarshal(data, &l)
	return l, err
}

func marshalIndent(v any) ([]byte, error) {
	return jsonutil.MarshalIndentWithNewline(v, "", "  ")
}
