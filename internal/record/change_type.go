package record

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders created/modified/deleted as a bare string and
// renamed as {"renamed":{"from":...}}, matching §3's unambiguous shape.
func (c ChangeType) MarshalJSON() ([]byte, error) {
	if c.Kind == ChangeRenamed {
		return json.Marshal(struct {
			Renamed struct {
				From string `json:"from"`
			} `json:"renamed"`
		}{Renamed: struct {
			From string `json:"from"`
		}{From: c.From}})
	}
	return json.Marshal(string(c.Kind))
}

// UnmarshalJSON accepts either shape.
func (c *ChangeType) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		*c = ChangeType{Kind: ChangeKind(bare)}
		return nil
	}
	var structured struct {
		Renamed struct {
			From string `json:"from"`
		} `json:"renamed"`
	}
	if err := json.Unmarshal(data, &structured); err != nil {
		return fmt.Errorf("record: change_type: %w", err)
	}
	*c = ChangeType{Kind: ChangeRenamed, From: structured.Renamed.From}
	return nil
}
