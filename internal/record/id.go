package record

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a 32-character lowercase-hex engram identifier: a UUID v4 with its
// dashes elided.
type ID string

// NewID generates a fresh, locally unique id. Collisions are not checked
// for; the expected population makes the probability negligible.
func NewID() ID {
	return ID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// ParseID accepts any string of at least two characters as a candidate id
// or prefix; callers that need full-id guarantees check len(ParseID(s)) == 32
// themselves. An input shorter than two characters is rejected.
func ParseID(s string) (ID, bool) {
	if len(s) < 2 {
		return "", false
	}
	return ID(s), true
}

// FanoutPrefix returns the two-character directory name used to bound the
// number of refs under any one directory. Falls back to "00" for ids
// shorter than two characters.
func (id ID) FanoutPrefix() string {
	s := string(id)
	if len(s) < 2 {
		return "00"
	}
	return s[:2]
}

// String returns the id's textual form.
func (id ID) String() string { return string(id) }

// Full reports whether id has the full 32-character length.
func (id ID) Full() bool { return len(id) == 32 }
