// Package validation holds the small input-shape checks that guard
// path-derived operations from traversal and malformed identifiers.
package validation

import (
	"fmt"
	"strings"
)

// ValidateEngramID rejects ids that could escape their fanout directory
// when used to build a filesystem or ref path.
func ValidateEngramID(id string) error {
	if len(id) < 2 {
		return fmt.Errorf("id too short: %q", id)
	}
	if strings.ContainsAny(id, "/\\.\x00") {
		return fmt.Errorf("id contains invalid characters: %q", id)
	}
	for _, r := range id {
		if !isHexLower(r) {
			return fmt.Errorf("id is not lowercase hex: %q", id)
		}
	}
	return nil
}

// ValidateSessionID applies the path-safety part of that check to session
// identifiers, which are also used to build file paths: non-empty, with no
// separators, dots or NUL bytes. It does not require lowercase hex.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id is empty")
	}
	if strings.ContainsAny(id, "/\\.\x00") {
		return fmt.Errorf("session id contains invalid characters: %q", id)
	}
	return nil
}

func isHexLower(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}
