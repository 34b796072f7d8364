// Package textutil strips editor- and host-injected markup out of text
// pulled from an agent transcript before it is stored as intent or summary.
package textutil

import (
	"regexp"
	"strings"
)

// ideContextTagRegex matches IDE-injected context tags like
// <ide_opened_file>...</ide_opened_file> and <ide_selection>...</ide_selection>.
var ideContextTagRegex = regexp.MustCompile(`(?s)<ide_[^>]*>.*?</ide_[^>]*>`)

// hostTagRegexes matches host-injected context tags that shouldn't leak into
// a recorded intent or summary. Each needs its own regex since Go's regexp
// package doesn't support backreferences for a generic <tag>...</tag> match.
var hostTagRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<local-command-caveat[^>]*>.*?</local-command-caveat>`),
	regexp.MustCompile(`(?s)<system-reminder[^>]*>.*?</system-reminder>`),
	regexp.MustCompile(`(?s)<command-name[^>]*>.*?</command-name>`),
	regexp.MustCompile(`(?s)<command-message[^>]*>.*?</command-message>`),
	regexp.MustCompile(`(?s)<command-args[^>]*>.*?</command-args>`),
	regexp.MustCompile(`(?s)<local-command-stdout[^>]*>.*?</local-command-stdout>`),
}

// StripHostTags removes IDE- and host-injected context tags from text
// recovered from a transcript, so they never end up in intent.md.
func StripHostTags(text string) string {
	result := ideContextTagRegex.ReplaceAllString(text, "")
	for _, re := range hostTagRegexes {
		result = re.ReplaceAllString(result, "")
	}
	return strings.TrimSpace(result)
}
