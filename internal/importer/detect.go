package importer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Format identifies which of the three import parsers applies to a
// detected candidate file.
type Format string

const (
	FormatStructuredSession Format = "structured_session"
	FormatChatMarkdown      Format = "chat_markdown"
	FormatGenericJSONL      Format = "generic_jsonl"
)

// Candidate is one file discovered by auto-detection, with the format
// guessed from its location and extension.
type Candidate struct {
	Path    string
	Format  Format
	ModTime time.Time
}

// sanitizePathForProjectDir mirrors the conventional scheme agent CLIs
// use to namespace a project's session directory under the user's home:
// every path separator and dot becomes a dash.
func sanitizePathForProjectDir(path string) string {
	replacer := strings.NewReplacer(string(filepath.Separator), "-", ".", "-")
	return replacer.Replace(path)
}

// DetectCandidates walks conventional session storage locations for
// projectDir and returns every session file found, newest first.
func DetectCandidates(projectDir string) ([]Candidate, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	type sessionDir struct {
		path   string
		format Format
	}
	var dirs []sessionDir
	if home != "" {
		sanitized := sanitizePathForProjectDir(projectDir)
		dirs = append(dirs,
			sessionDir{filepath.Join(home, ".claude", "projects", sanitized), FormatStructuredSession},
			sessionDir{filepath.Join(home, ".codex", "sessions"), FormatStructuredSession},
		)
	}
	dirs = append(dirs, sessionDir{filepath.Join(projectDir, ".engram", "chat-history"), FormatChatMarkdown})

	var out []Candidate
	for _, d := range dirs {
		entries, readErr := os.ReadDir(d.path)
		if readErr != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, infoErr := e.Info()
			if infoErr != nil {
				continue
			}
			format := d.format
			if format == FormatStructuredSession && strings.HasSuffix(e.Name(), ".md") {
				format = FormatChatMarkdown
			}
			out = append(out, Candidate{
				Path:    filepath.Join(d.path, e.Name()),
				Format:  format,
				ModTime: info.ModTime(),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out, nil
}

// GuessFormat infers a format from a file's extension alone, used when a
// path is given explicitly rather than discovered.
func GuessFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatChatMarkdown
	default:
		return FormatStructuredSession
	}
}
