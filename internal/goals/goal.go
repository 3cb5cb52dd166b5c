// Package goals extracts legacy goal records from a v0.8.0 project tree.
//
// Goals live in three places in the legacy layout: individual Markdown files
// under brainstorming/future-goals/potential-goals/, one-line entries in
// SELECTED-GOALS.md, and archived goal files under 08-archive/goals/.
// Extraction is read-only and tolerant: missing folders yield zero goals,
// non-Markdown files are skipped, malformed list lines are ignored.
package goals

import (
	"path/filepath"
	"strings"
)

// Goal statuses.
const (
	StatusPotential = "potential"
	StatusSelected  = "selected"
)

// LegacyGoal is one goal record extracted from the legacy structure.
// Immutable once extracted; consumed by clustering and migration.
type LegacyGoal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	FilePath    string `json:"file_path,omitempty"`
	RawContent  string `json:"raw_content,omitempty"`
}

// identityFromFilename derives a goal id and name from a Markdown filename.
// The first hyphen-delimited token is the id; the remainder becomes the name
// with hyphens replaced by spaces. "015-add-login-api.md" → ("015", "add login api").
// A filename with no hyphen is both id and name.
func identityFromFilename(filename string) (id, name string) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	id, rest, found := strings.Cut(base, "-")
	if !found || rest == "" {
		return base, strings.ReplaceAll(base, "-", " ")
	}
	return id, strings.ReplaceAll(rest, "-", " ")
}

// firstBodyLine returns the first non-empty, non-heading line of a Markdown
// body, used as a fallback description.
func firstBodyLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "---") {
			continue
		}
		return line
	}
	return ""
}
