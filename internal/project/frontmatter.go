package project

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is a typed view of a document's YAML frontmatter. Keys are
// lowercased on parse so lookups are case-insensitive; only scalar values
// are retained (lists and maps are not needed by any consumer).
type Frontmatter map[string]string

// Get returns the value for key (case-insensitive) and whether it was set.
func (f Frontmatter) Get(key string) (string, bool) {
	v, ok := f[strings.ToLower(key)]
	return v, ok
}

const fmDelimiter = "---"

// ParseFrontmatter splits a Markdown document into its YAML frontmatter and
// body. Documents without a leading "---" block, or with YAML that fails to
// parse, yield an empty Frontmatter and the full content as body: malformed
// metadata is never an error, the document just has no usable frontmatter.
func ParseFrontmatter(content string) (Frontmatter, string) {
	trimmed := strings.TrimPrefix(content, "\ufeff")
	if !strings.HasPrefix(trimmed, fmDelimiter+"\n") && trimmed != fmDelimiter {
		return Frontmatter{}, content
	}

	rest := strings.TrimPrefix(trimmed, fmDelimiter+"\n")
	end := strings.Index(rest, "\n"+fmDelimiter)
	if end < 0 {
		return Frontmatter{}, content
	}

	block := rest[:end]
	body := rest[end+len("\n"+fmDelimiter):]
	body = strings.TrimPrefix(body, "\n") // closing delimiter's own newline
	body = strings.TrimPrefix(body, "\n") // conventional blank line after the block

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return Frontmatter{}, content
	}

	fm := make(Frontmatter, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			fm[strings.ToLower(k)] = val
		case bool, int, int64, float64:
			b, _ := yaml.Marshal(val)
			fm[strings.ToLower(k)] = strings.TrimSpace(string(b))
		}
	}
	return fm, body
}
