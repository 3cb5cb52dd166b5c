package goals

import "strings"

const maxSlugLen = 50

// Slugify converts a name into a filesystem-safe slug.
// Example: "Backend & API Development" → "backend-api-development"
//
// Rules:
//   - Lowercase
//   - Spaces and underscores become hyphens
//   - Non-alphanumeric characters (except hyphens) are removed
//   - Consecutive hyphens are collapsed
//   - Leading/trailing hyphens are trimmed
//   - Truncated to 50 characters (at a word boundary if possible)
//   - Empty input returns "unnamed"
func Slugify(name string) string {
	if strings.TrimSpace(name) == "" {
		return "unnamed"
	}

	s := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '_' || r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")

	if slug == "" {
		return "unnamed"
	}

	if len(slug) <= maxSlugLen {
		return slug
	}

	truncated := slug[:maxSlugLen]
	if lastHyphen := strings.LastIndex(truncated, "-"); lastHyphen > maxSlugLen/2 {
		truncated = truncated[:lastHyphen]
	}

	return strings.TrimRight(truncated, "-")
}
