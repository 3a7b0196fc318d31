// Package slug derives URL-safe identifiers from display names.
package slug

import "strings"

// Make converts text to a lowercase, hyphen-separated slug.
// Characters outside [A-Za-z0-9_ \t-] are stripped, runs of whitespace
// and underscores collapse into a single hyphen, and leading/trailing
// hyphens are trimmed. Empty input yields empty output.
func Make(text string) string {
	lower := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '_', r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(' ')
		}
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == ' ' })
	joined := strings.Join(parts, "-")

	return strings.Trim(joined, "-")
}
