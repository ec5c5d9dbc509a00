// Package util provides small helpers shared across the conversion packages.
package util

import "strings"

// slugMaxLen bounds slug length so regenerated URNs stay readable when flow
// names come from long artifact titles.
const slugMaxLen = 64

// Slugify converts a human-readable name into a URN-safe slug. Output is
// lowercase [a-z0-9-]: spaces, hyphens, underscores, and dots act as
// separators, runs of separators collapse to a single hyphen, any other
// character is dropped, and the result is capped at 64 characters.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pending := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			pending = true
		}
	}
	s := b.String()
	if len(s) > slugMaxLen {
		s = strings.TrimRight(s[:slugMaxLen], "-")
	}
	return s
}
