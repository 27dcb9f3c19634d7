package common

import (
	"strings"
	"unicode"
)

// normalizeWords lower-cases s, drops '/' and '.' so "P/E" reads as "pe", and
// turns every other non-alphanumeric rune into a single space.
func normalizeWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case r == '/' || r == '.':
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeQuery prepares free text for phrase matching with ContainsPhrase.
func NormalizeQuery(s string) string {
	return " " + normalizeWords(s) + " "
}

// ContainsPhrase reports whether phrase occurs as whole words in a NormalizeQuery result.
func ContainsPhrase(normalized, phrase string) bool {
	p := normalizeWords(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(normalized, " "+p+" ")
}
