// Package sanitize turns raw model output into the plain text shown to users.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Disclaimer is appended to every answer, including fallbacks and IPO assessments.
const Disclaimer = "---\nEducational Disclaimer: This is an educational platform, not investment tips. " +
	"This analysis is for educational purposes only and should not be considered as financial advice. " +
	"Always conduct your own research and consult with qualified financial advisors before making investment decisions. " +
	"Past performance does not guarantee future results."

const disclaimerSep = "\n\n"

var (
	// Leading heading hashes and bullet markers, possibly stacked ("# - item").
	leadingMarkers = regexp.MustCompile(`(?m)^[ \t]*(?:(?:#{1,6}|[-*•+])[ \t]+)+`)
	boldStars      = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)
	boldUnders     = regexp.MustCompile(`__([^_\n]+?)__`)
	italicStar     = regexp.MustCompile(`\*([^*\s](?:[^*\n]*?[^*\s])?)\*`)
	strayStars     = regexp.MustCompile(`\*{2,}`)
	trailingSpace  = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)
)

// Sanitize strips emphasis and list markup, normalises blank lines and appends
// Disclaimer. Applying it twice gives the same result as applying it once.
func Sanitize(raw string) string {
	body := Strip(raw)
	if body == "" {
		return Disclaimer
	}
	return body + disclaimerSep + Disclaimer
}

// Strip performs the formatting clean-up without adding the disclaimer. A
// disclaimer already at the end of raw is removed first.
func Strip(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, Disclaimer))

	s = leadingMarkers.ReplaceAllString(s, "")
	s = boldStars.ReplaceAllString(s, "$1")
	s = boldUnders.ReplaceAllString(s, "$1")
	s = italicStar.ReplaceAllString(s, "$1")
	s = stripUnderscoreItalics(s)
	s = strayStars.ReplaceAllString(s, "")
	// Removing emphasis can expose a marker that was wrapped in it.
	s = leadingMarkers.ReplaceAllString(s, "")

	s = trailingSpace.ReplaceAllString(s, "")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// HasDisclaimer reports whether text ends with Disclaimer.
func HasDisclaimer(text string) bool {
	return strings.HasSuffix(strings.TrimSpace(text), Disclaimer)
}

// stripUnderscoreItalics removes _x_ emphasis. The opening underscore must not
// follow a word character and the closing one must not precede one, so
// identifiers like pe_ratio survive. Spans never cross a line break.
func stripUnderscoreItalics(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] != '_' || !opensItalic(s, i) {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := closingUnderscore(s, i+1)
		if end < 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		b.WriteString(s[i+1 : end])
		i = end + 1
	}
	return b.String()
}

func opensItalic(s string, i int) bool {
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		if isWordRune(r) {
			return false
		}
	}
	if i+1 >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i+1:])
	return r != '_' && !unicode.IsSpace(r)
}

// closingUnderscore returns the index of the underscore closing a span opened
// just before from, or -1.
func closingUnderscore(s string, from int) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\n':
			return -1
		case '_':
			prev, _ := utf8.DecodeLastRuneInString(s[:j])
			if j == from || unicode.IsSpace(prev) {
				continue
			}
			if j+1 < len(s) {
				next, _ := utf8.DecodeRuneInString(s[j+1:])
				if isWordRune(next) {
					continue
				}
			}
			return j
		}
	}
	return -1
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
