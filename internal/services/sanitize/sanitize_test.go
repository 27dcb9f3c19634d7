package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_StripsMarkup(t *testing.T) {
	raw := "## Market Data\n\n**Price** is *rising* and __volume__ is _steady_.\n- first point\n* second point\n• third point"

	got := Strip(raw)
	want := "Market Data\n\nPrice is rising and volume is steady.\nfirst point\nsecond point\nthird point"
	assert.Equal(t, want, got)
}

func TestSanitize_StripsAdjacentUnderscoreItalics(t *testing.T) {
	tests := map[string]string{
		"_a_ _b_":                               "a b",
		"_x_\n_y_":                              "x\ny",
		"Watch _debt_ _and_ _margins_ closely.": "Watch debt and margins closely.",
		"(_inline_) and _end_":                  "(inline) and end",
		"keep pe_ratio and eps_growth, drop _this_": "keep pe_ratio and eps_growth, drop this",
	}
	for in, want := range tests {
		if got := Strip(in); got != want {
			t.Errorf("Strip(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitize_LeavesSpacedAsterisks(t *testing.T) {
	assert.Equal(t, "5 * 3 and 2 * 4", Strip("5 * 3 and 2 * 4"))
	assert.Equal(t, "rising and steady", Strip("*rising* and *steady*"))
}

func TestSanitize_CollapsesBlankLines(t *testing.T) {
	got := Strip("one\n\n\n\ntwo\n   \n\n\nthree")
	assert.Equal(t, "one\n\ntwo\n\nthree", got)
}

func TestSanitize_KeepsIdentifiersAndNumbers(t *testing.T) {
	got := Strip("Use pe_ratio and 3 * 4 = 12.\n1. numbered stays")
	assert.Equal(t, "Use pe_ratio and 3 * 4 = 12.\n1. numbered stays", got)
}

func TestSanitize_AppendsDisclaimer(t *testing.T) {
	got := Sanitize("Hello")
	assert.Equal(t, "Hello\n\n"+Disclaimer, got)
	assert.True(t, HasDisclaimer(got))
	assert.Contains(t, got, "This is an educational platform, not investment tips")
}

func TestSanitize_EmptyInput(t *testing.T) {
	assert.Equal(t, Disclaimer, Sanitize("   \n"))
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"plain answer",
		"**bold** heading\n\n\n\n- bullet",
		"# Title\n* a\n* b\n\n\n",
		"",
		"- - nested bullet",
		"text with trailing spaces   \nnext",
		"_a_ _b_",
		"_x_\n_y_",
		"Watch _debt_ _and_ _margins_ closely.",
		"5 * 3 and 2 * 4",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
		if strings.Count(twice, Disclaimer) != 1 {
			t.Errorf("disclaimer count for %q = %d, want 1", in, strings.Count(twice, Disclaimer))
		}
	}
}

func TestSanitize_DisclaimerSurvivesMarkerPass(t *testing.T) {
	// The "---" separator must not look like a bullet.
	assert.Equal(t, Disclaimer, leadingMarkers.ReplaceAllString(Disclaimer, ""))
	assert.Equal(t, "", Strip(Disclaimer))
}
