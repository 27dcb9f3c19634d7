package advisor

import (
	"errors"
	"strings"

	"github.com/Keshavr57/SmartStock/internal/interfaces"
)

// Fallback headlines, one per completion failure kind.
const (
	HeadlineRateLimited = "AI Advisor Temporarily Unavailable"
	HeadlineTimeout     = "AI Advisor Is Taking Longer Than Usual"
	HeadlineEmpty       = "No Answer Was Generated This Time"
	HeadlineAuth        = "AI Advisor Is Offline"
	HeadlineGeneral     = "Educational Response Available"
)

const busyBody = `The AI service is experiencing high demand and could not answer right now. Please try again in a few minutes.

In the meantime you can explore the Learning section, compare stocks side by side with the Compare tool, or read the latest market news.

Educational tip: while you wait, read up on fundamental analysis so you can judge a company's numbers yourself.`

const generalBody = `Here is how you can approach this question on your own.

Fundamental analysis
P/E ratio: compare it with the industry average.
ROE: look for consistent returns above 15%.
Debt-to-equity: lower is generally safer.
Revenue growth: check the trend over three to five years.

Technical analysis
Support and resistance levels, the 50-day and 200-day moving averages, volume patterns, and momentum indicators such as RSI and MACD.

Risk assessment
Consider sector diversification, company-specific risks, current market conditions and your own risk tolerance.

How to research
Read the management discussion in the annual report, use screeners and comparison tools, follow industry trends, and keep up with company news.`

// fallbackText is the static reply for a completion failure. Rate limits and
// timeouts share the busy body; everything else gets the general body.
func fallbackText(err error) string {
	headline, body := HeadlineGeneral, generalBody
	switch {
	case errors.Is(err, interfaces.ErrCompletionRateLimited):
		headline, body = HeadlineRateLimited, busyBody
	case errors.Is(err, interfaces.ErrCompletionTimeout):
		headline, body = HeadlineTimeout, busyBody
	case errors.Is(err, interfaces.ErrCompletionEmpty):
		headline = HeadlineEmpty
	case errors.Is(err, interfaces.ErrCompletionAuth):
		headline = HeadlineAuth
	}

	var b strings.Builder
	b.WriteString(headline)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\nThis is an educational platform, not investment tips.")
	return b.String()
}

// isBusy reports whether err maps to the busy fallback
func isBusy(err error) bool {
	return errors.Is(err, interfaces.ErrCompletionRateLimited) || errors.Is(err, interfaces.ErrCompletionTimeout)
}
