// Package interfaces defines service contracts for SmartStock
package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/Keshavr57/SmartStock/internal/models"
)

// QuoteClient provides point-in-time stock quotes
type QuoteClient interface {
	// GetQuote retrieves a quote for a display symbol such as "RELIANCE" or a feed ticker such as "RELIANCE.NS"
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}

// IPOCalendarClient lists current and upcoming IPOs from a live source
type IPOCalendarClient interface {
	GetIPOs(ctx context.Context) ([]models.IPORecord, error)
}

// CompletionRequest is one system+user exchange with a hosted model.
type CompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxOutputTokens int
	Timeout         time.Duration
}

// Completion failures. Providers wrap their transport errors in exactly one of these.
var (
	ErrCompletionTimeout     = errors.New("completion timed out")
	ErrCompletionAuth        = errors.New("completion credential rejected")
	ErrCompletionEmpty       = errors.New("completion returned no text")
	ErrCompletionRateLimited = errors.New("completion rate limited")
	ErrCompletionUnavailable = errors.New("completion service unavailable")
)

// CompletionClient sends a prompt to a hosted language model
type CompletionClient interface {
	// Complete returns the model's text. The request timeout is enforced by the client.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Provider names the backing service, e.g. "groq"
	Provider() string
}
