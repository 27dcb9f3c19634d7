package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Keshavr57/SmartStock/internal/interfaces"
)

// newLimiter admits perMinute requests a minute with a burst of the same size.
// A non-positive rate disables limiting.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// admit rejects the call locally when the provider budget is spent. There is no waiting.
func admit(provider string, limiter *rate.Limiter) error {
	if limiter != nil && !limiter.Allow() {
		return fmt.Errorf("%s: %w: local request budget exhausted", provider, interfaces.ErrCompletionRateLimited)
	}
	return nil
}

// withTimeout applies the request timeout, falling back to fallback when unset.
func withTimeout(ctx context.Context, req interfaces.CompletionRequest, fallback time.Duration) (context.Context, context.CancelFunc) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = fallback
	}
	return context.WithTimeout(ctx, timeout)
}

// classify maps a provider failure onto exactly one completion sentinel.
// status is the HTTP status when the SDK exposed one, otherwise 0.
func classify(ctx context.Context, provider string, status int, err error) error {
	sentinel := sentinelFor(ctx, status, err)
	return fmt.Errorf("%s: %w: %w", provider, sentinel, err)
}

func sentinelFor(ctx context.Context, status int, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return interfaces.ErrCompletionTimeout
	}

	switch {
	case status == http.StatusTooManyRequests:
		return interfaces.ErrCompletionRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return interfaces.ErrCompletionAuth
	case status != 0:
		return interfaces.ErrCompletionUnavailable
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(strings.ToLower(msg), "quota"):
		return interfaces.ErrCompletionRateLimited
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "PERMISSION_DENIED") || strings.Contains(msg, "UNAUTHENTICATED") ||
		strings.Contains(msg, "API key not valid"):
		return interfaces.ErrCompletionAuth
	}
	return interfaces.ErrCompletionUnavailable
}

// emptyResponse is returned when the provider answered with no usable text.
func emptyResponse(provider string) error {
	return fmt.Errorf("%s: %w", provider, interfaces.ErrCompletionEmpty)
}
