// Package yahoo provides a quote client backed by the Yahoo Finance feed
package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"golang.org/x/time/rate"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/universe"
)

const (
	DefaultTimeout   = 8 * time.Second
	DefaultRateLimit = 5 // requests per second
	DefaultSuffix    = ".NS"
)

// fetchFunc retrieves one equity from the feed. It does not take a context.
type fetchFunc func(ticker string) (*finance.Equity, error)

// Client implements the QuoteClient interface
type Client struct {
	fetch   fetchFunc
	suffix  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *common.Logger
	now     func() time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout bounds a single fetch
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithExchangeSuffix sets the suffix appended to bare symbols, e.g. ".NS"
func WithExchangeSuffix(suffix string) ClientOption {
	return func(c *Client) {
		c.suffix = suffix
	}
}

func withFetch(f fetchFunc) ClientOption {
	return func(c *Client) {
		c.fetch = f
	}
}

// NewClient creates a new Yahoo Finance quote client. No API key is required.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		fetch:   equity.Get,
		suffix:  DefaultSuffix,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Ticker converts a display symbol to a feed ticker: "RELIANCE" becomes "RELIANCE.NS".
// Symbols that already carry an exchange suffix are left alone.
func (c *Client) Ticker(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" || strings.Contains(s, ".") || c.suffix == "" {
		return s
	}
	return s + c.suffix
}

type fetchResult struct {
	eq  *finance.Equity
	err error
}

// GetQuote retrieves a quote. ticker may be a display symbol or a feed ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	feedTicker := c.Ticker(ticker)
	if feedTicker == "" {
		return nil, fmt.Errorf("empty ticker")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// The feed library has no context support, so the call runs detached and
	// is abandoned if the deadline passes first.
	done := make(chan fetchResult, 1)
	start := time.Now()
	go func() {
		eq, err := c.fetch(feedTicker)
		done <- fetchResult{eq: eq, err: err}
	}()

	var res fetchResult
	select {
	case <-ctx.Done():
		c.logger.Warn().Str("ticker", feedTicker).Dur("elapsed", time.Since(start)).Msg("Yahoo quote fetch timed out")
		return nil, fmt.Errorf("quote fetch for %s: %w", feedTicker, ctx.Err())
	case res = <-done:
	}

	elapsed := time.Since(start)
	if res.err != nil {
		c.logger.Error().Err(res.err).Str("ticker", feedTicker).Dur("elapsed", elapsed).Msg("Yahoo quote fetch failed")
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", feedTicker, res.err)
	}
	if res.eq == nil || res.eq.RegularMarketPrice <= 0 {
		c.logger.Warn().Str("ticker", feedTicker).Dur("elapsed", elapsed).Msg("Yahoo returned no price")
		return nil, fmt.Errorf("no quote data for %s", feedTicker)
	}

	q := toQuote(res.eq, feedTicker, c.now())
	c.logger.Debug().Str("ticker", feedTicker).Float64("price", q.Price).Dur("elapsed", elapsed).Msg("Yahoo quote fetched")
	return q, nil
}

// toQuote maps a feed equity onto the domain quote. Zero PE and market cap
// mean the feed did not report them.
func toQuote(eq *finance.Equity, ticker string, fetchedAt time.Time) *models.Quote {
	symbol := displaySymbol(ticker)

	name := strings.TrimSpace(eq.LongName)
	if name == "" {
		name = strings.TrimSpace(eq.ShortName)
	}

	q := &models.Quote{
		Symbol:    symbol,
		Ticker:    ticker,
		Name:      name,
		Price:     eq.RegularMarketPrice,
		High52:    eq.FiftyTwoWeekHigh,
		Low52:     eq.FiftyTwoWeekLow,
		ChangePct: eq.RegularMarketChangePercent,
		Volume:    int64(eq.RegularMarketVolume),
		FetchedAt: fetchedAt,
	}
	if eq.TrailingPE > 0 {
		q.PE = models.Float(eq.TrailingPE)
	}
	if eq.MarketCap > 0 {
		q.MarketCap = models.Float(float64(eq.MarketCap))
	}
	if st, ok := universe.FindStock(symbol); ok {
		q.Sector = st.Sector
		if q.Name == "" {
			q.Name = st.Name
		}
	}
	return q
}

func displaySymbol(ticker string) string {
	if i := strings.Index(ticker, "."); i > 0 {
		return ticker[:i]
	}
	return ticker
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
