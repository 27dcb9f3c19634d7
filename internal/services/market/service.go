// Package market composes the quote feed and IPO calendar into the gateway the advisor uses
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/services/ipo"
	"github.com/Keshavr57/SmartStock/internal/universe"
)

const (
	SourceQuote       = "quote"
	SourceIPOCalendar = "ipo_calendar"
)

var errNoSource = errors.New("source not configured")

// Service implements MarketGateway. Either client may be nil; calls against a
// missing client fail with a GatewayError.
type Service struct {
	quotes   interfaces.QuoteClient
	calendar interfaces.IPOCalendarClient
	logger   *common.Logger
}

// NewService creates a new market service
func NewService(quotes interfaces.QuoteClient, calendar interfaces.IPOCalendarClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		quotes:   quotes,
		calendar: calendar,
		logger:   logger,
	}
}

// Quote fetches a quote for a display symbol
func (s *Service) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	if s.quotes == nil {
		return nil, &models.GatewayError{Source: SourceQuote, Key: symbol, Err: errNoSource}
	}
	q, err := s.quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, &models.GatewayError{Source: SourceQuote, Key: symbol, Err: err}
	}
	if q == nil {
		return nil, &models.GatewayError{Source: SourceQuote, Key: symbol, Err: fmt.Errorf("empty quote")}
	}
	return q, nil
}

// IPOListings fetches the live IPO calendar
func (s *Service) IPOListings(ctx context.Context) ([]models.IPORecord, error) {
	if s.calendar == nil {
		return nil, &models.GatewayError{Source: SourceIPOCalendar, Err: errNoSource}
	}
	records, err := s.calendar.GetIPOs(ctx)
	if err != nil {
		return nil, &models.GatewayError{Source: SourceIPOCalendar, Err: err}
	}
	return records, nil
}

// CurrentIPOs returns the live calendar, or the static listing when the
// calendar cannot be reached. It never returns an empty list.
func (s *Service) CurrentIPOs(ctx context.Context) []models.IPORecord {
	records, err := s.IPOListings(ctx)
	if err != nil || len(records) == 0 {
		s.logger.Warn().Err(err).
			Str("correlation_id", common.ResolveCorrelationID(ctx)).
			Msg("Using static IPO listings")
		return ipo.FallbackListings()
	}
	return records
}

// LandingStocks returns one snapshot per landing symbol, in display order.
// A symbol whose quote fails falls back to its reference values, so the
// result always has len(universe.LandingSymbols) elements.
func (s *Service) LandingStocks(ctx context.Context) []models.StockSnapshot {
	out := make([]models.StockSnapshot, 0, len(universe.LandingSymbols))
	fallbacks := 0

	for _, symbol := range universe.LandingSymbols {
		st, _ := universe.FindStock(symbol)

		q, err := s.Quote(ctx, symbol)
		if err != nil {
			fallbacks++
			out = append(out, models.StockSnapshot{
				Name:   st.Name,
				Symbol: symbol,
				Price:  st.RefPrice,
				Change: st.RefChange,
				Vol:    st.RefVolume,
			})
			continue
		}

		name := q.Name
		if name == "" {
			name = st.Name
		}
		vol := FormatVolume(q.Volume)
		if vol == "" {
			vol = st.RefVolume
		}
		out = append(out, models.StockSnapshot{
			Name:   name,
			Symbol: symbol,
			Price:  round2(q.Price),
			Change: round2(q.ChangePct),
			Vol:    vol,
		})
	}

	if fallbacks > 0 {
		s.logger.Warn().Int("fallbacks", fallbacks).
			Str("correlation_id", common.ResolveCorrelationID(ctx)).
			Msg("Landing stocks served with reference values")
	}
	return out
}

// FormatVolume renders a share count in millions, e.g. 12500000 becomes "12.5M".
// Zero volume renders as "".
func FormatVolume(v int64) string {
	if v <= 0 {
		return ""
	}
	m := decimal.NewFromInt(v).Div(decimal.NewFromInt(1_000_000)).Round(1)
	return m.StringFixed(1) + "M"
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Ensure Service implements MarketGateway
var _ interfaces.MarketGateway = (*Service)(nil)
