// Package advisor runs the per-query pipeline: classify, enrich, complete, sanitize.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/services/classifier"
	"github.com/Keshavr57/SmartStock/internal/services/ipo"
	"github.com/Keshavr57/SmartStock/internal/services/prompt"
	"github.com/Keshavr57/SmartStock/internal/services/sanitize"
)

// Reserved messages that bypass the language model and return raw data.
const (
	SentinelLiveIPOs = "FETCH_LIVE_IPOS_NOW"
	SentinelStocks   = "FETCH_STOCKS_JSON"
)

// ErrNotConfigured is returned when a query needs the completion service and
// no client was configured.
var ErrNotConfigured = errors.New("service not configured")

// Options tune the completion call
type Options struct {
	MaxOutputTokens int
	Timeout         time.Duration
}

// Service is the orchestrator. It holds only read-only collaborators and is
// safe for concurrent use.
type Service struct {
	classifier *classifier.Classifier
	assembler  *prompt.Assembler
	ipos       *ipo.Service
	feed       interfaces.MarketFeed
	completion interfaces.CompletionClient
	opts       Options
	logger     *common.Logger
}

// NewService creates the orchestrator. completion may be nil, in which case
// completion-backed queries fail with ErrNotConfigured. feed may be nil when
// the sentinels are not served.
func NewService(
	cl *classifier.Classifier,
	assembler *prompt.Assembler,
	ipos *ipo.Service,
	feed interfaces.MarketFeed,
	completion interfaces.CompletionClient,
	opts Options,
	logger *common.Logger,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = 700
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Service{
		classifier: cl,
		assembler:  assembler,
		ipos:       ipos,
		feed:       feed,
		completion: completion,
		opts:       opts,
		logger:     logger,
	}
}

// Configured reports whether a completion client is present
func (s *Service) Configured() bool {
	return s.completion != nil
}

// Provider names the completion provider, or "" when none is configured
func (s *Service) Provider() string {
	if s.completion == nil {
		return ""
	}
	return s.completion.Provider()
}

// tracker records state transitions for one request
type tracker struct {
	state  models.State
	logger *common.Logger
	cid    string
}

func (t *tracker) to(next models.State) {
	t.logger.Debug().Str("correlation_id", t.cid).Str("from", string(t.state)).Str("to", string(next)).Msg("Query state")
	t.state = next
}

// Process answers one query. Only ClassificationError and ErrNotConfigured are
// returned as errors; every other failure degrades to a sanitized success reply.
func (s *Service) Process(ctx context.Context, q models.Query) (*models.Reply, error) {
	start := time.Now()
	t := &tracker{state: models.StateReceived, logger: s.logger, cid: common.ResolveCorrelationID(ctx)}

	cl, err := s.classifier.Classify(q.Text)
	if err != nil {
		t.to(models.StateFailed)
		return &models.Reply{Status: models.StatusError, State: t.state}, err
	}
	t.to(models.StateClassified)

	if name, ok := shortCircuitTarget(cl); ok {
		a := s.ipos.Assess(name)
		text := ipo.Render(a)
		if extra := s.tradeInvestment(cl.Trade); extra != "" {
			text += "\n\n" + extra
		}
		t.to(models.StateShortCircuited)
		s.logger.Info().Str("correlation_id", t.cid).Str("ipo", a.IPOName).Str("tier", string(a.Tier)).
			Dur("elapsed", time.Since(start)).Msg("IPO assessment served")
		return &models.Reply{
			Status:     models.StatusSuccess,
			Answer:     sanitize.Sanitize(text),
			State:      t.state,
			Assessment: &a,
		}, nil
	}

	if s.completion == nil {
		t.to(models.StateFailed)
		s.logger.Warn().Str("correlation_id", t.cid).Msg("Completion requested but no client configured")
		return &models.Reply{Status: models.StatusError, State: t.state}, ErrNotConfigured
	}

	pc := s.assembler.Assemble(ctx, q, cl)
	t.to(models.StateContextBuilt)

	raw, err := s.completion.Complete(ctx, interfaces.CompletionRequest{
		SystemPrompt:    pc.SystemPrompt,
		UserPrompt:      pc.UserPrompt,
		MaxOutputTokens: s.opts.MaxOutputTokens,
		Timeout:         s.opts.Timeout,
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Str("correlation_id", t.cid).
			Str("provider", s.completion.Provider()).
			Bool("busy", isBusy(err)).
			Dur("elapsed", time.Since(start)).
			Msg("Completion failed, serving fallback")
		t.to(models.StateCompleted)
		return &models.Reply{
			Status: models.StatusSuccess,
			Answer: sanitize.Sanitize(fallbackText(err)),
			State:  t.state,
		}, nil
	}

	t.to(models.StateCompleted)
	s.logger.Info().
		Str("correlation_id", t.cid).
		Int("fragments", len(pc.Fragments)).
		Dur("elapsed", time.Since(start)).
		Msg("Query answered")

	return &models.Reply{
		Status: models.StatusSuccess,
		Answer: sanitize.Sanitize(raw),
		State:  t.state,
	}, nil
}

// Sentinel serves the reserved widget messages. ok is false for any other text.
func (s *Service) Sentinel(ctx context.Context, text string) (any, bool) {
	if s.feed == nil {
		return nil, false
	}
	switch strings.TrimSpace(text) {
	case SentinelLiveIPOs:
		return s.LiveIPOs(ctx), true
	case SentinelStocks:
		return s.LandingStocks(ctx), true
	}
	return nil, false
}

// LiveIPOs returns the current IPO listings
func (s *Service) LiveIPOs(ctx context.Context) []models.IPORecord {
	if s.feed == nil {
		return ipo.FallbackListings()
	}
	return s.feed.CurrentIPOs(ctx)
}

// LandingStocks returns the landing widget snapshot
func (s *Service) LandingStocks(ctx context.Context) []models.StockSnapshot {
	if s.feed == nil {
		return nil
	}
	return s.feed.LandingStocks(ctx)
}

// AssessIPO scores an IPO by name without going through the classifier
func (s *Service) AssessIPO(name string) (models.RiskAssessment, string) {
	a := s.ipos.Assess(name)
	return a, sanitize.Sanitize(ipo.Render(a))
}

// UserMessage is the text shown for an error returned by Process
func UserMessage(err error) string {
	var ce *classifier.ClassificationError
	switch {
	case errors.As(err, &ce):
		return fmt.Sprintf("Invalid request format: %s. Expected %s %s", ce.Reason, classifier.TradePrefix, classifier.TradeFormat)
	case errors.Is(err, ErrNotConfigured):
		return "Service not configured: no completion credential is set"
	}
	return "The request could not be processed"
}

// shortCircuitTarget names the IPO to score when the query is a direct IPO
// risk request: an IPO trade, or a named IPO with risk intent.
func shortCircuitTarget(cl *models.Classification) (string, bool) {
	if cl.Trade != nil {
		if cl.Trade.IsIPO() {
			return cl.Trade.Symbol, true
		}
		return "", false
	}
	if cl.IPO != nil && cl.IPO.Name != "" && cl.IPO.RiskIntent {
		return cl.IPO.Name, true
	}
	return "", false
}

// tradeInvestment states the application amount for an IPO trade
func (s *Service) tradeInvestment(trade *models.TradeRequest) string {
	if trade == nil || !trade.IsIPO() {
		return ""
	}
	rec, ok := s.ipos.Lookup(trade.Symbol)
	if !ok {
		return ""
	}
	amount, ok := ipo.InvestmentFor(rec, trade.Quantity)
	if !ok {
		return ""
	}
	lots := "lots"
	if trade.Quantity == 1 {
		lots = "lot"
	}
	return fmt.Sprintf("Applying for %d %s of %d shares at the upper price band needs %s.",
		trade.Quantity, lots, rec.LotSize, ipo.FormatRupees(amount))
}
