package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavr57/SmartStock/internal/interfaces"
	"github.com/Keshavr57/SmartStock/internal/knowledge"
	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/services/classifier"
	"github.com/Keshavr57/SmartStock/internal/services/ipo"
	"github.com/Keshavr57/SmartStock/internal/services/prompt"
	"github.com/Keshavr57/SmartStock/internal/services/sanitize"
)

// --- Mocks ---

type mockCompletion struct {
	reply string
	err   error
	calls int
	last  interfaces.CompletionRequest
}

func (m *mockCompletion) Complete(_ context.Context, req interfaces.CompletionRequest) (string, error) {
	m.calls++
	m.last = req
	return m.reply, m.err
}

func (m *mockCompletion) Provider() string { return "mock" }

type mockMarket struct {
	quoteCalls int
}

func (m *mockMarket) Quote(_ context.Context, symbol string) (*models.Quote, error) {
	m.quoteCalls++
	if symbol != "RELIANCE" {
		return nil, &models.GatewayError{Source: "quote", Key: symbol, Err: errors.New("unknown")}
	}
	return &models.Quote{Symbol: "RELIANCE", Name: "Reliance Industries Ltd", Price: 2450.5, PE: models.Float(24.3)}, nil
}

func (m *mockMarket) IPOListings(_ context.Context) ([]models.IPORecord, error) {
	return nil, &models.GatewayError{Source: "ipo_calendar", Err: errors.New("scrape failed")}
}

type mockFeed struct{}

func (mockFeed) CurrentIPOs(_ context.Context) []models.IPORecord {
	return ipo.FallbackListings()
}

func (mockFeed) LandingStocks(_ context.Context) []models.StockSnapshot {
	return []models.StockSnapshot{{Symbol: "RELIANCE"}, {Symbol: "TCS"}, {Symbol: "HDFCBANK"}, {Symbol: "INFY"}}
}

func newTestService(completion interfaces.CompletionClient) (*Service, *mockMarket) {
	kb := knowledge.Default()
	catalog := ipo.NewCatalog()
	market := &mockMarket{}
	svc := NewService(
		classifier.NewClassifier(kb, nil),
		prompt.NewAssembler(kb, market, catalog),
		ipo.NewService(catalog, nil),
		mockFeed{},
		completion,
		Options{MaxOutputTokens: 500, Timeout: 5 * time.Second},
		nil,
	)
	return svc, market
}

func assertDisclaimer(t *testing.T, answer string) {
	t.Helper()
	assert.True(t, strings.HasSuffix(answer, sanitize.Disclaimer), "answer must end with the disclaimer:\n%s", answer)
}

func TestProcess_Completed(t *testing.T) {
	llm := &mockCompletion{reply: "**P/E** compares price with earnings.\n\n\n\n- Reliance trades near 24x."}
	svc, market := newTestService(llm)

	reply, err := svc.Process(context.Background(), models.Query{Text: "What is P/E ratio and tell me about Reliance"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusSuccess, reply.Status)
	assert.Equal(t, models.StateCompleted, reply.State)
	assert.Equal(t, "P/E compares price with earnings.\n\nReliance trades near 24x.\n\n"+sanitize.Disclaimer, reply.Answer)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, 1, market.quoteCalls)
	assert.Equal(t, prompt.Persona, llm.last.SystemPrompt)
	assert.Contains(t, llm.last.UserPrompt, "Concept (pe ratio)")
	assert.Contains(t, llm.last.UserPrompt, "Live data for RELIANCE")
	assert.Equal(t, 500, llm.last.MaxOutputTokens)
	assert.Equal(t, 5*time.Second, llm.last.Timeout)
}

func TestProcess_MalformedTradeMakesNoCall(t *testing.T) {
	llm := &mockCompletion{reply: "unused"}
	svc, market := newTestService(llm)

	reply, err := svc.Process(context.Background(), models.Query{Text: "TRADING_RISK_ASSESSMENT: BUY 10"})
	require.Error(t, err)

	var ce *classifier.ClassificationError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, models.StatusError, reply.Status)
	assert.Equal(t, models.StateFailed, reply.State)
	assert.Equal(t, 0, llm.calls)
	assert.Equal(t, 0, market.quoteCalls)
	assert.True(t, strings.HasPrefix(UserMessage(err), "Invalid request format"))
}

func TestProcess_CompletionFailuresFallBack(t *testing.T) {
	tests := []struct {
		err      error
		headline string
	}{
		{interfaces.ErrCompletionTimeout, HeadlineTimeout},
		{interfaces.ErrCompletionRateLimited, HeadlineRateLimited},
		{interfaces.ErrCompletionEmpty, HeadlineEmpty},
		{interfaces.ErrCompletionAuth, HeadlineAuth},
		{interfaces.ErrCompletionUnavailable, HeadlineGeneral},
		{errors.New("socket closed"), HeadlineGeneral},
	}

	seen := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.headline, func(t *testing.T) {
			llm := &mockCompletion{err: fmt.Errorf("groq: %w", tt.err)}
			svc, _ := newTestService(llm)

			reply, err := svc.Process(context.Background(), models.Query{Text: "explain diversification"})
			require.NoError(t, err)

			assert.Equal(t, models.StatusSuccess, reply.Status)
			assert.True(t, strings.HasPrefix(reply.Answer, tt.headline), "got %q", reply.Answer)
			assertDisclaimer(t, reply.Answer)
			assert.Equal(t, 1, llm.calls, "no retry")
		})
		seen[tt.headline] = true
	}
	assert.Len(t, seen, 5, "each failure kind has its own headline")
}

func TestProcess_TimeoutFallbackIsDeterministic(t *testing.T) {
	svc, _ := newTestService(&mockCompletion{err: interfaces.ErrCompletionTimeout})

	a, err := svc.Process(context.Background(), models.Query{Text: "what is a stop loss"})
	require.NoError(t, err)
	b, err := svc.Process(context.Background(), models.Query{Text: "something else entirely"})
	require.NoError(t, err)

	assert.Equal(t, a.Answer, b.Answer)
	assert.Equal(t, sanitize.Sanitize(fallbackText(interfaces.ErrCompletionTimeout)), a.Answer)
}

func TestProcess_IPORiskShortCircuits(t *testing.T) {
	llm := &mockCompletion{reply: "unused"}
	svc, market := newTestService(llm)

	reply, err := svc.Process(context.Background(), models.Query{Text: "Is the Ola Electric IPO risky?"})
	require.NoError(t, err)

	assert.Equal(t, models.StateShortCircuited, reply.State)
	require.NotNil(t, reply.Assessment)
	assert.Equal(t, models.RiskHigh, reply.Assessment.Tier)
	assert.Equal(t, 6, reply.Assessment.Score)
	assert.Contains(t, reply.Answer, "IPO Risk Assessment: Ola Electric")
	assertDisclaimer(t, reply.Answer)
	assert.Equal(t, 0, llm.calls)
	assert.Equal(t, 0, market.quoteCalls)
}

func TestProcess_IPOTradeShortCircuitsWithoutCredential(t *testing.T) {
	svc, _ := newTestService(nil)

	reply, err := svc.Process(context.Background(), models.Query{Text: "TRADING_RISK_ASSESSMENT: BUY 2 Swiggy (ipo)"})
	require.NoError(t, err)

	assert.Equal(t, models.StateShortCircuited, reply.State)
	assert.Contains(t, reply.Answer, "IPO Risk Assessment: Swiggy")
	assert.Contains(t, reply.Answer, "Applying for 2 lots of 38 shares at the upper price band needs ₹29,640.")
	assertDisclaimer(t, reply.Answer)
}

func TestProcess_UnknownIPOIsNotAnError(t *testing.T) {
	svc, _ := newTestService(nil)

	reply, err := svc.Process(context.Background(), models.Query{Text: "should I apply for the Bharat Coking Coal IPO"})
	require.NoError(t, err)

	assert.Equal(t, models.StateShortCircuited, reply.State)
	assert.Equal(t, models.RiskUnknown, reply.Assessment.Tier)
	assertDisclaimer(t, reply.Answer)
}

func TestProcess_NotConfigured(t *testing.T) {
	svc, market := newTestService(nil)

	reply, err := svc.Process(context.Background(), models.Query{Text: "tell me about Reliance"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, models.StatusError, reply.Status)
	assert.Equal(t, models.StateFailed, reply.State)
	assert.Equal(t, 0, market.quoteCalls, "no gateway calls without a completion client")
	assert.Contains(t, UserMessage(err), "not configured")
}

func TestSentinel(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	data, ok := svc.Sentinel(ctx, " FETCH_LIVE_IPOS_NOW ")
	require.True(t, ok)
	assert.Len(t, data, 4)

	data, ok = svc.Sentinel(ctx, SentinelStocks)
	require.True(t, ok)
	stocks, isStocks := data.([]models.StockSnapshot)
	require.True(t, isStocks)
	assert.Len(t, stocks, 4)

	_, ok = svc.Sentinel(ctx, "fetch_live_ipos_now please")
	assert.False(t, ok)
}

func TestAssessIPO(t *testing.T) {
	svc, _ := newTestService(nil)

	a, text := svc.AssessIPO("Zerodha IPO")
	assert.Equal(t, models.RiskLow, a.Tier)
	assert.Equal(t, 1, a.Score)
	assertDisclaimer(t, text)
}

func TestConfigured(t *testing.T) {
	svc, _ := newTestService(nil)
	assert.False(t, svc.Configured())
	assert.Equal(t, "", svc.Provider())

	svc, _ = newTestService(&mockCompletion{})
	assert.True(t, svc.Configured())
	assert.Equal(t, "mock", svc.Provider())
}
