package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavr57/SmartStock/internal/knowledge"
	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/services/classifier"
	"github.com/Keshavr57/SmartStock/internal/services/ipo"
)

// --- Mocks ---

type mockMarket struct {
	quote      *models.Quote
	quoteErr   error
	listings   []models.IPORecord
	listingErr error

	quoteCalls   int
	listingCalls int
}

func (m *mockMarket) Quote(_ context.Context, symbol string) (*models.Quote, error) {
	m.quoteCalls++
	if m.quoteErr != nil {
		return nil, &models.GatewayError{Source: "quote", Key: symbol, Err: m.quoteErr}
	}
	return m.quote, nil
}

func (m *mockMarket) IPOListings(_ context.Context) ([]models.IPORecord, error) {
	m.listingCalls++
	if m.listingErr != nil {
		return nil, &models.GatewayError{Source: "ipo_calendar", Err: m.listingErr}
	}
	return m.listings, nil
}

func relianceQuote() *models.Quote {
	return &models.Quote{
		Symbol:    "RELIANCE",
		Name:      "Reliance Industries Ltd",
		Price:     2450.5,
		High52:    3024.9,
		Low52:     2220.3,
		PE:        models.Float(24.31),
		MarketCap: models.Float(1.66e13),
		Sector:    "Energy",
	}
}

func manyListings(n int) []models.IPORecord {
	out := make([]models.IPORecord, n)
	for i := range out {
		out[i] = models.IPORecord{Name: fmt.Sprintf("Issue %d", i+1), OpenDate: "Jan 05, 2026", CloseDate: "Jan 07, 2026", Type: models.IPOTypeSME}
	}
	return out
}

func classify(t *testing.T, text string) *models.Classification {
	t.Helper()
	cl, err := classifier.NewClassifier(knowledge.Default(), nil).Classify(text)
	require.NoError(t, err)
	return cl
}

func TestAssemble_KnowledgeThenQuote(t *testing.T) {
	market := &mockMarket{quote: relianceQuote()}
	a := NewAssembler(knowledge.Default(), market, ipo.NewCatalog())

	text := "What is P/E ratio and tell me about Reliance"
	pc := a.Assemble(context.Background(), models.Query{Text: text}, classify(t, text))

	require.Len(t, pc.Fragments, 2)
	assert.Equal(t, models.FragmentKnowledge, pc.Fragments[0].Kind)
	assert.Equal(t, "pe_ratio", pc.Fragments[0].Label)
	assert.Equal(t, models.FragmentQuote, pc.Fragments[1].Kind)
	assert.Equal(t, "RELIANCE", pc.Fragments[1].Label)

	assert.Equal(t, Persona, pc.SystemPrompt)
	ki := strings.Index(pc.UserPrompt, "Concept (pe ratio)")
	qi := strings.Index(pc.UserPrompt, "Live data for RELIANCE")
	ui := strings.Index(pc.UserPrompt, "User Query: "+text)
	ii := strings.Index(pc.UserPrompt, "Instructions:")
	assert.True(t, ki >= 0 && ki < qi && qi < ui && ui < ii, "sections out of order:\n%s", pc.UserPrompt)
	assert.Contains(t, pc.UserPrompt, "This is an educational platform, not investment tips.")
	assert.Equal(t, 0, market.listingCalls)
}

func TestAssemble_QuoteFailureOmitsFragment(t *testing.T) {
	market := &mockMarket{quoteErr: errors.New("feed down")}
	a := NewAssembler(knowledge.Default(), market, nil)

	text := "tell me about TCS"
	pc := a.Assemble(context.Background(), models.Query{Text: text}, classify(t, text))

	assert.Empty(t, pc.Fragments)
	assert.Equal(t, 1, market.quoteCalls)
	assert.NotContains(t, pc.UserPrompt, "Context:")
	assert.Contains(t, pc.UserPrompt, "User Query: tell me about TCS")
}

func TestAssemble_NamedIPODetail(t *testing.T) {
	market := &mockMarket{listings: manyListings(3)}
	a := NewAssembler(knowledge.Default(), market, ipo.NewCatalog())

	text := "when did swiggy list"
	pc := a.Assemble(context.Background(), models.Query{Text: text}, classify(t, text))

	require.Len(t, pc.Fragments, 1)
	assert.Equal(t, models.FragmentIPO, pc.Fragments[0].Kind)
	assert.Contains(t, pc.Fragments[0].Text, "IPO details for Swiggy")
	assert.Contains(t, pc.Fragments[0].Text, "Minimum investment: ₹14,820")
	assert.Equal(t, 0, market.listingCalls)
}

func TestAssemble_GeneralListingsCapped(t *testing.T) {
	market := &mockMarket{listings: manyListings(8)}
	a := NewAssembler(nil, market, ipo.NewCatalog())

	text := "which IPOs are open now"
	pc := a.Assemble(context.Background(), models.Query{Text: text}, classify(t, text))

	require.Len(t, pc.Fragments, 1)
	assert.Equal(t, MaxIPOListings, strings.Count(pc.Fragments[0].Text, "\n- "))
}

func TestAssemble_ListingFailureOmitsFragment(t *testing.T) {
	market := &mockMarket{listingErr: errors.New("scrape failed")}
	a := NewAssembler(nil, market, ipo.NewCatalog())

	text := "upcoming ipo list"
	pc := a.Assemble(context.Background(), models.Query{Text: text}, classify(t, text))
	assert.Empty(t, pc.Fragments)
}

func TestAssemble_CapDropsKnowledgeFirst(t *testing.T) {
	quote := relianceQuote()
	quoteLen := utf8.RuneCountInString(RenderQuote(quote))
	market := &mockMarket{quote: quote}
	a := NewAssembler(knowledge.Default(), market, nil, WithContextLimit(quoteLen+400))

	text := "Reliance pe ratio, market cap and rsi"
	pc := a.Assemble(context.Background(), models.Query{Text: text}, classify(t, text))

	require.NotEmpty(t, pc.Fragments)
	last := pc.Fragments[len(pc.Fragments)-1]
	assert.Equal(t, models.FragmentQuote, last.Kind, "quote is kept")
	assert.LessOrEqual(t, contextLength(pc.Fragments), quoteLen+400)
	assert.Less(t, len(pc.Fragments), 4, "some knowledge was dropped")
	if len(pc.Fragments) > 1 {
		assert.Equal(t, "pe_ratio", pc.Fragments[0].Label, "later snippets go first")
	}
}

func TestAssemble_CapShrinksListingsAfterKnowledge(t *testing.T) {
	listings := manyListings(5)
	two := utf8.RuneCountInString(RenderIPOListings(listings[:2]))
	market := &mockMarket{listings: listings}
	a := NewAssembler(knowledge.Default(), market, nil, WithContextLimit(two))

	text := "explain ipo and sip basics, which ipos are open"
	pc := a.Assemble(context.Background(), models.Query{Text: text}, classify(t, text))

	require.Len(t, pc.Fragments, 1)
	assert.Equal(t, models.FragmentIPO, pc.Fragments[0].Kind)
	assert.Equal(t, 2, strings.Count(pc.Fragments[0].Text, "\n- "))
}

func TestAssemble_OversizedQuoteTruncated(t *testing.T) {
	market := &mockMarket{quote: relianceQuote()}
	a := NewAssembler(nil, market, nil, WithContextLimit(40))

	text := "reliance"
	pc := a.Assemble(context.Background(), models.Query{Text: text}, classify(t, text))

	require.Len(t, pc.Fragments, 1)
	assert.Equal(t, 40, utf8.RuneCountInString(pc.Fragments[0].Text))
}

func TestAssemble_TradeRestated(t *testing.T) {
	market := &mockMarket{quote: relianceQuote()}
	a := NewAssembler(knowledge.Default(), market, nil)

	text := "TRADING_RISK_ASSESSMENT: BUY 10 RELIANCE (stock) at 2450.50"
	pc := a.Assemble(context.Background(), models.Query{Text: text}, classify(t, text))

	require.Len(t, pc.Fragments, 1)
	assert.Contains(t, pc.UserPrompt, "User Query: Assess the risks of this proposed trade: BUY 10 RELIANCE (stock) at ₹2450.50")
}

func TestRenderQuote_MissingFieldsShowNA(t *testing.T) {
	out := RenderQuote(&models.Quote{Symbol: "INFY", Price: 1520.55})

	assert.Contains(t, out, "Company: INFY")
	assert.Contains(t, out, "Current Price: ₹1,520.55")
	assert.Contains(t, out, "52-Week High: N/A")
	assert.Contains(t, out, "P/E Ratio: N/A")
	assert.Contains(t, out, "Market Cap: N/A")
	assert.Contains(t, out, "Sector: N/A")
}

func TestRenderQuote_MarketCapInCrore(t *testing.T) {
	out := RenderQuote(relianceQuote())
	assert.Contains(t, out, "Market Cap: ₹1,660,000 Cr")
	assert.Contains(t, out, "P/E Ratio: 24.31")
}
