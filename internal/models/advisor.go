package models

import "fmt"

// Query is a single inbound request. Nothing about it survives the request.
type Query struct {
	Text   string
	UserID string // opaque, logged only
}

// IntentKind names a classification category.
type IntentKind string

const (
	IntentStockMention          IntentKind = "STOCK_MENTION"
	IntentIPOMention            IntentKind = "IPO_MENTION"
	IntentTradingRiskAssessment IntentKind = "TRADING_RISK_ASSESSMENT"
	IntentConceptLookup         IntentKind = "CONCEPT_LOOKUP"
)

// StockMention is a resolved alias hit.
type StockMention struct {
	Symbol string // e.g. "RELIANCE"
	Alias  string // the alias that matched, e.g. "ril"
}

// IPOMention records that a query is about IPOs. Name is empty for general IPO questions.
type IPOMention struct {
	Name       string
	RiskIntent bool
}

// TradeRequest is a parsed TRADING_RISK_ASSESSMENT request.
type TradeRequest struct {
	Action    string // BUY or SELL
	Quantity  int
	Symbol    string
	AssetType string   // lower-cased, e.g. "stock", "ipo"
	Price     *float64 // optional
}

// IsIPO reports whether the trade targets an IPO allotment.
func (t TradeRequest) IsIPO() bool {
	return t.AssetType == "ipo"
}

// String renders the trade the way a user would phrase it.
func (t TradeRequest) String() string {
	s := fmt.Sprintf("%s %d %s (%s)", t.Action, t.Quantity, t.Symbol, t.AssetType)
	if t.Price != nil {
		s += fmt.Sprintf(" at ₹%.2f", *t.Price)
	}
	return s
}

// Classification is the classifier's output. At most one stock and one IPO are
// recognised per query; concepts are capped by the classifier.
type Classification struct {
	Stock    *StockMention
	IPO      *IPOMention
	Trade    *TradeRequest
	Concepts []string
}

// Intents lists the categories that fired, in a stable order.
func (c *Classification) Intents() []IntentKind {
	var out []IntentKind
	if c.Trade != nil {
		out = append(out, IntentTradingRiskAssessment)
	}
	if c.Stock != nil {
		out = append(out, IntentStockMention)
	}
	if c.IPO != nil {
		out = append(out, IntentIPOMention)
	}
	if len(c.Concepts) > 0 {
		out = append(out, IntentConceptLookup)
	}
	return out
}

// KnowledgeEntry is one static educational snippet.
type KnowledgeEntry struct {
	Topic string `toml:"topic" json:"topic"`
	Text  string `toml:"text" json:"text"`
}

// FragmentKind identifies where a context fragment came from.
type FragmentKind string

const (
	FragmentKnowledge FragmentKind = "knowledge"
	FragmentQuote     FragmentKind = "quote"
	FragmentIPO       FragmentKind = "ipo"
)

// Fragment is one block of retrieved context.
type Fragment struct {
	Kind  FragmentKind
	Label string
	Text  string
}

// PromptContext is the assembled input for one completion call.
type PromptContext struct {
	SystemPrompt string
	UserPrompt   string
	Fragments    []Fragment
}

// State is a position in the per-request lifecycle.
type State string

const (
	StateReceived       State = "RECEIVED"
	StateClassified     State = "CLASSIFIED"
	StateContextBuilt   State = "CONTEXT_BUILT"
	StateCompleted      State = "COMPLETED"
	StateShortCircuited State = "SHORT_CIRCUITED"
	StateFailed         State = "FAILED"
)

// Reply statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Reply is the orchestrator's terminal result for one query.
type Reply struct {
	Status     string          `json:"status"`
	Answer     string          `json:"answer"`
	State      State           `json:"-"`
	Assessment *RiskAssessment `json:"-"`
}
