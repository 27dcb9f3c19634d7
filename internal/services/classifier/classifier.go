// Package classifier maps raw user text to the intents the advisor acts on.
package classifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
	"github.com/Keshavr57/SmartStock/internal/knowledge"
	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/universe"
)

// TradePrefix marks a structured trading risk request.
const TradePrefix = "TRADING_RISK_ASSESSMENT:"

// TradeFormat is the accepted layout after TradePrefix.
const TradeFormat = "<BUY|SELL> <quantity> <symbol> (<asset type>) [at <price>]"

// ClassificationError reports a malformed structured request.
type ClassificationError struct {
	Input  string
	Reason string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("invalid format: %s (expected %s %s)", e.Reason, TradePrefix, TradeFormat)
}

var ipoWords = []string{"ipo", "ipos", "allotment", "gmp"}

var riskWords = []string{"risk", "risky", "safe", "assess", "assessment", "should i", "worth", "apply", "subscribe"}

var applyWords = []string{"apply", "subscribe", "allotment"}

// Classifier is stateless apart from its read-only tables.
type Classifier struct {
	kb     interfaces.KnowledgeBase
	logger *common.Logger
}

// NewClassifier creates a classifier backed by kb for concept lookups.
func NewClassifier(kb interfaces.KnowledgeBase, logger *common.Logger) *Classifier {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Classifier{kb: kb, logger: logger}
}

// Classify detects intents in text. Only a malformed structured request fails.
func (c *Classifier) Classify(text string) (*models.Classification, error) {
	trimmed := strings.TrimSpace(text)

	if len(trimmed) >= len(TradePrefix) && strings.EqualFold(trimmed[:len(TradePrefix)], TradePrefix) {
		trade, err := ParseTrade(trimmed[len(TradePrefix):])
		if err != nil {
			c.logger.Debug().Str("reason", err.Error()).Msg("Rejected structured request")
			return nil, err
		}
		cl := &models.Classification{Trade: trade}
		if !trade.IsIPO() {
			if st, ok := universe.FindStock(trade.Symbol); ok {
				cl.Stock = &models.StockMention{Symbol: st.Symbol, Alias: strings.ToLower(trade.Symbol)}
			}
		}
		return cl, nil
	}

	normalized := common.NormalizeQuery(trimmed)
	cl := &models.Classification{
		Stock: matchStock(normalized),
		IPO:   matchIPO(normalized),
	}
	if c.kb != nil {
		for _, e := range c.kb.Match(trimmed, knowledge.MaxMatches) {
			cl.Concepts = append(cl.Concepts, e.Topic)
		}
	}

	c.logger.Debug().
		Interface("intents", cl.Intents()).
		Strs("concepts", cl.Concepts).
		Msg("Query classified")

	return cl, nil
}

func matchStock(normalized string) *models.StockMention {
	for _, st := range universe.Stocks {
		for _, alias := range st.Aliases {
			if common.ContainsPhrase(normalized, alias) {
				return &models.StockMention{Symbol: st.Symbol, Alias: alias}
			}
		}
	}
	return nil
}

func matchIPOName(normalized string) string {
	for _, a := range universe.IPOAliases {
		if common.ContainsPhrase(normalized, a.Keyword) {
			return a.Name
		}
	}
	return ""
}

func matchIPO(normalized string) *models.IPOMention {
	name := matchIPOName(normalized)
	ipoWord := containsAny(normalized, ipoWords)
	if name == "" && !ipoWord {
		return nil
	}
	risk := containsAny(normalized, riskWords) && (ipoWord || containsAny(normalized, applyWords))
	return &models.IPOMention{Name: name, RiskIntent: risk}
}

func containsAny(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if common.ContainsPhrase(normalized, p) {
			return true
		}
	}
	return false
}

// ParseTrade parses the text after TradePrefix positionally.
func ParseTrade(body string) (*models.TradeRequest, error) {
	fail := func(format string, args ...any) error {
		return &ClassificationError{Input: body, Reason: fmt.Sprintf(format, args...)}
	}

	tokens := strings.Fields(body)
	if len(tokens) < 4 {
		return nil, fail("expected at least 4 tokens, got %d", len(tokens))
	}

	action := strings.ToUpper(tokens[0])
	if action != "BUY" && action != "SELL" {
		return nil, fail("action must be BUY or SELL, got %q", tokens[0])
	}

	qty, err := strconv.Atoi(tokens[1])
	if err != nil || qty <= 0 {
		return nil, fail("quantity must be a positive whole number, got %q", tokens[1])
	}

	// The asset type is the first parenthesised group after the symbol.
	open := -1
	for i := 3; i < len(tokens); i++ {
		if strings.HasPrefix(tokens[i], "(") {
			open = i
			break
		}
	}
	if open < 0 {
		return nil, fail("asset type must be given in parentheses")
	}
	closeIdx := -1
	for i := open; i < len(tokens); i++ {
		if strings.HasSuffix(tokens[i], ")") {
			closeIdx = i
			break
		}
	}
	if closeIdx < 0 {
		return nil, fail("unterminated asset type")
	}

	assetType := strings.Join(tokens[open:closeIdx+1], " ")
	assetType = strings.ToLower(strings.TrimSpace(strings.Trim(assetType, "()")))
	if assetType == "" {
		return nil, fail("asset type is empty")
	}

	trade := &models.TradeRequest{
		Action:    action,
		Quantity:  qty,
		Symbol:    strings.Join(tokens[2:open], " "),
		AssetType: assetType,
	}

	rest := tokens[closeIdx+1:]
	switch {
	case len(rest) == 0:
	case len(rest) == 2 && strings.EqualFold(rest[0], "at"):
		price, err := parsePrice(rest[1])
		if err != nil {
			return nil, fail("price must be a positive number, got %q", rest[1])
		}
		trade.Price = &price
	default:
		return nil, fail("unexpected trailing text %q", strings.Join(rest, " "))
	}

	if trade.IsIPO() {
		if name := matchIPOName(common.NormalizeQuery(trade.Symbol)); name != "" {
			trade.Symbol = name
		}
	} else if st, ok := universe.FindStock(trade.Symbol); ok {
		trade.Symbol = st.Symbol
	}

	return trade, nil
}

func parsePrice(s string) (float64, error) {
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rs."), "Rs")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("non-positive price %v", v)
	}
	return v, nil
}
