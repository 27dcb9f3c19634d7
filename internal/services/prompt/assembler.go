// Package prompt builds the bounded system+user prompt for one completion call.
package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
	"github.com/Keshavr57/SmartStock/internal/models"
)

const (
	// DefaultContextLimit caps the retrieved context, in characters, ahead of the user text.
	DefaultContextLimit = 2000

	// MaxIPOListings is the most general listings a prompt carries.
	MaxIPOListings = 5

	fragmentSep = "\n\n"
)

// Assembler gathers context for a classified query. It holds no per-request state.
type Assembler struct {
	kb      interfaces.KnowledgeBase
	market  interfaces.MarketGateway
	catalog interfaces.IPOCatalog
	limit   int
	logger  *common.Logger
}

// Option configures the assembler
type Option func(*Assembler)

// WithContextLimit overrides DefaultContextLimit
func WithContextLimit(chars int) Option {
	return func(a *Assembler) {
		if chars > 0 {
			a.limit = chars
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// NewAssembler creates an assembler. market and catalog may be nil.
func NewAssembler(kb interfaces.KnowledgeBase, market interfaces.MarketGateway, catalog interfaces.IPOCatalog, opts ...Option) *Assembler {
	a := &Assembler{
		kb:      kb,
		market:  market,
		catalog: catalog,
		limit:   DefaultContextLimit,
		logger:  common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ipoBlock remembers listings so the block can be shortened under the cap.
type ipoBlock struct {
	fragment models.Fragment
	listings []models.IPORecord
}

// Assemble builds the prompt. Gateway failures drop the affected fragment.
func (a *Assembler) Assemble(ctx context.Context, q models.Query, cl *models.Classification) *models.PromptContext {
	if cl == nil {
		cl = &models.Classification{}
	}

	knowledge := a.knowledgeFragments(cl.Concepts)
	quote := a.quoteFragment(ctx, cl)
	ipo := a.ipoFragment(ctx, cl)

	fragments := a.fit(knowledge, ipo, quote)

	return &models.PromptContext{
		SystemPrompt: Persona,
		UserPrompt:   buildUserPrompt(fragments, userText(q, cl)),
		Fragments:    fragments,
	}
}

func (a *Assembler) knowledgeFragments(topics []string) []models.Fragment {
	if a.kb == nil {
		return nil
	}
	var out []models.Fragment
	for _, topic := range topics {
		if len(out) == 3 {
			break
		}
		e, ok := a.kb.Lookup(topic)
		if !ok {
			continue
		}
		out = append(out, models.Fragment{
			Kind:  models.FragmentKnowledge,
			Label: e.Topic,
			Text:  fmt.Sprintf("Concept (%s):\n%s", strings.ReplaceAll(e.Topic, "_", " "), e.Text),
		})
	}
	return out
}

func (a *Assembler) quoteFragment(ctx context.Context, cl *models.Classification) *models.Fragment {
	if a.market == nil || cl.Stock == nil {
		return nil
	}
	q, err := a.market.Quote(ctx, cl.Stock.Symbol)
	if err != nil {
		a.logger.Warn().Err(err).
			Str("symbol", cl.Stock.Symbol).
			Str("correlation_id", common.ResolveCorrelationID(ctx)).
			Msg("Quote unavailable, continuing without it")
		return nil
	}
	return &models.Fragment{Kind: models.FragmentQuote, Label: q.Symbol, Text: RenderQuote(q)}
}

func (a *Assembler) ipoFragment(ctx context.Context, cl *models.Classification) *ipoBlock {
	if cl.IPO == nil {
		return nil
	}

	if cl.IPO.Name != "" && a.catalog != nil {
		if rec, ok := a.catalog.Find(cl.IPO.Name); ok {
			return &ipoBlock{fragment: models.Fragment{Kind: models.FragmentIPO, Label: rec.Name, Text: RenderIPODetail(rec)}}
		}
	}

	if a.market == nil {
		return nil
	}
	listings, err := a.market.IPOListings(ctx)
	if err != nil {
		a.logger.Warn().Err(err).
			Str("correlation_id", common.ResolveCorrelationID(ctx)).
			Msg("IPO listings unavailable, continuing without them")
		return nil
	}
	if len(listings) == 0 {
		return nil
	}
	if len(listings) > MaxIPOListings {
		listings = listings[:MaxIPOListings]
	}
	return &ipoBlock{
		fragment: models.Fragment{Kind: models.FragmentIPO, Label: "listings", Text: RenderIPOListings(listings)},
		listings: listings,
	}
}

// fit applies the context cap: knowledge goes first (last snippet first), then
// IPO listings shrink, and the quote is cut only if it alone is too long.
func (a *Assembler) fit(knowledge []models.Fragment, ipo *ipoBlock, quote *models.Fragment) []models.Fragment {
	assemble := func() []models.Fragment {
		out := append([]models.Fragment(nil), knowledge...)
		if quote != nil {
			out = append(out, *quote)
		}
		if ipo != nil {
			out = append(out, ipo.fragment)
		}
		return out
	}

	for len(knowledge) > 0 && contextLength(assemble()) > a.limit {
		a.logger.Debug().Str("topic", knowledge[len(knowledge)-1].Label).Msg("Dropping knowledge snippet to fit context")
		knowledge = knowledge[:len(knowledge)-1]
	}

	for ipo != nil && contextLength(assemble()) > a.limit {
		if len(ipo.listings) <= 1 {
			ipo = nil
			break
		}
		ipo.listings = ipo.listings[:len(ipo.listings)-1]
		ipo.fragment.Text = RenderIPOListings(ipo.listings)
	}

	if quote != nil && contextLength(assemble()) > a.limit {
		q := *quote
		q.Text = truncateRunes(q.Text, a.limit)
		quote = &q
	}

	return assemble()
}

func contextLength(fragments []models.Fragment) int {
	n := 0
	for i, f := range fragments {
		if i > 0 {
			n += len(fragmentSep)
		}
		n += utf8.RuneCountInString(f.Text)
	}
	return n
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit])
}

func userText(q models.Query, cl *models.Classification) string {
	if cl.Trade != nil {
		return "Assess the risks of this proposed trade: " + cl.Trade.String()
	}
	return strings.TrimSpace(q.Text)
}

func buildUserPrompt(fragments []models.Fragment, text string) string {
	var b strings.Builder
	if len(fragments) > 0 {
		b.WriteString("Context:\n")
		for i, f := range fragments {
			if i > 0 {
				b.WriteString(fragmentSep)
			}
			b.WriteString(f.Text)
		}
		b.WriteString("\n\n")
	}
	b.WriteString("User Query: ")
	b.WriteString(text)
	b.WriteString("\n\nInstructions:\n")
	for i, line := range instructions {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
