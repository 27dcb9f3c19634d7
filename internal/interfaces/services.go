package interfaces

import (
	"context"

	"github.com/Keshavr57/SmartStock/internal/models"
)

// MarketGateway fetches live market context. Every failure is a *models.GatewayError.
type MarketGateway interface {
	// Quote returns a quote for a display symbol such as "RELIANCE"
	Quote(ctx context.Context, symbol string) (*models.Quote, error)

	// IPOListings returns the live IPO calendar
	IPOListings(ctx context.Context) ([]models.IPORecord, error)
}

// KnowledgeBase serves static educational snippets
type KnowledgeBase interface {
	// Match returns up to limit entries whose keyword occurs in text, in table order
	Match(text string, limit int) []models.KnowledgeEntry

	// Lookup returns the entry for a topic key such as "pe_ratio"
	Lookup(topic string) (models.KnowledgeEntry, bool)
}

// IPOCatalog resolves IPO names to records carrying scoring inputs
type IPOCatalog interface {
	Find(name string) (models.IPORecord, bool)
}

// MarketFeed serves the raw data behind the widget sentinels. Both calls
// always return data, falling back to static values.
type MarketFeed interface {
	CurrentIPOs(ctx context.Context) []models.IPORecord
	LandingStocks(ctx context.Context) []models.StockSnapshot
}
