package ipo

import (
	"strings"

	"github.com/Keshavr57/SmartStock/internal/models"
)

// knownIPOs are the issues with published scoring inputs.
var knownIPOs = []models.IPORecord{
	{
		Name: "Zerodha", Type: models.IPOTypeMainboard, Status: models.IPOStatusUpcoming,
		OpenDate: "TBA", CloseDate: "TBA", Sector: "Financial Services",
		PromoterHolding: 85.0, CompanyAge: 14, ProfitHistory: "Highly profitable for 10+ years",
	},
	{
		Name: "Swiggy", Type: models.IPOTypeMainboard, Status: models.IPOStatusClosed,
		OpenDate: "Nov 06, 2024", CloseDate: "Nov 08, 2024", Sector: "Consumer Internet",
		PriceBand: "₹371-390", LotSize: 38,
		PromoterHolding: 0, CompanyAge: 10, ProfitHistory: "Loss-making, losses narrowing",
	},
	{
		Name: "NTPC Green Energy", Type: models.IPOTypeMainboard, Status: models.IPOStatusClosed,
		OpenDate: "Nov 19, 2024", CloseDate: "Nov 22, 2024", Sector: "Power",
		PriceBand: "₹102-108", LotSize: 138,
		PromoterHolding: 89.0, CompanyAge: 2, ProfitHistory: "Profitable for 2 years",
	},
	{
		Name: "Hyundai Motor India", Type: models.IPOTypeMainboard, Status: models.IPOStatusClosed,
		OpenDate: "Oct 15, 2024", CloseDate: "Oct 17, 2024", Sector: "Automobile",
		PriceBand: "₹1,865-1,960", LotSize: 7,
		PromoterHolding: 82.5, CompanyAge: 28, ProfitHistory: "Highly profitable for 20+ years",
	},
	{
		Name: "Bajaj Housing Finance", Type: models.IPOTypeMainboard, Status: models.IPOStatusClosed,
		OpenDate: "Sep 09, 2024", CloseDate: "Sep 11, 2024", Sector: "Financial Services",
		PriceBand: "₹66-70", LotSize: 214,
		PromoterHolding: 88.75, CompanyAge: 16, ProfitHistory: "Profitable for 7 years",
	},
	{
		Name: "Ola Electric", Type: models.IPOTypeMainboard, Status: models.IPOStatusClosed,
		OpenDate: "Aug 02, 2024", CloseDate: "Aug 06, 2024", Sector: "Automobile",
		PriceBand: "₹72-76", LotSize: 195,
		PromoterHolding: 45.2, CompanyAge: 8, ProfitHistory: "Loss-making, improving",
	},
	{
		Name: "Nykaa Fashion", Type: models.IPOTypeMainboard, Status: models.IPOStatusUpcoming,
		OpenDate: "TBA", CloseDate: "TBA", Sector: "Consumer Internet",
		PromoterHolding: 52.0, CompanyAge: 6, ProfitHistory: "Turned profitable recently",
	},
	{
		Name: "Zomato Hyperpure", Type: models.IPOTypeMainboard, Status: models.IPOStatusUpcoming,
		OpenDate: "TBA", CloseDate: "TBA", Sector: "B2B Supply",
		PromoterHolding: 60.0, CompanyAge: 5, ProfitHistory: "Loss-making",
	},
}

// fallbackListings stand in for the live calendar when it cannot be reached.
var fallbackListings = []models.IPORecord{
	{Name: "Modern Diagnostic", OpenDate: "Dec 31, 2025", CloseDate: "Jan 02, 2026", Type: models.IPOTypeSME, Status: "Opening Soon"},
	{Name: "E to E Transportation", OpenDate: "Dec 26, 2025", CloseDate: "Dec 30, 2025", Type: models.IPOTypeSME, Status: models.IPOStatusOpen},
	{Name: "Bharat Coking Coal", OpenDate: "Jan 2026", CloseDate: "TBA", Type: models.IPOTypeMainboard, Status: models.IPOStatusUpcoming},
	{Name: "Reliance Jio", OpenDate: "H1 2026", CloseDate: "TBA", Type: models.IPOTypeMainboard, Status: "Planned"},
}

// Catalog is the static IPO record set. Safe for concurrent use.
type Catalog struct {
	records []models.IPORecord
}

// NewCatalog returns the built-in catalog: scored issues plus fallback listings.
func NewCatalog() *Catalog {
	records := make([]models.IPORecord, 0, len(knownIPOs)+len(fallbackListings))
	records = append(records, knownIPOs...)
	records = append(records, fallbackListings...)
	return &Catalog{records: records}
}

// NewCatalogFrom builds a catalog over the given records.
func NewCatalogFrom(records []models.IPORecord) *Catalog {
	return &Catalog{records: append([]models.IPORecord(nil), records...)}
}

// Find looks a record up by name, ignoring case and a trailing " IPO".
func (c *Catalog) Find(name string) (models.IPORecord, bool) {
	key := canonicalName(name)
	if key == "" {
		return models.IPORecord{}, false
	}
	for _, r := range c.records {
		if canonicalName(r.Name) == key {
			return r, true
		}
	}
	return models.IPORecord{}, false
}

// FallbackListings returns a copy of the static calendar.
func FallbackListings() []models.IPORecord {
	return append([]models.IPORecord(nil), fallbackListings...)
}

func canonicalName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, " ipo")
	n = strings.TrimSuffix(n, " limited")
	n = strings.TrimSuffix(n, " ltd")
	return strings.TrimSpace(n)
}
