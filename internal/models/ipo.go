package models

// IPO listing segments.
const (
	IPOTypeMainboard = "Mainboard"
	IPOTypeSME       = "SME"
)

// IPO subscription status as derived from the listing dates.
const (
	IPOStatusUpcoming = "Upcoming"
	IPOStatusOpen     = "Open"
	IPOStatusClosed   = "Closed"
)

// IPORecord describes one IPO. The live calendar and the static catalog both
// produce this shape; the calendar leaves the scoring fields zero.
type IPORecord struct {
	Name            string  `json:"name"`
	OpenDate        string  `json:"open"`
	CloseDate       string  `json:"close"`
	Type            string  `json:"type"`
	Status          string  `json:"status"`
	PriceBand       string  `json:"price_band,omitempty"` // e.g. "₹371-390"
	LotSize         int     `json:"lot_size,omitempty"`
	PromoterHolding float64 `json:"promoter_holding,omitempty"` // percent
	CompanyAge      int     `json:"company_age,omitempty"`      // years
	ProfitHistory   string  `json:"profit_history,omitempty"`
	Sector          string  `json:"sector,omitempty"`
}

// HasFundamentals reports whether the record carries the scoring inputs.
func (r IPORecord) HasFundamentals() bool {
	return r.PromoterHolding > 0 || r.CompanyAge > 0 || r.ProfitHistory != ""
}

// RiskTier is the bucketed IPO risk level.
type RiskTier string

const (
	RiskLow     RiskTier = "Low"
	RiskMedium  RiskTier = "Medium"
	RiskHigh    RiskTier = "High"
	RiskUnknown RiskTier = "Unknown"
)

// RiskAssessment is the scorer's output. It is built once and never mutated.
type RiskAssessment struct {
	IPOName         string   `json:"ipo_name"`
	Tier            RiskTier `json:"tier"`
	Score           int      `json:"score"`
	CoreInsight     string   `json:"core_insight"`
	MarketIntuition string   `json:"market_intuition"`
	KeyRisk         string   `json:"key_risk"`
	HumanElement    string   `json:"human_element"`
	Takeaway        string   `json:"takeaway"`
}
