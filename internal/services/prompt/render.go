package prompt

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/services/ipo"
)

const notAvailable = "N/A"

func rupees(v float64) string {
	if v <= 0 {
		return notAvailable
	}
	return ipo.FormatRupees(decimal.NewFromFloat(v).Round(2))
}

// RenderQuote formats a quote block. Missing optional fields print N/A.
func RenderQuote(q *models.Quote) string {
	name := q.Name
	if name == "" {
		name = q.Symbol
	}

	pe := notAvailable
	if q.PE != nil && *q.PE > 0 {
		pe = fmt.Sprintf("%.2f", *q.PE)
	}

	mcap := notAvailable
	if q.MarketCap != nil && *q.MarketCap > 0 {
		crore := int64(*q.MarketCap / 1e7)
		mcap = "₹" + humanize.Comma(crore) + " Cr"
	}

	sector := q.Sector
	if sector == "" {
		sector = notAvailable
	}

	lines := []string{
		fmt.Sprintf("Live data for %s:", q.Symbol),
		"Company: " + name,
		"Current Price: " + rupees(q.Price),
		"52-Week High: " + rupees(q.High52),
		"52-Week Low: " + rupees(q.Low52),
		"P/E Ratio: " + pe,
		"Market Cap: " + mcap,
		"Sector: " + sector,
	}
	return strings.Join(lines, "\n")
}

// RenderIPODetail formats a single IPO record.
func RenderIPODetail(r models.IPORecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IPO details for %s:\n", r.Name)
	fmt.Fprintf(&b, "Type: %s | Status: %s\n", orNA(r.Type), orNA(r.Status))
	fmt.Fprintf(&b, "Dates: %s to %s", orNA(r.OpenDate), orNA(r.CloseDate))
	if r.PriceBand != "" {
		fmt.Fprintf(&b, "\nPrice band: %s", r.PriceBand)
	}
	if r.LotSize > 0 {
		fmt.Fprintf(&b, " | Lot size: %d shares", r.LotSize)
	}
	if amt, ok := ipo.MinimumInvestment(r); ok {
		fmt.Fprintf(&b, " | Minimum investment: %s", ipo.FormatRupees(amt))
	}
	if r.Sector != "" {
		fmt.Fprintf(&b, "\nSector: %s", r.Sector)
	}
	if r.HasFundamentals() {
		fmt.Fprintf(&b, "\nPromoter holding: %.1f%% | Years in business: %d | Profit history: %s",
			r.PromoterHolding, r.CompanyAge, orNA(r.ProfitHistory))
	}
	return b.String()
}

// RenderIPOListings formats general listings, one per line.
func RenderIPOListings(records []models.IPORecord) string {
	var b strings.Builder
	b.WriteString("Current IPO listings:")
	for _, r := range records {
		fmt.Fprintf(&b, "\n- %s: %s to %s (%s)", r.Name, orNA(r.OpenDate), orNA(r.CloseDate), orNA(r.Type))
	}
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
