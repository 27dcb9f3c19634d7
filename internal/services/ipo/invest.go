package ipo

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Keshavr57/SmartStock/internal/models"
)

// UpperPrice parses the top of a price band such as "₹1,865-1,960".
func UpperPrice(band string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(band), "–", "-")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price band")
	}
	if i := strings.LastIndex(s, "-"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.NewReplacer("₹", "", ",", "", "Rs.", "", "Rs", "", " ", "").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price band %q: %w", band, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid price band %q: non-positive price", band)
	}
	return d, nil
}

// MinimumInvestment is one lot at the upper end of the price band.
// The second result is false when the record lacks a band or lot size.
func MinimumInvestment(r models.IPORecord) (decimal.Decimal, bool) {
	return InvestmentFor(r, 1)
}

// InvestmentFor is the amount needed to apply for lots at the upper band price.
func InvestmentFor(r models.IPORecord, lots int) (decimal.Decimal, bool) {
	if r.LotSize <= 0 || lots <= 0 {
		return decimal.Zero, false
	}
	price, err := UpperPrice(r.PriceBand)
	if err != nil {
		return decimal.Zero, false
	}
	return price.Mul(decimal.NewFromInt(int64(r.LotSize) * int64(lots))), true
}

// FormatRupees renders an amount as "₹14,820" or "₹1,234.50".
func FormatRupees(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return "₹" + humanize.Comma(d.IntPart())
	}
	fixed := d.Round(2).StringFixed(2)
	_, frac, _ := strings.Cut(fixed, ".")
	return "₹" + humanize.Comma(d.Round(2).IntPart()) + "." + frac
}
