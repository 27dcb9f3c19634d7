// Package models defines data structures for SmartStock
package models

import "time"

// Quote is a point-in-time stock snapshot. Pointer and empty-string fields are
// optional; renderers print "N/A" for them.
type Quote struct {
	Symbol    string    `json:"symbol"` // display symbol without exchange suffix, e.g. "RELIANCE"
	Ticker    string    `json:"ticker"` // feed ticker, e.g. "RELIANCE.NS"
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	High52    float64   `json:"high_52w"`
	Low52     float64   `json:"low_52w"`
	PE        *float64  `json:"pe_ratio,omitempty"`
	MarketCap *float64  `json:"market_cap,omitempty"`
	Sector    string    `json:"sector,omitempty"`
	ChangePct float64   `json:"change_pct"`
	Volume    int64     `json:"volume"`
	FetchedAt time.Time `json:"fetched_at"`
}

// StockSnapshot is one element of the landing page widget.
type StockSnapshot struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Vol    string  `json:"vol"`
}

// Float returns a pointer to v. Handy for optional quote fields.
func Float(v float64) *float64 {
	return &v
}
