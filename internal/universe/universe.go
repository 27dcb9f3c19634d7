// Package universe holds the fixed alias tables for the stocks and IPOs the
// advisor recognises by name. Tables are ordered: earlier entries win.
package universe

import "strings"

// Stock is a recognised NSE listing.
type Stock struct {
	Symbol  string
	Name    string
	Sector  string
	Aliases []string

	// Reference values used when the quote feed is unreachable.
	RefPrice  float64
	RefChange float64
	RefVolume string
}

// Stocks is the ordered stock alias table. Multi-word aliases precede the
// shorter aliases they contain.
var Stocks = []Stock{
	{Symbol: "RELIANCE", Name: "Reliance Industries Ltd", Sector: "Energy", Aliases: []string{"reliance industries", "reliance", "ril"}, RefPrice: 1285.40, RefChange: 0.62, RefVolume: "9.8M"},
	{Symbol: "TCS", Name: "Tata Consultancy Services Ltd", Sector: "Information Technology", Aliases: []string{"tata consultancy", "tcs"}, RefPrice: 3410.15, RefChange: -0.35, RefVolume: "2.1M"},
	{Symbol: "HDFCBANK", Name: "HDFC Bank Ltd", Sector: "Financial Services", Aliases: []string{"hdfc bank", "hdfcbank", "hdfc"}, RefPrice: 1742.80, RefChange: 0.18, RefVolume: "12.5M"},
	{Symbol: "INFY", Name: "Infosys Ltd", Sector: "Information Technology", Aliases: []string{"infosys", "infy"}, RefPrice: 1520.55, RefChange: -0.71, RefVolume: "6.4M"},
	{Symbol: "ICICIBANK", Name: "ICICI Bank Ltd", Sector: "Financial Services", Aliases: []string{"icici bank", "icicibank", "icici"}, RefPrice: 1298.00, RefChange: 0.44, RefVolume: "10.2M"},
	{Symbol: "SBIN", Name: "State Bank of India", Sector: "Financial Services", Aliases: []string{"state bank of india", "state bank", "sbi", "sbin"}, RefPrice: 812.35, RefChange: 0.27, RefVolume: "14.9M"},
	{Symbol: "ITC", Name: "ITC Ltd", Sector: "Consumer Goods", Aliases: []string{"itc"}, RefPrice: 415.60, RefChange: -0.12, RefVolume: "11.3M"},
	{Symbol: "WIPRO", Name: "Wipro Ltd", Sector: "Information Technology", Aliases: []string{"wipro"}, RefPrice: 262.90, RefChange: 0.55, RefVolume: "8.7M"},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel Ltd", Sector: "Telecommunication", Aliases: []string{"bharti airtel", "airtel", "bhartiartl"}, RefPrice: 1890.25, RefChange: 1.02, RefVolume: "5.6M"},
	{Symbol: "TATAMOTORS", Name: "Tata Motors Ltd", Sector: "Automobile", Aliases: []string{"tata motors", "tatamotors"}, RefPrice: 701.10, RefChange: -1.15, RefVolume: "13.8M"},
}

// LandingSymbols are the four stocks shown on the landing widget, in display order.
var LandingSymbols = []string{"RELIANCE", "TCS", "HDFCBANK", "INFY"}

// FindStock returns the stock whose symbol or alias equals s, case-insensitively.
func FindStock(s string) (Stock, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Stocks {
		if strings.ToLower(st.Symbol) == key {
			return st, true
		}
		for _, a := range st.Aliases {
			if a == key {
				return st, true
			}
		}
	}
	return Stock{}, false
}

// IPOAlias maps a keyword to the canonical IPO name.
type IPOAlias struct {
	Keyword string
	Name    string
}

// IPOAliases is the ordered IPO keyword list. Longer phrases come first so
// "zomato hyperpure" wins over "zomato".
var IPOAliases = []IPOAlias{
	{"bajaj housing finance", "Bajaj Housing Finance"},
	{"bajaj housing", "Bajaj Housing Finance"},
	{"ntpc green energy", "NTPC Green Energy"},
	{"ntpc green", "NTPC Green Energy"},
	{"hyundai motor", "Hyundai Motor India"},
	{"ola electric", "Ola Electric"},
	{"zomato hyperpure", "Zomato Hyperpure"},
	{"paytm insurance", "Paytm Insurance"},
	{"nykaa fashion", "Nykaa Fashion"},
	{"bharat coking coal", "Bharat Coking Coal"},
	{"modern diagnostic", "Modern Diagnostic"},
	{"e to e transportation", "E to E Transportation"},
	{"reliance jio", "Reliance Jio"},
	{"hyundai", "Hyundai Motor India"},
	{"zerodha", "Zerodha"},
	{"swiggy", "Swiggy"},
	{"paytm", "Paytm"},
	{"nykaa", "Nykaa"},
	{"zomato", "Zomato"},
}
