package yahoo

import (
	"context"
	"errors"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
)

func relianceEquity() *finance.Equity {
	eq := &finance.Equity{
		LongName:   "Reliance Industries Limited",
		TrailingPE: 24.3,
		MarketCap:  16600000000000,
	}
	eq.Symbol = "RELIANCE.NS"
	eq.ShortName = "RELIANCE INDS"
	eq.RegularMarketPrice = 2450.5
	eq.RegularMarketChangePercent = 0.62
	eq.RegularMarketVolume = 9800000
	eq.FiftyTwoWeekHigh = 3024.9
	eq.FiftyTwoWeekLow = 2220.3
	return eq
}

func TestTicker(t *testing.T) {
	c := NewClient()

	tests := []struct {
		in   string
		want string
	}{
		{"RELIANCE", "RELIANCE.NS"},
		{" infy ", "INFY.NS"},
		{"TCS.BO", "TCS.BO"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := c.Ticker(tt.in); got != tt.want {
			t.Errorf("Ticker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	bare := NewClient(WithExchangeSuffix(""))
	if got := bare.Ticker("AAPL"); got != "AAPL" {
		t.Errorf("Ticker without suffix = %q, want AAPL", got)
	}
}

func TestGetQuote_MapsEquity(t *testing.T) {
	var requested string
	c := NewClient(withFetch(func(ticker string) (*finance.Equity, error) {
		requested = ticker
		return relianceEquity(), nil
	}))

	q, err := c.GetQuote(context.Background(), "RELIANCE")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if requested != "RELIANCE.NS" {
		t.Errorf("expected feed ticker RELIANCE.NS, got %s", requested)
	}
	if q.Symbol != "RELIANCE" || q.Ticker != "RELIANCE.NS" {
		t.Errorf("unexpected symbol/ticker %s/%s", q.Symbol, q.Ticker)
	}
	if q.Name != "Reliance Industries Limited" {
		t.Errorf("expected long name, got %s", q.Name)
	}
	if q.Price != 2450.5 || q.High52 != 3024.9 || q.Low52 != 2220.3 {
		t.Errorf("unexpected prices %+v", q)
	}
	if q.PE == nil || *q.PE != 24.3 {
		t.Errorf("expected PE 24.3, got %v", q.PE)
	}
	if q.MarketCap == nil || *q.MarketCap != 1.66e13 {
		t.Errorf("expected market cap 1.66e13, got %v", q.MarketCap)
	}
	if q.Sector != "Energy" {
		t.Errorf("expected sector from universe, got %q", q.Sector)
	}
	if q.Volume != 9800000 {
		t.Errorf("expected volume 9800000, got %d", q.Volume)
	}
	if q.FetchedAt.IsZero() {
		t.Error("expected FetchedAt to be set")
	}
}

func TestGetQuote_MissingOptionalFields(t *testing.T) {
	c := NewClient(withFetch(func(string) (*finance.Equity, error) {
		eq := &finance.Equity{}
		eq.ShortName = "Some Co"
		eq.RegularMarketPrice = 12.5
		return eq, nil
	}))

	q, err := c.GetQuote(context.Background(), "SOMECO")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if q.PE != nil {
		t.Errorf("expected nil PE, got %v", *q.PE)
	}
	if q.MarketCap != nil {
		t.Errorf("expected nil market cap, got %v", *q.MarketCap)
	}
	if q.Sector != "" {
		t.Errorf("expected empty sector for unknown symbol, got %q", q.Sector)
	}
	if q.Name != "Some Co" {
		t.Errorf("expected short name fallback, got %q", q.Name)
	}
}

func TestGetQuote_FetchError(t *testing.T) {
	boom := errors.New("remote closed")
	c := NewClient(withFetch(func(string) (*finance.Equity, error) {
		return nil, boom
	}))

	_, err := c.GetQuote(context.Background(), "TCS")
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestGetQuote_NoPrice(t *testing.T) {
	c := NewClient(withFetch(func(string) (*finance.Equity, error) {
		return &finance.Equity{}, nil
	}))

	if _, err := c.GetQuote(context.Background(), "TCS"); err == nil {
		t.Error("expected error for zero price")
	}
}

func TestGetQuote_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	c := NewClient(
		WithTimeout(20*time.Millisecond),
		withFetch(func(string) (*finance.Equity, error) {
			<-release
			return relianceEquity(), nil
		}),
	)

	start := time.Now()
	_, err := c.GetQuote(context.Background(), "RELIANCE")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout took too long: %v", time.Since(start))
	}
}
