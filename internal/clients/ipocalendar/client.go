// Package ipocalendar scrapes the public Indian IPO calendar
package ipocalendar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
	"github.com/Keshavr57/SmartStock/internal/models"
)

const (
	DefaultURL     = "https://www.chittorgarh.com/report/ipo-in-india-list-main-board-sme/82/"
	DefaultTimeout = 10 * time.Second
	DefaultMaxRows = 7

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// dateLayouts are the date formats the calendar uses, most common first.
var dateLayouts = []string{"Jan 02, 2006", "Jan 2, 2006", "Mon, Jan 2, 2006", "2 Jan 2006", "2006-01-02"}

// Client implements the IPOCalendarClient interface
type Client struct {
	url     string
	maxRows int
	http    *resty.Client
	logger  *common.Logger
	now     func() time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithURL sets the calendar page URL
func WithURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithMaxRows caps the number of listings returned
func WithMaxRows(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxRows = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock overrides the clock used to derive listing status
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new IPO calendar scraper
func NewClient(opts ...ClientOption) *Client {
	httpClient := resty.New()
	httpClient.SetTimeout(DefaultTimeout)
	httpClient.SetHeader("User-Agent", userAgent)
	httpClient.SetHeader("Accept-Language", "en-US,en;q=0.9")

	c := &Client{
		url:     DefaultURL,
		maxRows: DefaultMaxRows,
		http:    httpClient,
		logger:  common.NewSilentLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetIPOs fetches the calendar page and returns the most recent listings.
// An empty table is an error so callers can fall back to static data.
func (c *Client) GetIPOs(ctx context.Context) ([]models.IPORecord, error) {
	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Error().Err(err).Str("url", c.url).Dur("elapsed", elapsed).Msg("IPO calendar request failed")
		return nil, fmt.Errorf("failed to fetch IPO calendar: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Warn().Str("url", c.url).Int("status", resp.StatusCode()).Dur("elapsed", elapsed).Msg("IPO calendar non-OK response")
		return nil, fmt.Errorf("IPO calendar error: status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse IPO calendar: %w", err)
	}

	records, err := ParseTable(doc, c.maxRows, c.now())
	if err != nil {
		c.logger.Warn().Err(err).Str("url", c.url).Msg("IPO calendar layout not recognised")
		return nil, err
	}

	c.logger.Info().Int("listings", len(records)).Dur("elapsed", elapsed).Msg("IPO calendar fetched")
	return records, nil
}

// ParseTable reads listings from the first striped table, or the first table
// on the page. Rows need at least name, open and close columns.
func ParseTable(doc *goquery.Document, maxRows int, now time.Time) ([]models.IPORecord, error) {
	table := doc.Find("table.table-striped").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("IPO calendar table not found")
	}

	var records []models.IPORecord
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return true // header or spacer
		}

		rawName := collapse(cells.Eq(0).Text())
		rec := models.IPORecord{
			Name:      cleanName(rawName),
			OpenDate:  collapse(cells.Eq(1).Text()),
			CloseDate: collapse(cells.Eq(2).Text()),
			Type:      models.IPOTypeMainboard,
		}
		if rec.Name == "" {
			return true
		}
		if strings.Contains(strings.ToUpper(rawName), "SME") {
			rec.Type = models.IPOTypeSME
		}
		rec.Status = Status(rec.OpenDate, rec.CloseDate, now)

		records = append(records, rec)
		return maxRows <= 0 || len(records) < maxRows
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("IPO calendar table has no listings")
	}
	return records, nil
}

// Status derives the listing status from its dates. Unparseable dates read as upcoming.
func Status(open, closeDate string, now time.Time) string {
	today := truncateDay(now)

	if c, ok := parseDate(closeDate, now.Location()); ok && today.After(c) {
		return models.IPOStatusClosed
	}
	if o, ok := parseDate(open, now.Location()); ok && !today.Before(o) {
		return models.IPOStatusOpen
	}
	return models.IPOStatusUpcoming
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// cleanName drops the " IPO" label and any trailing board marker.
func cleanName(s string) string {
	s = strings.ReplaceAll(s, " IPO", "")
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"(SME)", "SME"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
		}
	}
	return s
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Ensure Client implements IPOCalendarClient
var _ interfaces.IPOCalendarClient = (*Client)(nil)
