package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// minLookback is the floor for the historical window; the feed's m1
// interval has nothing finer than one minute.
const minLookback = 60 * time.Second

// nameCacheTTL bounds how long a symbol→canonical-name search result is
// reused before hitting the search endpoint again.
const nameCacheTTL = 30 * time.Minute

// Client talks to the CoinCap v2 REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	lookback   time.Duration
	nameCache  *gocache.Cache
	now        clock
}

// NewClient creates a feed client. lookback below one minute is clamped.
func NewClient(baseURL string, httpClient *http.Client, lookback time.Duration) *Client {
	if lookback < minLookback {
		lookback = minLookback
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		lookback:   lookback,
		nameCache:  gocache.New(nameCacheTTL, 10*time.Minute),
		now:        time.Now,
	}
}

// assetEnvelope matches /assets/{id}: {"data": {...}}.
type assetEnvelope struct {
	Data assetData `json:"data"`
}

// listEnvelope matches /assets?search= and /assets/{id}/history:
// {"data": [...]}.
type listEnvelope struct {
	Data []assetData `json:"data"`
}

type assetData struct {
	Name     string `json:"name"`
	PriceUSD string `json:"priceUsd"`
}

// SpotPrice fetches the current USD price for a canonical identifier.
func (c *Client) SpotPrice(ctx context.Context, name string) (decimal.Decimal, error) {
	reqURL := fmt.Sprintf("%s/assets/%s", c.baseURL, url.PathEscape(strings.ToLower(name)))

	var envelope assetEnvelope
	if err := c.getJSON(ctx, reqURL, &envelope); err != nil {
		return decimal.Zero, err
	}

	return parsePrice(envelope.Data.PriceUSD)
}

// SearchName resolves a ticker symbol to the feed's canonical name using the
// search endpoint limited to one result. Results are cached per symbol so
// repeated wallet submissions don't re-hit the endpoint.
func (c *Client) SearchName(ctx context.Context, symbol string) (string, error) {
	if cached, ok := c.nameCache.Get(symbol); ok {
		return cached.(string), nil
	}

	reqURL := fmt.Sprintf("%s/assets?search=%s&limit=1", c.baseURL, url.QueryEscape(symbol))

	var envelope listEnvelope
	if err := c.getJSON(ctx, reqURL, &envelope); err != nil {
		return "", err
	}

	if len(envelope.Data) == 0 {
		return "", fmt.Errorf("searching name for %s: %w", symbol, ErrNotFound)
	}
	name := envelope.Data[0].Name
	if name == "" {
		return "", fmt.Errorf("searching name for %s: %w", symbol, ErrMalformedResponse)
	}

	c.nameCache.SetDefault(symbol, name)
	return name, nil
}

// HistoricalPrice fetches the earliest minute-bar price in the window
// [now-lookback, now-lookback+1m]. The window shape mirrors the feed's m1
// history semantics: grab the first available minute bar at the lookback
// horizon.
func (c *Client) HistoricalPrice(ctx context.Context, name string) (decimal.Decimal, error) {
	start := c.now().Add(-c.lookback)
	end := start.Add(time.Minute)

	reqURL := fmt.Sprintf("%s/assets/%s/history?interval=m1&start=%d&end=%d",
		c.baseURL, url.PathEscape(strings.ToLower(name)), start.UnixMilli(), end.UnixMilli())

	var envelope listEnvelope
	if err := c.getJSON(ctx, reqURL, &envelope); err != nil {
		return decimal.Zero, err
	}

	if len(envelope.Data) == 0 {
		return decimal.Zero, fmt.Errorf("history for %s: %w", name, ErrNotFound)
	}
	return parsePrice(envelope.Data[0].PriceUSD)
}

// getJSON issues a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", ErrFeedUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// parsePrice converts the feed's string-encoded price into a decimal.
func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: missing priceUsd", ErrMalformedResponse)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad priceUsd %q", ErrMalformedResponse, raw)
	}
	return price, nil
}
