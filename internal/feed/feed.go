// Package feed provides an HTTP client for the CoinCap price API.
// All operations are read-only against the external feed and distinguish
// transport/status failures, malformed payloads, and empty result sets so
// callers can decide which failures are skippable.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel errors returned by the client. Callers match them with errors.Is.
var (
	// ErrFeedUnavailable indicates a transport error or non-success status
	// from the external feed.
	ErrFeedUnavailable = errors.New("price feed unavailable")

	// ErrMalformedResponse indicates a response that parsed as JSON but is
	// missing the expected price or name fields.
	ErrMalformedResponse = errors.New("malformed feed response")

	// ErrNotFound indicates an empty result set for a search or history
	// lookup.
	ErrNotFound = errors.New("no feed data found")
)

// PriceFeed defines the lookups the resolver and refresh scheduler need.
type PriceFeed interface {
	// SpotPrice fetches the current USD price for a canonical identifier.
	SpotPrice(ctx context.Context, name string) (decimal.Decimal, error)

	// SearchName resolves a ticker symbol to the feed's canonical name.
	SearchName(ctx context.Context, symbol string) (string, error)

	// HistoricalPrice fetches the earliest minute-bar price inside the
	// client's configured lookback window.
	HistoricalPrice(ctx context.Context, name string) (decimal.Decimal, error)
}

// clock is swapped in tests to pin the historical window.
type clock func() time.Time
