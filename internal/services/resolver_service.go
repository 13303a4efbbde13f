package services

import (
	"context"
	"errors"
	"time"

	apperrors "cryptowallet/internal/errors"
	"cryptowallet/internal/feed"
	"cryptowallet/internal/logger"
	"cryptowallet/internal/models"
)

// resolverService registers first-seen currencies: symbol → canonical name
// via the feed's search endpoint, then name → initial price via the
// historical endpoint. Resolution is best-effort per symbol.
type resolverService struct {
	feed       feed.PriceFeed
	currencies CurrencyServicer
}

// NewResolverService creates a new CurrencyResolver.
func NewResolverService(priceFeed feed.PriceFeed, currencies CurrencyServicer) CurrencyResolver {
	return &resolverService{feed: priceFeed, currencies: currencies}
}

// ResolveAndRegister resolves every distinct symbol not yet in the registry
// and bulk-registers the successes in one write. A symbol whose lookup
// fails is logged and skipped; one bad symbol never aborts the rest, and
// the caller never sees an error. Returns the number of newly registered
// currencies.
//
// Already-registered symbols are left untouched: refreshing their price is
// the scheduler's job, not the resolver's.
func (s *resolverService) ResolveAndRegister(ctx context.Context, symbols []string) int {
	log := logger.Get()
	log.Infow("starting currency resolution", "symbols", len(symbols))

	resolved := make([]models.Currency, 0, len(symbols))
	for _, symbol := range dedupe(symbols) {
		currency, err := s.resolveSymbol(ctx, symbol)
		if err != nil {
			log.Errorw("failed to resolve currency, skipping",
				"symbol", symbol,
				"error", err.Error(),
			)
			continue
		}
		if currency != nil {
			resolved = append(resolved, *currency)
		}
	}

	if len(resolved) == 0 {
		log.Infow("no new currencies to register")
		return 0
	}

	if err := s.currencies.SaveAll(resolved); err != nil {
		log.Errorw("failed to save resolved currencies", "error", err.Error())
		return 0
	}

	log.Infow("registered currencies", "count", len(resolved))
	return len(resolved)
}

// resolveSymbol returns a new Currency for an unregistered symbol, nil for
// an already-registered one, or an error when the feed lookups fail.
func (s *resolverService) resolveSymbol(ctx context.Context, symbol string) (*models.Currency, error) {
	_, err := s.currencies.GetBySymbol(symbol)
	if err == nil {
		// Already registered; never re-resolved or overwritten here.
		return nil, nil
	}
	if !errors.Is(err, apperrors.ErrCurrencyNotFound) {
		return nil, err
	}

	name, err := s.feed.SearchName(ctx, symbol)
	if err != nil {
		return nil, err
	}

	price, err := s.feed.HistoricalPrice(ctx, name)
	if err != nil {
		return nil, err
	}

	return &models.Currency{
		Name:        name,
		Symbol:      symbol,
		LatestPrice: price,
		LastUpdated: time.Now(),
	}, nil
}

// dedupe removes duplicate symbols preserving first occurrence.
func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
