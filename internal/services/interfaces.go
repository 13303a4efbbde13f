package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"cryptowallet/internal/models"
	"cryptowallet/internal/pagination"
)

// CurrencyServicer is the symbol-keyed registry of tracked currencies.
// It is the shared price cache: the resolver writes first-seen symbols,
// the refresh scheduler rewrites latest prices, and the valuation engine
// reads snapshots. Concurrent writers for the same symbol resolve as
// last-write-wins via the symbol-keyed upsert.
type CurrencyServicer interface {
	GetBySymbol(symbol string) (*models.Currency, error)
	GetBySymbols(symbols []string) ([]models.Currency, error)
	ListCurrencies(page pagination.PageRequest) (*pagination.PageResponse[models.Currency], error)
	All() ([]models.Currency, error)
	Count() (int64, error)
	SaveAll(currencies []models.Currency) error
	UpdatePrice(currencyID string, price decimal.Decimal, at time.Time) error
}

// CurrencyResolver registers first-seen asset symbols in the currency
// registry, best-effort. It never fails the caller: a symbol that cannot
// be resolved is skipped and logged.
type CurrencyResolver interface {
	ResolveAndRegister(ctx context.Context, symbols []string) int
}

// ValuationResult holds the computed statistics for a wallet. It is
// derived data, never persisted.
type ValuationResult struct {
	TotalValue       decimal.Decimal `json:"total_value"`
	BestAsset        string          `json:"best_asset"`
	BestPerformance  decimal.Decimal `json:"best_performance"`
	WorstAsset       string          `json:"worst_asset"`
	WorstPerformance decimal.Decimal `json:"worst_performance"`
	ComputedAt       time.Time       `json:"computed_at"`
}

// ValuationServicer computes wallet statistics from registered prices.
type ValuationServicer interface {
	ComputeStatistics(wallet *models.Wallet) (*ValuationResult, error)
}

// WalletServicer defines the contract for wallet registration and lookup.
type WalletServicer interface {
	RegisterWallet(ctx context.Context, assets []models.Asset) (*models.Wallet, *ValuationResult, error)
	GetWalletByID(id string) (*models.Wallet, error)
}
