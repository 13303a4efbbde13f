package services

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "cryptowallet/internal/errors"
	"cryptowallet/internal/models"
)

// hundred scales the performance ratio into a percentage.
var hundred = decimal.NewFromInt(100)

// valuationService computes wallet statistics from the currency registry.
type valuationService struct {
	currencies CurrencyServicer
}

// NewValuationService creates a new ValuationServicer.
func NewValuationService(currencies CurrencyServicer) ValuationServicer {
	return &valuationService{currencies: currencies}
}

// ComputeStatistics calculates the wallet's total value and best/worst
// performing assets against the latest registered prices.
//
// Preconditions, each a hard failure with no partial result:
//   - the wallet must hold at least one asset,
//   - every asset symbol must already be registered (the resolver runs
//     before valuation),
//   - every purchase price must be positive.
func (s *valuationService) ComputeStatistics(wallet *models.Wallet) (*ValuationResult, error) {
	if wallet == nil {
		return nil, apperrors.ErrInvalidInput
	}
	assets := wallet.Assets
	if len(assets) == 0 {
		return nil, apperrors.ErrEmptyWallet
	}

	prices, err := s.priceMap(assets)
	if err != nil {
		return nil, err
	}

	totalValue := decimal.Zero
	var best, worst *models.Asset
	var bestPerf, worstPerf decimal.Decimal

	for i := range assets {
		asset := &assets[i]
		latest := prices[asset.Symbol]

		perf, err := performance(asset, latest)
		if err != nil {
			return nil, err
		}
		totalValue = totalValue.Add(asset.Quantity.Mul(latest))

		// Strict comparisons keep the first occurrence on ties, so input
		// ordering decides equal performers deterministically.
		if best == nil || perf.GreaterThan(bestPerf) {
			best, bestPerf = asset, perf
		}
		if worst == nil || perf.LessThan(worstPerf) {
			worst, worstPerf = asset, perf
		}
	}

	return &ValuationResult{
		TotalValue:       totalValue.Round(2),
		BestAsset:        best.Symbol,
		BestPerformance:  bestPerf,
		WorstAsset:       worst.Symbol,
		WorstPerformance: worstPerf,
		ComputedAt:       time.Now(),
	}, nil
}

// priceMap fetches the latest price for every asset symbol, failing when
// any symbol lacks a registry entry.
func (s *valuationService) priceMap(assets []models.Asset) (map[string]decimal.Decimal, error) {
	symbols := make([]string, 0, len(assets))
	for _, a := range assets {
		symbols = append(symbols, a.Symbol)
	}

	currencies, err := s.currencies.GetBySymbols(symbols)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(currencies))
	for _, c := range currencies {
		prices[c.Symbol] = c.LatestPrice
	}

	for _, symbol := range symbols {
		if _, ok := prices[symbol]; !ok {
			return nil, apperrors.WithMessage(apperrors.ErrUnresolvedCurrency,
				"No registered price for symbol "+symbol)
		}
	}
	return prices, nil
}

// performance returns the percentage change from purchase price to latest
// price. The division is carried out at 2 decimal places, rounding half up,
// before scaling to a percentage.
func performance(asset *models.Asset, latest decimal.Decimal) (decimal.Decimal, error) {
	if asset.PurchasePrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidPurchasePrice,
			"Purchase price for "+asset.Symbol+" must be greater than zero")
	}
	return latest.Sub(asset.PurchasePrice).
		DivRound(asset.PurchasePrice, 2).
		Mul(hundred), nil
}
