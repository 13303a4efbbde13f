package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "cryptowallet/internal/errors"
	"cryptowallet/internal/models"
)

// walletService handles wallet registration and lookup.
type walletService struct {
	db        *gorm.DB
	resolver  CurrencyResolver
	valuation ValuationServicer
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB, resolver CurrencyResolver, valuation ValuationServicer) WalletServicer {
	return &walletService{db: db, resolver: resolver, valuation: valuation}
}

// RegisterWallet registers a submitted wallet: unknown symbols are resolved
// best-effort, statistics are computed against the registry, and only then
// are the wallet and its assets persisted in one transaction. A valuation
// failure leaves nothing behind: the caller gets a complete result or a
// hard error, never a partial wallet.
func (s *walletService) RegisterWallet(ctx context.Context, assets []models.Asset) (*models.Wallet, *ValuationResult, error) {
	if len(assets) == 0 {
		return nil, nil, apperrors.ErrEmptyWallet
	}

	symbols := make([]string, 0, len(assets))
	for _, a := range assets {
		symbols = append(symbols, a.Symbol)
	}
	s.resolver.ResolveAndRegister(ctx, symbols)

	wallet := &models.Wallet{Assets: assets}
	result, err := s.valuation.ComputeStatistics(wallet)
	if err != nil {
		return nil, nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(wallet).Error
	})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return wallet, result, nil
}

// GetWalletByID returns a stored wallet with its assets preloaded.
func (s *walletService) GetWalletByID(id string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Preload("Assets").First(&wallet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}
