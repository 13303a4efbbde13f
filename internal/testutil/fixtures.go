package testutil

import (
	"testing"
	"time"

	"cryptowallet/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Dec parses a decimal literal, failing the test on malformed input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

// CreateTestCurrency registers a currency with the given symbol and price.
func CreateTestCurrency(t *testing.T, db *gorm.DB, name, symbol, price string) *models.Currency {
	t.Helper()

	currency := &models.Currency{
		Name:        name,
		Symbol:      symbol,
		LatestPrice: Dec(t, price),
		LastUpdated: time.Now(),
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency %s: %v", symbol, err)
	}
	return currency
}

// NewTestAsset builds an unsaved asset holding.
func NewTestAsset(t *testing.T, symbol, quantity, purchasePrice string) models.Asset {
	t.Helper()

	return models.Asset{
		Symbol:        symbol,
		Quantity:      Dec(t, quantity),
		PurchasePrice: Dec(t, purchasePrice),
	}
}

// CreateTestWallet persists a wallet holding the given assets.
func CreateTestWallet(t *testing.T, db *gorm.DB, assets ...models.Asset) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{Assets: assets}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}
