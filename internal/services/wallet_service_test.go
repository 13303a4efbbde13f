package services

import (
	"context"
	"testing"

	"cryptowallet/internal/models"
	"cryptowallet/internal/testutil"
)

func TestRegisterWallet(t *testing.T) {
	t.Run("full_flow", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		currencies := NewCurrencyService(db)
		stub := newResolvingFeed(t, map[string]string{"Bitcoin": "35000.00", "Ethereum": "2200.00"})
		svc := NewWalletService(db, NewResolverService(stub, currencies), NewValuationService(currencies))

		assets := []models.Asset{
			testutil.NewTestAsset(t, "BTC", "1", "30000.00"),
			testutil.NewTestAsset(t, "ETH", "2", "2000.00"),
		}
		wallet, result, err := svc.RegisterWallet(context.Background(), assets)
		testutil.AssertNoError(t, err)

		if wallet.ID == "" {
			t.Fatal("expected persisted wallet with generated ID")
		}
		testutil.AssertDecimal(t, result.TotalValue, "39400.00")
		if result.BestAsset != "BTC" || result.WorstAsset != "ETH" {
			t.Errorf("expected best=BTC worst=ETH, got best=%s worst=%s",
				result.BestAsset, result.WorstAsset)
		}

		// Wallet and both assets landed in storage.
		stored, err := svc.GetWalletByID(wallet.ID)
		testutil.AssertNoError(t, err)
		if len(stored.Assets) != 2 {
			t.Errorf("expected 2 stored assets, got %d", len(stored.Assets))
		}
	})

	t.Run("empty_submission", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		currencies := NewCurrencyService(db)
		svc := NewWalletService(db, NewResolverService(&stubFeed{}, currencies), NewValuationService(currencies))

		_, _, err := svc.RegisterWallet(context.Background(), nil)
		testutil.AssertAppError(t, err, "EMPTY_WALLET")
	})

	t.Run("unresolvable_symbol_fails_valuation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		currencies := NewCurrencyService(db)
		// Feed resolves nothing: registration proceeds best-effort, then
		// valuation hits the missing registry entry.
		svc := NewWalletService(db, NewResolverService(&stubFeed{}, currencies), NewValuationService(currencies))

		assets := []models.Asset{testutil.NewTestAsset(t, "BTC", "1", "30000.00")}
		_, _, err := svc.RegisterWallet(context.Background(), assets)
		testutil.AssertAppError(t, err, "UNRESOLVED_CURRENCY")

		// Nothing persisted on a hard valuation failure.
		var walletCount int64
		db.Model(&models.Wallet{}).Count(&walletCount)
		if walletCount != 0 {
			t.Errorf("expected no wallets persisted, got %d", walletCount)
		}
		var assetCount int64
		db.Model(&models.Asset{}).Count(&assetCount)
		if assetCount != 0 {
			t.Errorf("expected no assets persisted, got %d", assetCount)
		}
	})

	t.Run("partial_resolution_still_fails_hard", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		currencies := NewCurrencyService(db)
		stub := newResolvingFeed(t, map[string]string{"Bitcoin": "35000.00"})
		svc := NewWalletService(db, NewResolverService(stub, currencies), NewValuationService(currencies))

		assets := []models.Asset{
			testutil.NewTestAsset(t, "BTC", "1", "30000.00"),
			testutil.NewTestAsset(t, "DOGE", "100", "0.10"),
		}
		_, _, err := svc.RegisterWallet(context.Background(), assets)
		testutil.AssertAppError(t, err, "UNRESOLVED_CURRENCY")

		// The resolvable symbol was still registered for next time.
		_, err = currencies.GetBySymbol("BTC")
		testutil.AssertNoError(t, err)
	})
}

func TestGetWalletByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		currencies := NewCurrencyService(db)
		svc := NewWalletService(db, NewResolverService(&stubFeed{}, currencies), NewValuationService(currencies))
		wallet := testutil.CreateTestWallet(t, db, testutil.NewTestAsset(t, "BTC", "1", "30000.00"))

		stored, err := svc.GetWalletByID(wallet.ID)
		testutil.AssertNoError(t, err)
		if stored.ID != wallet.ID {
			t.Errorf("expected wallet %s, got %s", wallet.ID, stored.ID)
		}
		if len(stored.Assets) != 1 || stored.Assets[0].Symbol != "BTC" {
			t.Errorf("expected preloaded BTC asset, got %+v", stored.Assets)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		currencies := NewCurrencyService(db)
		svc := NewWalletService(db, NewResolverService(&stubFeed{}, currencies), NewValuationService(currencies))

		_, err := svc.GetWalletByID("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
	})
}
