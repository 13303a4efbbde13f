package testutil_test

import (
	"testing"

	"cryptowallet/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"wallets", "assets", "currencies"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	currency := testutil.CreateTestCurrency(t, db, "Bitcoin", "BTC", "35000.00")
	if currency.ID == "" {
		t.Fatal("currency should have a generated ID")
	}
	testutil.AssertDecimal(t, currency.LatestPrice, "35000.00")

	wallet := testutil.CreateTestWallet(t, db,
		testutil.NewTestAsset(t, "BTC", "1", "30000.00"),
		testutil.NewTestAsset(t, "ETH", "2", "2000.00"),
	)
	if wallet.ID == "" {
		t.Fatal("wallet should have a generated ID")
	}
	if len(wallet.Assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(wallet.Assets))
	}
	if wallet.Assets[0].WalletID != wallet.ID {
		t.Errorf("asset should reference its wallet, got %q", wallet.Assets[0].WalletID)
	}
}
