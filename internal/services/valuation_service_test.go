package services

import (
	"testing"
	"time"

	"cryptowallet/internal/models"
	"cryptowallet/internal/testutil"
)

func TestComputeStatistics(t *testing.T) {
	t.Run("btc_eth_scenario", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewValuationService(NewCurrencyService(db))
		testutil.CreateTestCurrency(t, db, "Bitcoin", "BTC", "35000.00")
		testutil.CreateTestCurrency(t, db, "Ethereum", "ETH", "2200.00")

		wallet := &models.Wallet{Assets: []models.Asset{
			testutil.NewTestAsset(t, "BTC", "1", "30000.00"),
			testutil.NewTestAsset(t, "ETH", "2", "2000.00"),
		}}

		result, err := svc.ComputeStatistics(wallet)
		testutil.AssertNoError(t, err)

		// 1*35000 + 2*2200 = 39400.00
		testutil.AssertDecimal(t, result.TotalValue, "39400.00")
		if result.BestAsset != "BTC" {
			t.Errorf("expected best asset BTC, got %s", result.BestAsset)
		}
		testutil.AssertDecimal(t, result.BestPerformance, "17.00")
		if result.WorstAsset != "ETH" {
			t.Errorf("expected worst asset ETH, got %s", result.WorstAsset)
		}
		testutil.AssertDecimal(t, result.WorstPerformance, "10.00")
		if result.ComputedAt.IsZero() || time.Since(result.ComputedAt) > time.Minute {
			t.Error("computed_at should be the time of computation")
		}
	})

	t.Run("order_independent_selection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewValuationService(NewCurrencyService(db))
		testutil.CreateTestCurrency(t, db, "Bitcoin", "BTC", "35000.00")
		testutil.CreateTestCurrency(t, db, "Ethereum", "ETH", "2200.00")

		// Same holdings, reversed submission order.
		wallet := &models.Wallet{Assets: []models.Asset{
			testutil.NewTestAsset(t, "ETH", "2", "2000.00"),
			testutil.NewTestAsset(t, "BTC", "1", "30000.00"),
		}}

		result, err := svc.ComputeStatistics(wallet)
		testutil.AssertNoError(t, err)

		if result.BestAsset != "BTC" {
			t.Errorf("expected best asset BTC regardless of order, got %s", result.BestAsset)
		}
		if result.WorstAsset != "ETH" {
			t.Errorf("expected worst asset ETH regardless of order, got %s", result.WorstAsset)
		}
	})

	t.Run("tie_keeps_first_occurrence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewValuationService(NewCurrencyService(db))
		// Both assets perform exactly +10%.
		testutil.CreateTestCurrency(t, db, "Bitcoin", "BTC", "33000.00")
		testutil.CreateTestCurrency(t, db, "Ethereum", "ETH", "2200.00")

		wallet := &models.Wallet{Assets: []models.Asset{
			testutil.NewTestAsset(t, "ETH", "1", "2000.00"),
			testutil.NewTestAsset(t, "BTC", "1", "30000.00"),
		}}

		result, err := svc.ComputeStatistics(wallet)
		testutil.AssertNoError(t, err)

		if result.BestAsset != "ETH" || result.WorstAsset != "ETH" {
			t.Errorf("ties should keep first occurrence, got best=%s worst=%s",
				result.BestAsset, result.WorstAsset)
		}
	})

	t.Run("rounds_half_up", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewValuationService(NewCurrencyService(db))
		// ratio 0.165 rounds half-up to 0.17, i.e. 17%.
		testutil.CreateTestCurrency(t, db, "Bitcoin", "BTC", "34950.00")

		wallet := &models.Wallet{Assets: []models.Asset{
			testutil.NewTestAsset(t, "BTC", "0.125", "30000.00"),
		}}

		result, err := svc.ComputeStatistics(wallet)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, result.BestPerformance, "17.00")
		testutil.AssertDecimal(t, result.TotalValue, "4368.75")
	})

	t.Run("empty_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewValuationService(NewCurrencyService(db))

		_, err := svc.ComputeStatistics(&models.Wallet{})
		testutil.AssertAppError(t, err, "EMPTY_WALLET")
	})

	t.Run("unresolved_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewValuationService(NewCurrencyService(db))
		testutil.CreateTestCurrency(t, db, "Bitcoin", "BTC", "35000.00")

		wallet := &models.Wallet{Assets: []models.Asset{
			testutil.NewTestAsset(t, "BTC", "1", "30000.00"),
			testutil.NewTestAsset(t, "DOGE", "100", "0.10"),
		}}

		_, err := svc.ComputeStatistics(wallet)
		testutil.AssertAppError(t, err, "UNRESOLVED_CURRENCY")
	})

	t.Run("zero_purchase_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewValuationService(NewCurrencyService(db))
		testutil.CreateTestCurrency(t, db, "Bitcoin", "BTC", "35000.00")

		wallet := &models.Wallet{Assets: []models.Asset{
			testutil.NewTestAsset(t, "BTC", "1", "0"),
		}}

		_, err := svc.ComputeStatistics(wallet)
		testutil.AssertAppError(t, err, "INVALID_PURCHASE_PRICE")
	})

	t.Run("nil_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewValuationService(NewCurrencyService(db))

		_, err := svc.ComputeStatistics(nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
