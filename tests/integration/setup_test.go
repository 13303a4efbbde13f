package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cryptowallet/internal/feed"
	"cryptowallet/internal/handlers"
	"cryptowallet/internal/logger"
	"cryptowallet/internal/middleware"
	"cryptowallet/internal/models"
	"cryptowallet/internal/scheduler"
	"cryptowallet/internal/services"
	"cryptowallet/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Market *fakeMarket
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Wallet{}, &models.Asset{}, &models.Currency{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// marketAsset is one quotable asset served by the fake market.
type marketAsset struct {
	Name       string
	Spot       string
	Historical string
}

// fakeMarket serves the market data API shape the feed client expects:
// an object envelope for /assets/{id}, array envelopes for search and
// history. Prices can be repointed mid-test.
type fakeMarket struct {
	mu     sync.Mutex
	assets map[string]marketAsset // keyed by ticker symbol
	server *httptest.Server
}

func newFakeMarket(assets map[string]marketAsset) *fakeMarket {
	m := &fakeMarket{assets: assets}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

func (m *fakeMarket) URL() string { return m.server.URL }

func (m *fakeMarket) Close() { m.server.Close() }

// SetSpot repoints an asset's current price.
func (m *fakeMarket) SetSpot(symbol, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	asset := m.assets[symbol]
	asset.Spot = price
	m.assets[symbol] = asset
}

func (m *fakeMarket) lookupBySymbol(symbol string) (marketAsset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	asset, ok := m.assets[strings.ToUpper(symbol)]
	return asset, ok
}

func (m *fakeMarket) lookupByID(id string) (marketAsset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, asset := range m.assets {
		if strings.ToLower(asset.Name) == id {
			return asset, true
		}
	}
	return marketAsset{}, false
}

func (m *fakeMarket) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/assets":
		asset, ok := m.lookupBySymbol(r.URL.Query().Get("search"))
		if !ok {
			fmt.Fprint(w, `{"data":[]}`)
			return
		}
		fmt.Fprintf(w, `{"data":[{"name":%q,"priceUsd":%q}]}`, asset.Name, asset.Spot)

	case strings.HasSuffix(r.URL.Path, "/history"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/assets/"), "/history")
		asset, ok := m.lookupByID(id)
		if !ok {
			fmt.Fprint(w, `{"data":[]}`)
			return
		}
		fmt.Fprintf(w, `{"data":[{"priceUsd":%q}]}`, asset.Historical)

	default:
		asset, ok := m.lookupByID(strings.TrimPrefix(r.URL.Path, "/assets/"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"not found"}`)
			return
		}
		fmt.Fprintf(w, `{"data":{"name":%q,"priceUsd":%q}}`, asset.Name, asset.Spot)
	}
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a fake market server.
func setupApp(t *testing.T, assets map[string]marketAsset) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	market := newFakeMarket(assets)
	t.Cleanup(market.Close)

	priceFeed := feed.NewClient(market.URL(), &http.Client{Timeout: 2 * time.Second}, time.Minute)

	// Services
	currencyService := services.NewCurrencyService(db)
	resolverService := services.NewResolverService(priceFeed, currencyService)
	valuationService := services.NewValuationService(currencyService)
	walletService := services.NewWalletService(db, resolverService, valuationService)

	// Handlers. Batch size 1 keeps refresh writes sequential, which the
	// shared-cache SQLite test database requires.
	refreshScheduler := scheduler.New(priceFeed, currencyService, time.Hour, 1)
	walletHandler := handlers.NewWalletHandler(walletService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService, refreshScheduler)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	wallets := v1.Group("/wallets")
	wallets.POST("", walletHandler.CreateWallet)
	wallets.GET("/:id", walletHandler.GetWallet)

	currencies := v1.Group("/currencies")
	currencies.GET("", currencyHandler.ListCurrencies)
	currencies.GET("/:symbol", currencyHandler.GetCurrency)
	currencies.POST("/refresh", currencyHandler.RefreshPrices)

	return &testApp{DB: db, Router: router, Market: market}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// assertPrice compares a JSON price field against an expected decimal value,
// ignoring scale differences introduced by the database round trip.
func assertPrice(t *testing.T, got interface{}, want string) {
	t.Helper()
	raw, ok := got.(string)
	if !ok {
		t.Fatalf("expected string price, got %T (%v)", got, got)
	}
	gotDec, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("bad price %q: %v", raw, err)
	}
	if !gotDec.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected price %s, got %s", want, raw)
	}
}
