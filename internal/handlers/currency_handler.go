package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cryptowallet/internal/errors"
	"cryptowallet/internal/pagination"
	"cryptowallet/internal/scheduler"
	"cryptowallet/internal/services"
)

// Refresher runs one synchronous price refresh pass.
type Refresher interface {
	RunOnce(ctx context.Context) scheduler.RunResult
}

// CurrencyHandler handles currency registry requests.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
	refresher       Refresher
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer, refresher Refresher) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService, refresher: refresher}
}

// ListCurrencies returns the tracked currency registry.
// @Summary     List currencies
// @Description List tracked currencies with their latest prices, ordered by symbol
// @Tags        currencies
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Currency] "Currencies"
// @Failure     400 {object} ErrorResponse "Invalid pagination"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [get]
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.currencyService.ListCurrencies(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCurrency returns a single currency by ticker symbol.
// @Summary     Get currency
// @Description Fetch a tracked currency by its ticker symbol
// @Tags        currencies
// @Produce     json
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {object} models.Currency "Currency"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{symbol} [get]
func (h *CurrencyHandler) GetCurrency(c *gin.Context) {
	currency, err := h.currencyService.GetBySymbol(c.Param("symbol"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, currency)
}

// RefreshPrices triggers one synchronous refresh run.
// @Summary     Refresh prices
// @Description Run one price refresh pass over all tracked currencies
// @Tags        currencies
// @Produce     json
// @Success     200 {object} scheduler.RunResult "Run outcome"
// @Router      /currencies/refresh [post]
func (h *CurrencyHandler) RefreshPrices(c *gin.Context) {
	result := h.refresher.RunOnce(c.Request.Context())
	c.JSON(http.StatusOK, result)
}
