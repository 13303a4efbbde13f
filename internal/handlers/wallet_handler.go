package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cryptowallet/internal/errors"
	"cryptowallet/internal/models"
	"cryptowallet/internal/services"
	"cryptowallet/internal/uuid"
)

// WalletHandler handles wallet-related requests.
type WalletHandler struct {
	walletService services.WalletServicer
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService services.WalletServicer) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// AssetRequest is a single holding in a wallet submission.
type AssetRequest struct {
	Symbol   string          `json:"symbol" binding:"required,ticker"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

// CreateWalletRequest represents the wallet submission payload.
type CreateWalletRequest struct {
	Assets []AssetRequest `json:"assets" binding:"required,min=1,dive"`
}

// CreateWalletResponse carries the new wallet ID and its valuation.
type CreateWalletResponse struct {
	WalletID   string                    `json:"wallet_id"`
	Statistics *services.ValuationResult `json:"statistics"`
}

// CreateWallet handles wallet submission.
// @Summary     Register wallet
// @Description Register a wallet of crypto holdings and return its valuation statistics
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Param       request body CreateWalletRequest true "Wallet holdings"
// @Success     201 {object} CreateWalletResponse "Wallet registered"
// @Failure     400 {object} ErrorResponse "Invalid input or empty wallet"
// @Failure     422 {object} ErrorResponse "Unresolved currency"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets [post]
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	assets := make([]models.Asset, 0, len(req.Assets))
	for _, a := range req.Assets {
		if a.Quantity.IsNegative() || a.Price.IsNegative() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"Quantity and price must be non-negative"))
			return
		}
		assets = append(assets, models.Asset{
			Symbol:        a.Symbol,
			Quantity:      a.Quantity,
			PurchasePrice: a.Price,
		})
	}

	wallet, result, err := h.walletService.RegisterWallet(c.Request.Context(), assets)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateWalletResponse{
		WalletID:   wallet.ID,
		Statistics: result,
	})
}

// GetWallet handles fetching a stored wallet by ID.
// @Summary     Get wallet
// @Description Fetch a stored wallet and its assets by ID
// @Tags        wallets
// @Produce     json
// @Param       id path string true "Wallet ID"
// @Success     200 {object} models.Wallet "Wallet"
// @Failure     400 {object} ErrorResponse "Invalid wallet ID"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wallets/{id} [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	id := c.Param("id")
	if !uuid.IsValid(id) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid wallet ID"))
		return
	}

	wallet, err := h.walletService.GetWalletByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallet)
}
