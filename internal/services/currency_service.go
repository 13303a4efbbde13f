package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cryptowallet/internal/errors"
	"cryptowallet/internal/models"
	"cryptowallet/internal/pagination"
)

// currencyService is the GORM-backed currency registry.
type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// GetBySymbol returns the currency registered under a ticker symbol.
func (s *currencyService) GetBySymbol(symbol string) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.Where("symbol = ?", symbol).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// GetBySymbols returns registry rows for the given symbol list. Missing
// symbols are simply absent from the result; callers decide whether that
// is an error.
func (s *currencyService) GetBySymbols(symbols []string) ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Where("symbol IN ?", symbols).Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}

// ListCurrencies returns a paginated list of currencies ordered by symbol.
func (s *currencyService) ListCurrencies(page pagination.PageRequest) (*pagination.PageResponse[models.Currency], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Currency{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var currencies []models.Currency
	if err := base.Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(currencies, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// All returns every registered currency. Used by the refresh scheduler.
func (s *currencyService) All() ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Order("symbol ASC").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}

// Count returns the number of registered currencies.
func (s *currencyService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Currency{}).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// SaveAll bulk-upserts currencies keyed by symbol. Two requests racing on
// first registration of the same symbol both succeed; the later write's
// price and name stick (last-write-wins), and the unique index on symbol
// guarantees a single row. An empty slice is a no-op.
func (s *currencyService) SaveAll(currencies []models.Currency) error {
	if len(currencies) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "latest_price", "last_updated", "updated_at"}),
	}).Create(&currencies).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpdatePrice rewrites a currency's latest price and update timestamp.
func (s *currencyService) UpdatePrice(currencyID string, price decimal.Decimal, at time.Time) error {
	result := s.db.Model(&models.Currency{}).
		Where("id = ?", currencyID).
		Updates(map[string]interface{}{
			"latest_price": price,
			"last_updated": at,
		})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCurrencyNotFound
	}
	return nil
}
