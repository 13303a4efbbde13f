package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the system-wide price cache entry for a ticker symbol.
// One row per distinct symbol across all wallets; symbol is the natural
// key even though a surrogate UUID also exists. Rows are created the
// first time a symbol is seen and updated by the refresh scheduler.
type Currency struct {
	Base
	Name        string          `gorm:"not null" json:"name"`
	Symbol      string          `gorm:"not null;uniqueIndex:uq_currencies_symbol" json:"symbol"`
	LatestPrice decimal.Decimal `gorm:"type:numeric;not null" json:"latest_price"`
	LastUpdated time.Time       `json:"last_updated"`
}
