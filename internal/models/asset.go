package models

import "github.com/shopspring/decimal"

// Asset represents a single holding inside a wallet: how much of a
// currency was bought and at what price. Monetary columns are numeric
// so decimal math never goes through binary floating point.
type Asset struct {
	Base
	WalletID      string          `gorm:"type:uuid;not null;index" json:"-"`
	Symbol        string          `gorm:"not null" json:"symbol"`
	Quantity      decimal.Decimal `gorm:"type:numeric;not null" json:"quantity"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric;not null" json:"purchase_price"`
}
