package models

// Wallet represents a submitted collection of crypto asset holdings.
// The asset list is fixed at creation time; there are no add/remove
// operations on an existing wallet.
type Wallet struct {
	Base
	Assets []Asset `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE" json:"assets"`
}
