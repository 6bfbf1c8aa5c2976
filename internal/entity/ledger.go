package entity

import (
	"github.com/shopspring/decimal"
)

// The following tables back the in-process token ledger and asset registry.
// They are used in local mode and by tests in place of on-chain contracts.

type TokenBalance struct {
	Token   string          `gorm:"primaryKey"`
	Owner   string          `gorm:"primaryKey"`
	Balance decimal.Decimal `gorm:"type:varchar(80)"`
}

type TokenAllowance struct {
	Token   string          `gorm:"primaryKey"`
	Owner   string          `gorm:"primaryKey"`
	Spender string          `gorm:"primaryKey"`
	Amount  decimal.Decimal `gorm:"type:varchar(80)"`
}

type TokenTransfer struct {
	SnowFlakeBase

	Token     string          `gorm:"index"`
	Sender    string          `gorm:"index"`
	Recipient string          `gorm:"index"`
	Amount    decimal.Decimal `gorm:"type:varchar(80)"`
}

type AssetOwnership struct {
	TokenAddress string `gorm:"primaryKey"`
	TokenID      string `gorm:"primaryKey"`
	Owner        string `gorm:"index"`
	Approved     string
}
