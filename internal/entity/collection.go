package entity

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Collection struct {
	SerialBase

	Owner               string `gorm:"index"`
	Name                string
	Size                int
	CommissionRate      int
	WillAcceptSecondary bool
	Collaborators       Array[string] `gorm:"type:text"`

	IsPublished bool
	PublishedAt sql.NullTime

	// FeeRate is the protocol fee rate in force when the collection was
	// published.
	FeeRate int
	// PaymentToken is the base token in force when the collection was
	// published, boxes are paid and refunded in this token.
	PaymentToken string

	TotalPrice   decimal.Decimal `gorm:"type:varchar(80)"`
	AveragePrice decimal.Decimal `gorm:"type:varchar(80)"`
	Fee          decimal.Decimal `gorm:"type:varchar(80)"`
	Commission   decimal.Decimal `gorm:"type:varchar(80)"`

	SoldCount int

	// Seed is the hex encoded random word, it is empty until the randomness
	// oracle delivers it.
	Seed string

	IsFeeClaimed        bool
	IsCommissionClaimed bool
}

func (c *Collection) IsSoldOut() bool {
	return c.IsPublished && c.SoldCount == c.Size
}

// CollectionItem is a member of a collection. Items are ordered by ID, the
// rank of an item in this order is its box index.
type CollectionItem struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	CollectionID int64      `gorm:"index"`
	Collection   Collection `gorm:"foreignKey:CollectionID"`

	AssetID int64 `gorm:"uniqueIndex"`
	Asset   Asset `gorm:"foreignKey:AssetID"`

	Depositor string
	Price     decimal.Decimal `gorm:"type:varchar(80)"`
	IsClaimed bool
}
