package entity

import "github.com/questx-lab/boxmaster/pkg/enum"

type Currency string

var (
	BaseCurrency      = enum.New(Currency("base"))
	SecondaryCurrency = enum.New(Currency("secondary"))
)

// BoxOrder is one slot of the buyer queue of a collection.
type BoxOrder struct {
	CollectionID int64      `gorm:"primaryKey;autoIncrement:false"`
	Collection   Collection `gorm:"foreignKey:CollectionID"`
	BoxIndex     int        `gorm:"primaryKey;autoIncrement:false"`

	Buyer    string `gorm:"index"`
	Currency Currency
}
