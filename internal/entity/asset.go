package entity

import "database/sql"

// Asset is a unique token held in custody by the master on behalf of its
// depositor.
type Asset struct {
	SerialBase

	TokenAddress string `gorm:"index:idx_assets_token"`
	TokenID      string `gorm:"index:idx_assets_token"`
	Depositor    string `gorm:"index"`

	// CollectionID only mirrors the membership stored in CollectionItem, the
	// collection is the source of truth.
	CollectionID sql.NullInt64 `gorm:"index"`

	IsWithdrawn bool
}
