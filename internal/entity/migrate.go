package entity

import (
	"context"

	"github.com/questx-lab/boxmaster/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Asset{},
		&Collection{},
		&CollectionItem{},
		&BoxOrder{},
		&RandomnessRequest{},
		&Setting{},
		&TokenBalance{},
		&TokenAllowance{},
		&TokenTransfer{},
		&AssetOwnership{},
	)
}
