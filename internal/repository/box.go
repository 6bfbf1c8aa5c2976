package repository

import (
	"context"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
)

type BoxRepository interface {
	CreateOrders(ctx context.Context, orders []entity.BoxOrder) error
	GetQueue(ctx context.Context, collectionID int64) ([]entity.BoxOrder, error)
	GetOrder(ctx context.Context, collectionID int64, boxIndex int) (*entity.BoxOrder, error)
	DeleteByCollectionID(ctx context.Context, collectionID int64) error
}

type boxRepository struct{}

func NewBoxRepository() *boxRepository {
	return &boxRepository{}
}

func (r *boxRepository) CreateOrders(ctx context.Context, orders []entity.BoxOrder) error {
	if len(orders) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Omit("Collection").Create(&orders).Error
}

// GetQueue returns the buyer queue ordered by box index.
func (r *boxRepository) GetQueue(ctx context.Context, collectionID int64) ([]entity.BoxOrder, error) {
	var result []entity.BoxOrder
	err := xcontext.DB(ctx).Where("collection_id=?", collectionID).
		Order("box_index ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *boxRepository) GetOrder(ctx context.Context, collectionID int64, boxIndex int) (*entity.BoxOrder, error) {
	var result entity.BoxOrder
	err := xcontext.DB(ctx).
		Take(&result, "collection_id=? AND box_index=?", collectionID, boxIndex).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *boxRepository) DeleteByCollectionID(ctx context.Context, collectionID int64) error {
	return xcontext.DB(ctx).
		Where("collection_id=?", collectionID).
		Delete(&entity.BoxOrder{}).Error
}
