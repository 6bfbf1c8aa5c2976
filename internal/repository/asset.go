package repository

import (
	"context"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"gorm.io/gorm"
)

type AssetRepository interface {
	Create(ctx context.Context, asset *entity.Asset) error
	GetByID(ctx context.Context, id int64) (*entity.Asset, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Asset, error)
	AssignToCollection(ctx context.Context, id, collectionID int64) error
	Release(ctx context.Context, id int64) error
	ReleaseByCollectionID(ctx context.Context, collectionID int64) ([]entity.Asset, error)
	MarkWithdrawn(ctx context.Context, id int64) error
}

type assetRepository struct{}

func NewAssetRepository() *assetRepository {
	return &assetRepository{}
}

func (r *assetRepository) Create(ctx context.Context, asset *entity.Asset) error {
	return xcontext.DB(ctx).Create(asset).Error
}

func (r *assetRepository) GetByID(ctx context.Context, id int64) (*entity.Asset, error) {
	var result entity.Asset
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *assetRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.Asset, error) {
	var result []entity.Asset
	if err := xcontext.DB(ctx).Order("id ASC").Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// AssignToCollection only succeeds when the asset is free and still in
// custody.
func (r *assetRepository) AssignToCollection(ctx context.Context, id, collectionID int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Asset{}).
		Where("id=? AND collection_id IS NULL AND is_withdrawn=?", id, false).
		Update("collection_id", collectionID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Release returns custody of an asset to its depositor and drops its
// collection reference.
func (r *assetRepository) Release(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Asset{}).
		Where("id=? AND is_withdrawn=?", id, false).
		Updates(map[string]any{"collection_id": nil, "is_withdrawn": true})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ReleaseByCollectionID releases every asset of a collection still in custody
// and returns them as they were before the release.
func (r *assetRepository) ReleaseByCollectionID(ctx context.Context, collectionID int64) ([]entity.Asset, error) {
	var result []entity.Asset
	err := xcontext.DB(ctx).
		Where("collection_id=? AND is_withdrawn=?", collectionID, false).
		Order("id ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(result))
	for _, a := range result {
		ids = append(ids, a.ID)
	}

	err = xcontext.DB(ctx).Model(&entity.Asset{}).
		Where("id IN (?)", ids).
		Updates(map[string]any{"collection_id": nil, "is_withdrawn": true}).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// MarkWithdrawn only succeeds for an asset which is not yet withdrawn and is
// not a member of any collection.
func (r *assetRepository) MarkWithdrawn(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Asset{}).
		Where("id=? AND collection_id IS NULL AND is_withdrawn=?", id, false).
		Update("is_withdrawn", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
