package repository

import (
	"context"
	"time"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PublishCollectionData struct {
	PublishedAt  time.Time
	FeeRate      int
	PaymentToken string
	TotalPrice   decimal.Decimal
	AveragePrice decimal.Decimal
	Fee          decimal.Decimal
	Commission   decimal.Decimal
}

type CollectionRepository interface {
	Create(ctx context.Context, collection *entity.Collection) error
	GetByID(ctx context.Context, id int64) (*entity.Collection, error)
	Publish(ctx context.Context, id int64, data PublishCollectionData) error
	Reset(ctx context.Context, id int64) error
	IncreaseSoldCount(ctx context.Context, id int64, count int) error
	SetSeed(ctx context.Context, id int64, seed string) error
	ClaimFee(ctx context.Context, id int64) error
	ClaimCommission(ctx context.Context, id int64) error

	// Items
	CreateItem(ctx context.Context, item *entity.CollectionItem) error
	GetItems(ctx context.Context, collectionID int64) ([]entity.CollectionItem, error)
	CountItems(ctx context.Context, collectionID int64) (int64, error)
	DeleteItem(ctx context.Context, collectionID, assetID int64) error
	DeleteItems(ctx context.Context, collectionID int64) error
	ClaimItem(ctx context.Context, itemID int64) error
}

type collectionRepository struct{}

func NewCollectionRepository() *collectionRepository {
	return &collectionRepository{}
}

func (r *collectionRepository) Create(ctx context.Context, collection *entity.Collection) error {
	return xcontext.DB(ctx).Create(collection).Error
}

func (r *collectionRepository) GetByID(ctx context.Context, id int64) (*entity.Collection, error) {
	var result entity.Collection
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *collectionRepository) Publish(ctx context.Context, id int64, data PublishCollectionData) error {
	tx := xcontext.DB(ctx).Model(&entity.Collection{}).
		Where("id=? AND is_published=?", id, false).
		Updates(map[string]any{
			"is_published":  true,
			"published_at":  data.PublishedAt,
			"fee_rate":      data.FeeRate,
			"payment_token": data.PaymentToken,
			"total_price":   data.TotalPrice,
			"average_price": data.AveragePrice,
			"fee":           data.Fee,
			"commission":    data.Commission,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Reset brings a published collection back to its draft state.
func (r *collectionRepository) Reset(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Collection{}).
		Where("id=? AND is_published=?", id, true).
		Updates(map[string]any{
			"is_published":  false,
			"published_at":  nil,
			"fee_rate":      0,
			"payment_token": "",
			"total_price":   decimal.Zero,
			"average_price": decimal.Zero,
			"fee":           decimal.Zero,
			"commission":    decimal.Zero,
			"sold_count":    0,
			"seed":          "",
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *collectionRepository) IncreaseSoldCount(ctx context.Context, id int64, count int) error {
	tx := xcontext.DB(ctx).Model(&entity.Collection{}).
		Where("id=? AND is_published=? AND sold_count+?<=size", id, true, count).
		Update("sold_count", gorm.Expr("sold_count+?", count))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SetSeed stores the seed once per publication.
func (r *collectionRepository) SetSeed(ctx context.Context, id int64, seed string) error {
	tx := xcontext.DB(ctx).Model(&entity.Collection{}).
		Where("id=? AND is_published=? AND seed=?", id, true, "").
		Update("seed", seed)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *collectionRepository) ClaimFee(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Collection{}).
		Where("id=? AND is_fee_claimed=?", id, false).
		Update("is_fee_claimed", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *collectionRepository) ClaimCommission(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Collection{}).
		Where("id=? AND is_commission_claimed=?", id, false).
		Update("is_commission_claimed", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *collectionRepository) CreateItem(ctx context.Context, item *entity.CollectionItem) error {
	return xcontext.DB(ctx).Omit("Collection", "Asset").Create(item).Error
}

// GetItems returns items ordered by their box index.
func (r *collectionRepository) GetItems(ctx context.Context, collectionID int64) ([]entity.CollectionItem, error) {
	var result []entity.CollectionItem
	err := xcontext.DB(ctx).Where("collection_id=?", collectionID).
		Order("id ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *collectionRepository) CountItems(ctx context.Context, collectionID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.CollectionItem{}).
		Where("collection_id=?", collectionID).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *collectionRepository) DeleteItem(ctx context.Context, collectionID, assetID int64) error {
	tx := xcontext.DB(ctx).
		Where("collection_id=? AND asset_id=?", collectionID, assetID).
		Delete(&entity.CollectionItem{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *collectionRepository) DeleteItems(ctx context.Context, collectionID int64) error {
	return xcontext.DB(ctx).
		Where("collection_id=?", collectionID).
		Delete(&entity.CollectionItem{}).Error
}

func (r *collectionRepository) ClaimItem(ctx context.Context, itemID int64) error {
	tx := xcontext.DB(ctx).Model(&entity.CollectionItem{}).
		Where("id=? AND is_claimed=?", itemID, false).
		Update("is_claimed", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
