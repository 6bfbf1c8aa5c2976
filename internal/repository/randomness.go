package repository

import (
	"context"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"gorm.io/gorm"
)

type RandomnessRepository interface {
	Create(ctx context.Context, req *entity.RandomnessRequest) error
	GetByID(ctx context.Context, id string) (*entity.RandomnessRequest, error)
	Fulfill(ctx context.Context, id, randomWord, fulfilledBy string) error
	CancelPendingByCollectionID(ctx context.Context, collectionID int64) error
	GetPending(ctx context.Context, limit int) ([]entity.RandomnessRequest, error)
}

type randomnessRepository struct{}

func NewRandomnessRepository() *randomnessRepository {
	return &randomnessRepository{}
}

func (r *randomnessRepository) Create(ctx context.Context, req *entity.RandomnessRequest) error {
	return xcontext.DB(ctx).Omit("Collection").Create(req).Error
}

func (r *randomnessRepository) GetByID(ctx context.Context, id string) (*entity.RandomnessRequest, error) {
	var result entity.RandomnessRequest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *randomnessRepository) Fulfill(ctx context.Context, id, randomWord, fulfilledBy string) error {
	tx := xcontext.DB(ctx).Model(&entity.RandomnessRequest{}).
		Where("id=? AND status=?", id, entity.RandomnessPending).
		Updates(map[string]any{
			"status":       entity.RandomnessFulfilled,
			"random_word":  randomWord,
			"fulfilled_by": fulfilledBy,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *randomnessRepository) CancelPendingByCollectionID(ctx context.Context, collectionID int64) error {
	return xcontext.DB(ctx).Model(&entity.RandomnessRequest{}).
		Where("collection_id=? AND status=?", collectionID, entity.RandomnessPending).
		Update("status", entity.RandomnessCancelled).Error
}

func (r *randomnessRepository) GetPending(ctx context.Context, limit int) ([]entity.RandomnessRequest, error) {
	var result []entity.RandomnessRequest
	err := xcontext.DB(ctx).Where("status=?", entity.RandomnessPending).
		Order("created_at ASC").Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
