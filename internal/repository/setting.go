package repository

import (
	"context"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Upsert(ctx context.Context, setting *entity.Setting) error
	Get(ctx context.Context, key entity.SettingKey) (*entity.Setting, error)
	GetAll(ctx context.Context) ([]entity.Setting, error)
}

type settingRepository struct{}

func NewSettingRepository() *settingRepository {
	return &settingRepository{}
}

func (r *settingRepository) Upsert(ctx context.Context, setting *entity.Setting) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by"}),
	}).Create(setting).Error
}

func (r *settingRepository) Get(ctx context.Context, key entity.SettingKey) (*entity.Setting, error) {
	var result entity.Setting
	if err := xcontext.DB(ctx).Take(&result, "`key`=?", key).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *settingRepository) GetAll(ctx context.Context) ([]entity.Setting, error) {
	var result []entity.Setting
	if err := xcontext.DB(ctx).Order("`key` ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
