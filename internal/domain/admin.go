package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/enum"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"gorm.io/gorm"
)

type AdminDomain interface {
	SetFeeTo(context.Context, *model.SetAddressRequest) (*model.SetAddressResponse, error)
	SetBaseToken(context.Context, *model.SetAddressRequest) (*model.SetAddressResponse, error)
	SetSecondaryToken(context.Context, *model.SetAddressRequest) (*model.SetAddressResponse, error)
	SetRandomnessOracle(context.Context, *model.SetAddressRequest) (*model.SetAddressResponse, error)
	SeedSettings(context.Context) error
}

type adminDomain struct {
	settingRepo repository.SettingRepository
}

func NewAdminDomain(settingRepo repository.SettingRepository) *adminDomain {
	return &adminDomain{settingRepo: settingRepo}
}

func (d *adminDomain) SetFeeTo(
	ctx context.Context, req *model.SetAddressRequest,
) (*model.SetAddressResponse, error) {
	return d.set(ctx, entity.SettingFeeTo, req.Address)
}

func (d *adminDomain) SetBaseToken(
	ctx context.Context, req *model.SetAddressRequest,
) (*model.SetAddressResponse, error) {
	return d.set(ctx, entity.SettingBaseToken, req.Address)
}

func (d *adminDomain) SetSecondaryToken(
	ctx context.Context, req *model.SetAddressRequest,
) (*model.SetAddressResponse, error) {
	return d.set(ctx, entity.SettingSecondaryToken, req.Address)
}

func (d *adminDomain) SetRandomnessOracle(
	ctx context.Context, req *model.SetAddressRequest,
) (*model.SetAddressResponse, error) {
	return d.set(ctx, entity.SettingRandomnessOracle, req.Address)
}

// SeedSettings stores the addresses of the configuration file for the keys
// which were never set.
func (d *adminDomain) SeedSettings(ctx context.Context) error {
	for _, name := range enum.Names[entity.SettingKey]() {
		key := entity.SettingKey(name)
		_, err := d.settingRepo.Get(ctx, key)
		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		value := defaultSetting(ctx, key)
		if value == "" {
			continue
		}

		if err := d.settingRepo.Upsert(ctx, &entity.Setting{Key: key, Value: value}); err != nil {
			return err
		}
	}

	return nil
}

func (d *adminDomain) set(
	ctx context.Context, key entity.SettingKey, value string,
) (*model.SetAddressResponse, error) {
	caller, err := requestAddress(ctx)
	if err != nil {
		return nil, err
	}

	if !sameAddress(caller, xcontext.Configs(ctx).Master.Admin) {
		xcontext.Logger(ctx).Debugf("%s is not the admin", caller)
		return nil, errorx.New(errorx.PermissionDenied, "Only the admin can change settings")
	}

	address, err := normalizeAddress(value)
	if err != nil {
		return nil, err
	}

	err = d.settingRepo.Upsert(ctx, &entity.Setting{Key: key, Value: address, UpdatedBy: caller})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update setting %s: %v", key, err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Setting %s is changed to %s by %s", key, address, caller)
	return &model.SetAddressResponse{}, nil
}
