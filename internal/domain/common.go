package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/lock"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"gorm.io/gorm"
)

func normalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", errorx.New(errorx.BadRequest, "Invalid address %s", address)
	}

	return common.HexToAddress(address).Hex(), nil
}

func sameAddress(a, b string) bool {
	if !common.IsHexAddress(a) || !common.IsHexAddress(b) {
		return false
	}

	return common.HexToAddress(a) == common.HexToAddress(b)
}

func requestAddress(ctx context.Context) (string, error) {
	caller := xcontext.RequestUserID(ctx)
	if caller == "" {
		return "", errorx.New(errorx.Unauthenticated, "Unauthenticated")
	}

	address, err := normalizeAddress(caller)
	if err != nil {
		return "", errorx.New(errorx.Unauthenticated, "Invalid caller address")
	}

	return address, nil
}

func masterAddress(ctx context.Context) string {
	address, err := normalizeAddress(xcontext.Configs(ctx).Master.Address)
	if err != nil {
		return xcontext.Configs(ctx).Master.Address
	}

	return address
}

// settingReader resolves administrative addresses, values set through the
// admin endpoints take precedence over the configuration file.
type settingReader struct {
	settingRepo repository.SettingRepository
}

func newSettingReader(settingRepo repository.SettingRepository) *settingReader {
	return &settingReader{settingRepo: settingRepo}
}

func (r *settingReader) Get(ctx context.Context, key entity.SettingKey) (string, error) {
	setting, err := r.settingRepo.Get(ctx, key)
	if err == nil {
		return setting.Value, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get setting %s: %v", key, err)
		return "", errorx.Unknown
	}

	return defaultSetting(ctx, key), nil
}

func defaultSetting(ctx context.Context, key entity.SettingKey) string {
	cfg := xcontext.Configs(ctx).Master
	switch key {
	case entity.SettingFeeTo:
		return cfg.FeeTo
	case entity.SettingBaseToken:
		return cfg.BaseToken
	case entity.SettingSecondaryToken:
		return cfg.SecondaryToken
	case entity.SettingRandomnessOracle:
		return cfg.RandomnessOracle
	}

	return ""
}

func lockCollection(ctx context.Context, locker lock.Locker, collectionID int64) (func(), error) {
	unlock, err := locker.Lock(ctx, fmt.Sprintf("collection:%d", collectionID))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot lock collection %d: %v", collectionID, err)
		return nil, errorx.New(errorx.Unavailable, "Collection is busy, please try again")
	}

	return unlock, nil
}

func getCollection(
	ctx context.Context, collectionRepo repository.CollectionRepository, id int64,
) (*entity.Collection, error) {
	collection, err := collectionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found collection")
		}

		xcontext.Logger(ctx).Errorf("Cannot get collection: %v", err)
		return nil, errorx.Unknown
	}

	return collection, nil
}

func getAsset(ctx context.Context, assetRepo repository.AssetRepository, id int64) (*entity.Asset, error) {
	asset, err := assetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found asset")
		}

		xcontext.Logger(ctx).Errorf("Cannot get asset: %v", err)
		return nil, errorx.Unknown
	}

	return asset, nil
}
