package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/boxmaster/internal/client"
	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AssetDomain interface {
	DepositAsset(context.Context, *model.DepositAssetRequest) (*model.DepositAssetResponse, error)
	WithdrawAsset(context.Context, *model.WithdrawAssetRequest) (*model.WithdrawAssetResponse, error)
	GetAsset(context.Context, *model.GetAssetRequest) (*model.GetAssetResponse, error)
}

type assetDomain struct {
	assetRepo     repository.AssetRepository
	assetRegistry client.AssetRegistry
}

func NewAssetDomain(
	assetRepo repository.AssetRepository,
	assetRegistry client.AssetRegistry,
) *assetDomain {
	return &assetDomain{
		assetRepo:     assetRepo,
		assetRegistry: assetRegistry,
	}
}

func (d *assetDomain) DepositAsset(
	ctx context.Context, req *model.DepositAssetRequest,
) (*model.DepositAssetResponse, error) {
	caller, err := requestAddress(ctx)
	if err != nil {
		return nil, err
	}

	tokenAddress, err := normalizeAddress(req.TokenAddress)
	if err != nil {
		return nil, err
	}

	tokenID, err := decimal.NewFromString(req.TokenID)
	if err != nil || tokenID.IsNegative() || !tokenID.IsInteger() {
		return nil, errorx.New(errorx.BadRequest, "Invalid token id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	asset := &entity.Asset{
		TokenAddress: tokenAddress,
		TokenID:      tokenID.String(),
		Depositor:    caller,
	}

	if err := d.assetRepo.Create(ctx, asset); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create asset: %v", err)
		return nil, errorx.Unknown
	}

	err = d.assetRegistry.TransferFrom(ctx, asset.TokenAddress, caller, masterAddress(ctx), asset.TokenID)
	if err != nil {
		if errorx.Is(err, errorx.InvalidAsset) {
			return nil, err
		}

		return nil, errorx.New(errorx.InvalidAsset, "Cannot transfer asset to the master")
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Asset %d is deposited by %s", asset.ID, caller)

	return &model.DepositAssetResponse{AssetID: asset.ID}, nil
}

func (d *assetDomain) WithdrawAsset(
	ctx context.Context, req *model.WithdrawAssetRequest,
) (*model.WithdrawAssetResponse, error) {
	caller, err := requestAddress(ctx)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	asset, err := getAsset(ctx, d.assetRepo, req.AssetID)
	if err != nil {
		return nil, err
	}

	if asset.Depositor != caller {
		xcontext.Logger(ctx).Debugf("%s is not the depositor of asset %d", caller, asset.ID)
		return nil, errorx.New(errorx.PermissionDenied, "Only the depositor can withdraw the asset")
	}

	if asset.IsWithdrawn {
		return nil, errorx.New(errorx.BadRequest, "Asset is already withdrawn")
	}

	if asset.CollectionID.Valid {
		return nil, errorx.New(errorx.BadRequest, "Asset is a member of collection %d", asset.CollectionID.Int64)
	}

	if err := d.assetRepo.MarkWithdrawn(ctx, asset.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Asset is not available")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark asset as withdrawn: %v", err)
		return nil, errorx.Unknown
	}

	err = d.assetRegistry.TransferFrom(ctx, asset.TokenAddress, masterAddress(ctx), asset.Depositor, asset.TokenID)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.WithdrawAssetResponse{}, nil
}

func (d *assetDomain) GetAsset(
	ctx context.Context, req *model.GetAssetRequest,
) (*model.GetAssetResponse, error) {
	asset, err := getAsset(ctx, d.assetRepo, req.AssetID)
	if err != nil {
		return nil, err
	}

	return &model.GetAssetResponse{Asset: convertAsset(asset)}, nil
}
