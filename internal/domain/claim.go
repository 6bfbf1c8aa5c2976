package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/boxmaster/internal/client"
	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/lock"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"gorm.io/gorm"
)

type ClaimDomain interface {
	ClaimNFT(context.Context, *model.ClaimNFTRequest) (*model.ClaimNFTResponse, error)
	ClaimFee(context.Context, *model.ClaimFeeRequest) (*model.ClaimFeeResponse, error)
	ClaimCommission(context.Context, *model.ClaimCommissionRequest) (*model.ClaimCommissionResponse, error)
}

type claimDomain struct {
	collectionRepo   repository.CollectionRepository
	assetRepo        repository.AssetRepository
	boxRepo          repository.BoxRepository
	settings         *settingReader
	tokenLedger      client.TokenLedger
	assetRegistry    client.AssetRegistry
	commissionPolicy CommissionPolicy
	locker           lock.Locker
}

func NewClaimDomain(
	collectionRepo repository.CollectionRepository,
	assetRepo repository.AssetRepository,
	boxRepo repository.BoxRepository,
	settingRepo repository.SettingRepository,
	tokenLedger client.TokenLedger,
	assetRegistry client.AssetRegistry,
	commissionPolicy CommissionPolicy,
	locker lock.Locker,
) *claimDomain {
	return &claimDomain{
		collectionRepo:   collectionRepo,
		assetRepo:        assetRepo,
		boxRepo:          boxRepo,
		settings:         newSettingReader(settingRepo),
		tokenLedger:      tokenLedger,
		assetRegistry:    assetRegistry,
		commissionPolicy: commissionPolicy,
		locker:           locker,
	}
}

func (d *claimDomain) ClaimNFT(
	ctx context.Context, req *model.ClaimNFTRequest,
) (*model.ClaimNFTResponse, error) {
	caller, err := requestAddress(ctx)
	if err != nil {
		return nil, err
	}

	unlock, err := lockCollection(ctx, d.locker, req.CollectionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	collection, err := getCollection(ctx, d.collectionRepo, req.CollectionID)
	if err != nil {
		return nil, err
	}

	if !collection.IsPublished {
		return nil, errorx.New(errorx.NotPublished, "Collection is not published")
	}

	if collection.Seed == "" {
		return nil, errorx.New(errorx.PendingRandomness, "Randomness is not delivered yet")
	}

	if !collection.IsSoldOut() {
		return nil, errorx.New(errorx.BadRequest, "Collection is not sold out")
	}

	resolver, err := newWinnerResolver(ctx, d.boxRepo, collection)
	if err != nil {
		return nil, err
	}

	_, winner, err := resolver.Resolve(req.BoxIndex)
	if err != nil {
		return nil, err
	}

	if winner != caller {
		xcontext.Logger(ctx).Debugf("%s is not the winner of box %d", caller, req.BoxIndex)
		return nil, errorx.New(errorx.PermissionDenied, "Only the winner can claim the box")
	}

	items, err := d.collectionRepo.GetItems(ctx, collection.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get collection items: %v", err)
		return nil, errorx.Unknown
	}

	if req.BoxIndex >= len(items) {
		xcontext.Logger(ctx).Errorf("Collection %d has %d items for %d boxes",
			collection.ID, len(items), collection.Size)
		return nil, errorx.Unknown
	}

	item := items[req.BoxIndex]
	if item.IsClaimed {
		return nil, errorx.New(errorx.AlreadyClaimed, "Box is already claimed")
	}

	if err := d.collectionRepo.ClaimItem(ctx, item.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyClaimed, "Box is already claimed")
		}

		xcontext.Logger(ctx).Errorf("Cannot claim item: %v", err)
		return nil, errorx.Unknown
	}

	asset, err := getAsset(ctx, d.assetRepo, item.AssetID)
	if err != nil {
		return nil, err
	}

	if err := d.assetRepo.Release(ctx, asset.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot release asset %d: %v", asset.ID, err)
		return nil, errorx.Unknown
	}

	master := masterAddress(ctx)
	err = d.assetRegistry.TransferFrom(ctx, asset.TokenAddress, master, caller, asset.TokenID)
	if err != nil {
		return nil, err
	}

	payout := depositorPayout(item.Price, collection.FeeRate, collection.CommissionRate)
	err = d.tokenLedger.Transfer(ctx, collection.PaymentToken, master, item.Depositor, payout)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pay depositor %s: %v", item.Depositor, err)
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Box %d of collection %d is claimed by %s", req.BoxIndex, collection.ID, caller)

	return &model.ClaimNFTResponse{
		AssetID:          asset.ID,
		DepositorPayout:  payout,
		DepositorAddress: item.Depositor,
	}, nil
}

func (d *claimDomain) ClaimFee(
	ctx context.Context, req *model.ClaimFeeRequest,
) (*model.ClaimFeeResponse, error) {
	unlock, err := lockCollection(ctx, d.locker, req.CollectionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	collection, err := d.getSoldOutCollection(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}

	if !collection.Fee.IsPositive() {
		return nil, errorx.New(errorx.BadRequest, "Collection has no fee")
	}

	if collection.IsFeeClaimed {
		return nil, errorx.New(errorx.AlreadyClaimed, "Fee is already claimed")
	}

	feeTo, err := d.settings.Get(ctx, entity.SettingFeeTo)
	if err != nil {
		return nil, err
	}

	if feeTo == "" {
		return nil, errorx.New(errorx.Unavailable, "Fee recipient is not configured")
	}

	if err := d.collectionRepo.ClaimFee(ctx, collection.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyClaimed, "Fee is already claimed")
		}

		xcontext.Logger(ctx).Errorf("Cannot claim fee: %v", err)
		return nil, errorx.Unknown
	}

	err = d.tokenLedger.Transfer(ctx, collection.PaymentToken, masterAddress(ctx), feeTo, collection.Fee)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pay fee: %v", err)
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimFeeResponse{FeeTo: feeTo, Amount: collection.Fee}, nil
}

func (d *claimDomain) ClaimCommission(
	ctx context.Context, req *model.ClaimCommissionRequest,
) (*model.ClaimCommissionResponse, error) {
	caller, err := requestAddress(ctx)
	if err != nil {
		return nil, err
	}

	unlock, err := lockCollection(ctx, d.locker, req.CollectionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	collection, err := d.getSoldOutCollection(ctx, req.CollectionID)
	if err != nil {
		return nil, err
	}

	if collection.Owner != caller {
		xcontext.Logger(ctx).Debugf("%s is not the owner of collection %d", caller, collection.ID)
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can claim the commission")
	}

	if collection.IsCommissionClaimed {
		return nil, errorx.New(errorx.AlreadyClaimed, "Commission is already claimed")
	}

	if err := d.collectionRepo.ClaimCommission(ctx, collection.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyClaimed, "Commission is already claimed")
		}

		xcontext.Logger(ctx).Errorf("Cannot claim commission: %v", err)
		return nil, errorx.Unknown
	}

	master := masterAddress(ctx)
	payouts := d.commissionPolicy.Split(collection)
	for _, p := range payouts {
		if !p.Amount.IsPositive() {
			continue
		}

		err := d.tokenLedger.Transfer(ctx, collection.PaymentToken, master, p.Address, p.Amount)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot pay commission to %s: %v", p.Address, err)
			return nil, err
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimCommissionResponse{Payouts: payouts}, nil
}

// getSoldOutCollection gates every claim on a full sale, winners are keyed
// by the queue length and only final once every box is sold.
func (d *claimDomain) getSoldOutCollection(ctx context.Context, id int64) (*entity.Collection, error) {
	collection, err := getCollection(ctx, d.collectionRepo, id)
	if err != nil {
		return nil, err
	}

	if !collection.IsPublished {
		return nil, errorx.New(errorx.NotPublished, "Collection is not published")
	}

	if !collection.IsSoldOut() {
		return nil, errorx.New(errorx.BadRequest, "Collection is not sold out")
	}

	return collection, nil
}
