package client

import (
	"context"
	"errors"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"gorm.io/gorm"
)

// AssetRegistry moves unique assets of external collections.
type AssetRegistry interface {
	TransferFrom(ctx context.Context, tokenAddress, from, to, tokenID string) error
}

type localAssetRegistry struct {
	ledgerRepo repository.LedgerRepository
}

func NewLocalAssetRegistry(ledgerRepo repository.LedgerRepository) *localAssetRegistry {
	return &localAssetRegistry{ledgerRepo: ledgerRepo}
}

func (r *localAssetRegistry) TransferFrom(ctx context.Context, tokenAddress, from, to, tokenID string) error {
	ownership, err := r.ledgerRepo.GetOwnership(ctx, tokenAddress, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.InvalidAsset, "Asset %s/%s does not exist", tokenAddress, tokenID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get asset ownership: %v", err)
		return errorx.Unknown
	}

	if ownership.Owner != from {
		return errorx.New(errorx.InvalidAsset, "Asset is not owned by %s", from)
	}

	master := xcontext.Configs(ctx).Master.Address
	if from != master && ownership.Approved != master {
		return errorx.New(errorx.InvalidAsset, "Asset is not approved for transfer")
	}

	ownership.Owner = to
	ownership.Approved = ""
	if err := r.ledgerRepo.UpsertOwnership(ctx, ownership); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update asset ownership: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (r *localAssetRegistry) Mint(ctx context.Context, tokenAddress, tokenID, owner string) error {
	return r.ledgerRepo.UpsertOwnership(ctx, &entity.AssetOwnership{
		TokenAddress: tokenAddress,
		TokenID:      tokenID,
		Owner:        owner,
	})
}

func (r *localAssetRegistry) Approve(ctx context.Context, tokenAddress, tokenID, spender string) error {
	ownership, err := r.ledgerRepo.GetOwnership(ctx, tokenAddress, tokenID)
	if err != nil {
		return err
	}

	ownership.Approved = spender
	return r.ledgerRepo.UpsertOwnership(ctx, ownership)
}

func (r *localAssetRegistry) OwnerOf(ctx context.Context, tokenAddress, tokenID string) (string, error) {
	ownership, err := r.ledgerRepo.GetOwnership(ctx, tokenAddress, tokenID)
	if err != nil {
		return "", err
	}

	return ownership.Owner, nil
}
