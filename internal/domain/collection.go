package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/boxmaster/internal/client"
	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/lock"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CollectionDomain interface {
	CreateCollection(context.Context, *model.CreateCollectionRequest) (*model.CreateCollectionResponse, error)
	AddToCollection(context.Context, *model.AddToCollectionRequest) (*model.AddToCollectionResponse, error)
	RemoveFromCollection(context.Context, *model.RemoveFromCollectionRequest) (*model.RemoveFromCollectionResponse, error)
	PublishCollection(context.Context, *model.PublishCollectionRequest) (*model.PublishCollectionResponse, error)
	UnpublishCollection(context.Context, *model.UnpublishCollectionRequest) (*model.UnpublishCollectionResponse, error)
	GetCollection(context.Context, *model.GetCollectionRequest) (*model.GetCollectionResponse, error)
}

type collectionDomain struct {
	collectionRepo   repository.CollectionRepository
	assetRepo        repository.AssetRepository
	boxRepo          repository.BoxRepository
	randomnessRepo   repository.RandomnessRepository
	settings         *settingReader
	tokenLedger      client.TokenLedger
	assetRegistry    client.AssetRegistry
	randomnessOracle client.RandomnessOracle
	locker           lock.Locker
	now              func() time.Time
}

func NewCollectionDomain(
	collectionRepo repository.CollectionRepository,
	assetRepo repository.AssetRepository,
	boxRepo repository.BoxRepository,
	randomnessRepo repository.RandomnessRepository,
	settingRepo repository.SettingRepository,
	tokenLedger client.TokenLedger,
	assetRegistry client.AssetRegistry,
	randomnessOracle client.RandomnessOracle,
	locker lock.Locker,
) *collectionDomain {
	return &collectionDomain{
		collectionRepo:   collectionRepo,
		assetRepo:        assetRepo,
		boxRepo:          boxRepo,
		randomnessRepo:   randomnessRepo,
		settings:         newSettingReader(settingRepo),
		tokenLedger:      tokenLedger,
		assetRegistry:    assetRegistry,
		randomnessOracle: randomnessOracle,
		locker:           locker,
		now:              time.Now,
	}
}

func (d *collectionDomain) CreateCollection(
	ctx context.Context, req *model.CreateCollectionRequest,
) (*model.CreateCollectionResponse, error) {
	caller, err := requestAddress(ctx)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Name must not be empty")
	}

	if req.Size < 1 {
		return nil, errorx.New(errorx.BadRequest, "Size must be a positive number")
	}

	if req.CommissionRate < 0 || req.CommissionRate > basisPoints {
		return nil, errorx.New(errorx.BadRequest, "Commission rate must be in range [0, %d]", basisPoints)
	}

	if req.CommissionRate+xcontext.Configs(ctx).Master.FeeRate > basisPoints {
		return nil, errorx.New(errorx.BadRequest, "Commission rate and fee rate exceed the whole price")
	}

	collaborators := entity.Array[string]{}
	for _, c := range req.Collaborators {
		address, err := normalizeAddress(c)
		if err != nil {
			return nil, err
		}

		collaborators = append(collaborators, address)
	}

	collection := &entity.Collection{
		Owner:               caller,
		Name:                req.Name,
		Size:                req.Size,
		CommissionRate:      req.CommissionRate,
		WillAcceptSecondary: req.WillAcceptSecondary,
		Collaborators:       collaborators,
		TotalPrice:          decimal.Zero,
		AveragePrice:        decimal.Zero,
		Fee:                 decimal.Zero,
		Commission:          decimal.Zero,
	}

	if err := d.collectionRepo.Create(ctx, collection); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create collection: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCollectionResponse{CollectionID: collection.ID}, nil
}

func (d *collectionDomain) AddToCollection(
	ctx context.Context, req *model.AddToCollectionRequest,
) (*model.AddToCollectionResponse, error) {
	caller, err := requestAddress(ctx)
	if err != nil {
		return nil, err
	}

	if !req.Price.IsPositive() || !req.Price.IsInteger() {
		return nil, errorx.New(errorx.BadRequest, "Price must be a positive integer amount")
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

	if collection.IsPublished {
		return nil, errorx.New(errorx.AlreadyPublished, "Collection is already published")
	}

	asset, err := getAsset(ctx, d.assetRepo, req.AssetID)
	if err != nil {
		return nil, err
	}

	if asset.Depositor != caller {
		xcontext.Logger(ctx).Debugf("%s is not the depositor of asset %d", caller, asset.ID)
		return nil, errorx.New(errorx.PermissionDenied, "Only the depositor can add the asset")
	}

	if !isCurator(collection, caller) {
		xcontext.Logger(ctx).Debugf("%s is not a curator of collection %d", caller, collection.ID)
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner or collaborators can add assets")
	}

	count, err := d.collectionRepo.CountItems(ctx, collection.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count collection items: %v", err)
		return nil, errorx.Unknown
	}

	if int(count) >= collection.Size {
		return nil, errorx.New(errorx.BadRequest, "Collection is full")
	}

	if err := d.assetRepo.AssignToCollection(ctx, asset.ID, collection.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Asset is not available")
		}

		xcontext.Logger(ctx).Errorf("Cannot assign asset to collection: %v", err)
		return nil, errorx.Unknown
	}

	err = d.collectionRepo.CreateItem(ctx, &entity.CollectionItem{
		CollectionID: collection.ID,
		AssetID:      asset.ID,
		Depositor:    asset.Depositor,
		Price:        req.Price,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create collection item: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddToCollectionResponse{}, nil
}

func (d *collectionDomain) RemoveFromCollection(
	ctx context.Context, req *model.RemoveFromCollectionRequest,
) (*model.RemoveFromCollectionResponse, error) {
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

	if collection.IsPublished {
		return nil, errorx.New(errorx.AlreadyPublished, "Collection is already published")
	}

	asset, err := getAsset(ctx, d.assetRepo, req.AssetID)
	if err != nil {
		return nil, err
	}

	if asset.Depositor != caller && collection.Owner != caller {
		xcontext.Logger(ctx).Debugf("%s cannot remove asset %d", caller, asset.ID)
		return nil, errorx.New(errorx.PermissionDenied, "Only the depositor or the owner can remove the asset")
	}

	if err := d.collectionRepo.DeleteItem(ctx, collection.ID, asset.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Asset is not a member of the collection")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete collection item: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.assetRepo.Release(ctx, asset.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot release asset %d: %v", asset.ID, err)
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

	return &model.RemoveFromCollectionResponse{}, nil
}

func (d *collectionDomain) PublishCollection(
	ctx context.Context, req *model.PublishCollectionRequest,
) (*model.PublishCollectionResponse, error) {
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

	if collection.Owner != caller {
		xcontext.Logger(ctx).Debugf("%s is not the owner of collection %d", caller, collection.ID)
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can publish the collection")
	}

	if collection.IsPublished {
		return nil, errorx.New(errorx.AlreadyPublished, "Collection is already published")
	}

	items, err := d.collectionRepo.GetItems(ctx, collection.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get collection items: %v", err)
		return nil, errorx.Unknown
	}

	if len(items) != collection.Size {
		return nil, errorx.New(errorx.BadRequest,
			"Collection needs %d assets to be published, got %d", collection.Size, len(items))
	}

	paymentToken, err := d.settings.Get(ctx, entity.SettingBaseToken)
	if err != nil {
		return nil, err
	}

	if paymentToken == "" {
		return nil, errorx.New(errorx.Unavailable, "Base token is not configured")
	}

	feeRate := xcontext.Configs(ctx).Master.FeeRate
	p := computePricing(items, collection.Size, feeRate, collection.CommissionRate)
	err = d.collectionRepo.Publish(ctx, collection.ID, repository.PublishCollectionData{
		PublishedAt:  d.now(),
		FeeRate:      feeRate,
		PaymentToken: paymentToken,
		TotalPrice:   p.TotalPrice,
		AveragePrice: p.AveragePrice,
		Fee:          p.Fee,
		Commission:   p.Commission,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyPublished, "Collection is already published")
		}

		xcontext.Logger(ctx).Errorf("Cannot publish collection: %v", err)
		return nil, errorx.Unknown
	}

	randomness := &entity.RandomnessRequest{
		Base:         entity.Base{ID: uuid.NewString()},
		CollectionID: collection.ID,
		Status:       entity.RandomnessPending,
		Params:       entity.Map(req.AuxParams),
	}
	if err := d.randomnessRepo.Create(ctx, randomness); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create randomness request: %v", err)
		return nil, errorx.Unknown
	}

	err = d.randomnessOracle.RequestRandomness(ctx, randomness.ID, collection.ID, req.AuxParams)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot request randomness: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Randomness oracle is unavailable")
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Collection %d is published, total price %s", collection.ID, p.TotalPrice)

	return &model.PublishCollectionResponse{RandomnessRequestID: randomness.ID}, nil
}

func (d *collectionDomain) UnpublishCollection(
	ctx context.Context, req *model.UnpublishCollectionRequest,
) (*model.UnpublishCollectionResponse, error) {
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

	if collection.Owner != caller {
		xcontext.Logger(ctx).Debugf("%s is not the owner of collection %d", caller, collection.ID)
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can unpublish the collection")
	}

	if !collection.IsPublished {
		return nil, errorx.New(errorx.NotPublished, "Collection is not published")
	}

	if collection.IsSoldOut() {
		return nil, errorx.New(errorx.SoldOut, "Collection is sold out")
	}

	gracePeriod := xcontext.Configs(ctx).Master.GracePeriod.Duration
	if collection.SoldCount > 0 && d.now().Sub(collection.PublishedAt.Time) < gracePeriod {
		return nil, errorx.New(errorx.NotExpired, "Collection can be unpublished after %s",
			collection.PublishedAt.Time.Add(gracePeriod).Format(defaultTimeLayout))
	}

	queue, err := d.boxRepo.GetQueue(ctx, collection.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get buyer queue: %v", err)
		return nil, errorx.Unknown
	}

	// Every bookkeeping change is written before any token or asset leaves
	// the master.
	if err := d.boxRepo.DeleteByCollectionID(ctx, collection.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete buyer queue: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.collectionRepo.DeleteItems(ctx, collection.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete collection items: %v", err)
		return nil, errorx.Unknown
	}

	assets, err := d.assetRepo.ReleaseByCollectionID(ctx, collection.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot release assets: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.randomnessRepo.CancelPendingByCollectionID(ctx, collection.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel randomness requests: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.collectionRepo.Reset(ctx, collection.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset collection: %v", err)
		return nil, errorx.Unknown
	}

	master := masterAddress(ctx)
	for _, refund := range aggregateRefunds(queue, collection.AveragePrice) {
		err := d.tokenLedger.Transfer(ctx, collection.PaymentToken, master, refund.Address, refund.Amount)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot refund %s: %v", refund.Address, err)
			return nil, err
		}
	}

	for _, asset := range assets {
		err := d.assetRegistry.TransferFrom(ctx, asset.TokenAddress, master, asset.Depositor, asset.TokenID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot return asset %d: %v", asset.ID, err)
			return nil, err
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Collection %d is unpublished, %d boxes are refunded", collection.ID, len(queue))

	return &model.UnpublishCollectionResponse{
		RefundedBoxes:  len(queue),
		ReturnedAssets: len(assets),
	}, nil
}

func (d *collectionDomain) GetCollection(
	ctx context.Context, req *model.GetCollectionRequest,
) (*model.GetCollectionResponse, error) {
	collection, err := getCollection(ctx, d.collectionRepo, req.CollectionID)
	if err != nil {
		return nil, err
	}

	items, err := d.collectionRepo.GetItems(ctx, collection.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get collection items: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetCollectionResponse{Collection: convertCollection(collection, items)}, nil
}

func isCurator(collection *entity.Collection, address string) bool {
	if collection.Owner == address {
		return true
	}

	for _, c := range collection.Collaborators {
		if c == address {
			return true
		}
	}

	return false
}

// aggregateRefunds groups the buyer queue by buyer, in the order buyers first
// appear in the queue.
func aggregateRefunds(queue []entity.BoxOrder, averagePrice decimal.Decimal) []model.Payout {
	boxes := map[string]int64{}
	buyers := []string{}
	for _, order := range queue {
		if _, ok := boxes[order.Buyer]; !ok {
			buyers = append(buyers, order.Buyer)
		}
		boxes[order.Buyer]++
	}

	refunds := make([]model.Payout, 0, len(buyers))
	for _, buyer := range buyers {
		refunds = append(refunds, model.Payout{
			Address: buyer,
			Amount:  averagePrice.Mul(decimal.NewFromInt(boxes[buyer])),
		})
	}

	return refunds
}
