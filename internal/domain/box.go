package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/boxmaster/internal/client"
	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/crypto"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/lock"
	"github.com/questx-lab/boxmaster/pkg/permutation"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BoxDomain interface {
	DrawBoxes(context.Context, *model.DrawBoxesRequest) (*model.DrawBoxesResponse, error)
	GetWinner(context.Context, *model.GetWinnerRequest) (*model.GetWinnerResponse, error)
	GetWinners(context.Context, *model.GetWinnersRequest) (*model.GetWinnersResponse, error)
}

type boxDomain struct {
	collectionRepo repository.CollectionRepository
	boxRepo        repository.BoxRepository
	tokenLedger    client.TokenLedger
	locker         lock.Locker
}

func NewBoxDomain(
	collectionRepo repository.CollectionRepository,
	boxRepo repository.BoxRepository,
	tokenLedger client.TokenLedger,
	locker lock.Locker,
) *boxDomain {
	return &boxDomain{
		collectionRepo: collectionRepo,
		boxRepo:        boxRepo,
		tokenLedger:    tokenLedger,
		locker:         locker,
	}
}

func (d *boxDomain) DrawBoxes(
	ctx context.Context, req *model.DrawBoxesRequest,
) (*model.DrawBoxesResponse, error) {
	caller, err := requestAddress(ctx)
	if err != nil {
		return nil, err
	}

	if req.Count < 1 {
		return nil, errorx.New(errorx.BadRequest, "Count must be a positive number")
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

	if req.UseSecondary {
		if !collection.WillAcceptSecondary {
			return nil, errorx.New(errorx.BadRequest, "Collection does not accept the secondary token")
		}

		return nil, errorx.New(errorx.NotImplemented, "Paying with the secondary token is not supported")
	}

	if collection.SoldCount+req.Count > collection.Size {
		return nil, errorx.New(errorx.SoldOut, "Only %d boxes are left", collection.Size-collection.SoldCount)
	}

	if err := d.collectionRepo.IncreaseSoldCount(ctx, collection.ID, req.Count); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.SoldOut, "Not enough boxes are left")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase sold count: %v", err)
		return nil, errorx.Unknown
	}

	orders := make([]entity.BoxOrder, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		orders = append(orders, entity.BoxOrder{
			CollectionID: collection.ID,
			BoxIndex:     collection.SoldCount + i,
			Buyer:        caller,
			Currency:     entity.BaseCurrency,
		})
	}

	if err := d.boxRepo.CreateOrders(ctx, orders); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create box orders: %v", err)
		return nil, errorx.Unknown
	}

	paid := collection.AveragePrice.Mul(decimal.NewFromInt(int64(req.Count)))
	err = d.tokenLedger.Transfer(ctx, collection.PaymentToken, caller, masterAddress(ctx), paid)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DrawBoxesResponse{
		FirstBoxIndex: collection.SoldCount,
		Count:         req.Count,
		Paid:          paid,
	}, nil
}

func (d *boxDomain) GetWinner(
	ctx context.Context, req *model.GetWinnerRequest,
) (*model.GetWinnerResponse, error) {
	collection, err := getCollection(ctx, d.collectionRepo, req.CollectionID)
	if err != nil {
		return nil, err
	}

	resolver, err := newWinnerResolver(ctx, d.boxRepo, collection)
	if err != nil {
		return nil, err
	}

	queueIndex, winner, err := resolver.Resolve(req.BoxIndex)
	if err != nil {
		return nil, err
	}

	return &model.GetWinnerResponse{Winner: winner, QueueIndex: queueIndex}, nil
}

func (d *boxDomain) GetWinners(
	ctx context.Context, req *model.GetWinnersRequest,
) (*model.GetWinnersResponse, error) {
	collection, err := getCollection(ctx, d.collectionRepo, req.CollectionID)
	if err != nil {
		return nil, err
	}

	resolver, err := newWinnerResolver(ctx, d.boxRepo, collection)
	if err != nil {
		return nil, err
	}

	items, err := d.collectionRepo.GetItems(ctx, collection.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get collection items: %v", err)
		return nil, errorx.Unknown
	}

	winners := []model.Winner{}
	for i := 0; i < resolver.Size() && i < len(items); i++ {
		_, winner, err := resolver.Resolve(i)
		if err != nil {
			return nil, err
		}

		winners = append(winners, model.Winner{
			BoxIndex: i,
			AssetID:  items[i].AssetID,
			Winner:   winner,
		})
	}

	return &model.GetWinnersResponse{Winners: winners}, nil
}

// winnerResolver maps box indexes onto the buyer queue through a permutation
// keyed by the seed and the queue length. Every buyer wins exactly as many
// boxes as they bought.
type winnerResolver struct {
	queue []entity.BoxOrder
	perm  *permutation.Permutation
}

func newWinnerResolver(
	ctx context.Context, boxRepo repository.BoxRepository, collection *entity.Collection,
) (*winnerResolver, error) {
	if collection.Seed == "" {
		return nil, errorx.New(errorx.PendingRandomness, "Randomness is not delivered yet")
	}

	if collection.SoldCount == 0 {
		return nil, errorx.New(errorx.NoBuyers, "No box is sold")
	}

	queue, err := boxRepo.GetQueue(ctx, collection.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get buyer queue: %v", err)
		return nil, errorx.Unknown
	}

	if len(queue) == 0 {
		return nil, errorx.New(errorx.NoBuyers, "No box is sold")
	}

	seed, err := crypto.DecodeWord(collection.Seed)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid seed of collection %d: %v", collection.ID, err)
		return nil, errorx.Unknown
	}

	perm, err := permutation.New(seed, len(queue))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create permutation: %v", err)
		return nil, errorx.Unknown
	}

	return &winnerResolver{queue: queue, perm: perm}, nil
}

func (r *winnerResolver) Size() int {
	return len(r.queue)
}

func (r *winnerResolver) Resolve(boxIndex int) (int, string, error) {
	queueIndex, err := r.perm.At(boxIndex)
	if err != nil {
		return 0, "", errorx.New(errorx.BadRequest, "Box index must be in range [0, %d)", len(r.queue))
	}

	return queueIndex, r.queue[queueIndex].Buyer, nil
}
