package domain

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/crypto"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/lock"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"gorm.io/gorm"
)

type RandomnessDomain interface {
	DeliverRandomness(context.Context, *model.DeliverRandomnessRequest) (*model.DeliverRandomnessResponse, error)
	FulfillPending(ctx context.Context, limit int) (int, error)
}

type randomnessDomain struct {
	randomnessRepo repository.RandomnessRepository
	collectionRepo repository.CollectionRepository
	settings       *settingReader
	locker         lock.Locker
}

func NewRandomnessDomain(
	randomnessRepo repository.RandomnessRepository,
	collectionRepo repository.CollectionRepository,
	settingRepo repository.SettingRepository,
	locker lock.Locker,
) *randomnessDomain {
	return &randomnessDomain{
		randomnessRepo: randomnessRepo,
		collectionRepo: collectionRepo,
		settings:       newSettingReader(settingRepo),
		locker:         locker,
	}
}

// DeliverRandomness stores the random word of a pending request as the seed of
// its collection. It is only accepted from the randomness oracle, once per
// publication of the collection.
func (d *randomnessDomain) DeliverRandomness(
	ctx context.Context, req *model.DeliverRandomnessRequest,
) (*model.DeliverRandomnessResponse, error) {
	caller, err := requestAddress(ctx)
	if err != nil {
		return nil, err
	}

	oracle, err := d.settings.Get(ctx, entity.SettingRandomnessOracle)
	if err != nil {
		return nil, err
	}

	if !sameAddress(caller, oracle) {
		xcontext.Logger(ctx).Debugf("%s is not the randomness oracle", caller)
		return nil, errorx.New(errorx.PermissionDenied, "Only the randomness oracle can deliver randomness")
	}

	word, err := crypto.DecodeWord(req.RandomWord)
	if err != nil || req.RandomWord == "" {
		return nil, errorx.New(errorx.BadRequest, "Invalid random word")
	}

	randomness, err := d.randomnessRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found randomness request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get randomness request: %v", err)
		return nil, errorx.Unknown
	}

	unlock, err := lockCollection(ctx, d.locker, randomness.CollectionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	collection, err := getCollection(ctx, d.collectionRepo, randomness.CollectionID)
	if err != nil {
		return nil, err
	}

	if !collection.IsPublished {
		return nil, errorx.New(errorx.NotPublished, "Collection is not published")
	}

	if collection.Seed != "" {
		return nil, errorx.New(errorx.AlreadyExists, "Randomness is already delivered")
	}

	seed := hex.EncodeToString(word)
	if err := d.randomnessRepo.Fulfill(ctx, randomness.ID, seed, caller); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Randomness request is not pending")
		}

		xcontext.Logger(ctx).Errorf("Cannot fulfill randomness request: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.collectionRepo.SetSeed(ctx, collection.ID, seed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "Randomness is already delivered")
		}

		xcontext.Logger(ctx).Errorf("Cannot set seed: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Randomness of collection %d is delivered", collection.ID)

	return &model.DeliverRandomnessResponse{CollectionID: collection.ID}, nil
}

// FulfillPending answers up to limit pending requests with crypto random words
// on behalf of the randomness oracle. It returns the number of delivered words.
func (d *randomnessDomain) FulfillPending(ctx context.Context, limit int) (int, error) {
	oracle, err := d.settings.Get(ctx, entity.SettingRandomnessOracle)
	if err != nil {
		return 0, err
	}

	if oracle == "" {
		return 0, errorx.New(errorx.Unavailable, "Randomness oracle is not configured")
	}

	requests, err := d.randomnessRepo.GetPending(ctx, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending randomness requests: %v", err)
		return 0, errorx.Unknown
	}

	oracleCtx := xcontext.WithRequestUserID(ctx, oracle)
	delivered := 0
	for _, r := range requests {
		word, err := crypto.RandomWord()
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot generate random word: %v", err)
			return delivered, errorx.Unknown
		}

		_, err = d.DeliverRandomness(oracleCtx, &model.DeliverRandomnessRequest{
			RequestID:  r.ID,
			RandomWord: word,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot deliver randomness of request %s: %v", r.ID, err)
			continue
		}

		delivered++
	}

	return delivered, nil
}
