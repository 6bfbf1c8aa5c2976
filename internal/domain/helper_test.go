package domain

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/questx-lab/boxmaster/internal/client"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/lock"
	"github.com/questx-lab/boxmaster/pkg/testutil"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type localLedger interface {
	client.TokenLedger
	Mint(ctx context.Context, token, to string, amount decimal.Decimal) error
	Approve(ctx context.Context, token, owner, spender string, amount decimal.Decimal) error
	BalanceOf(ctx context.Context, token, owner string) (decimal.Decimal, error)
}

type localRegistry interface {
	client.AssetRegistry
	Mint(ctx context.Context, tokenAddress, tokenID, owner string) error
	Approve(ctx context.Context, tokenAddress, tokenID, spender string) error
	OwnerOf(ctx context.Context, tokenAddress, tokenID string) (string, error)
}

// testMaster wires every domain on top of the in-process collaborators and a
// fresh in-memory database.
type testMaster struct {
	ctx      context.Context
	now      time.Time
	ledger   localLedger
	registry localRegistry

	collectionRepo repository.CollectionRepository
	assetRepo      repository.AssetRepository
	boxRepo        repository.BoxRepository
	randomnessRepo repository.RandomnessRepository
	settingRepo    repository.SettingRepository

	asset      *assetDomain
	collection *collectionDomain
	box        *boxDomain
	randomness *randomnessDomain
	claim      *claimDomain
	admin      *adminDomain

	nextTokenID int
}

func newTestMaster(t *testing.T) *testMaster {
	return newTestMasterWithPolicy(t, soleCommission{})
}

func newTestMasterWithPolicy(t *testing.T, policy CommissionPolicy) *testMaster {
	m := &testMaster{
		ctx:            testutil.MockContext(),
		now:            time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		collectionRepo: repository.NewCollectionRepository(),
		assetRepo:      repository.NewAssetRepository(),
		boxRepo:        repository.NewBoxRepository(),
		randomnessRepo: repository.NewRandomnessRepository(),
		settingRepo:    repository.NewSettingRepository(),
	}

	ledgerRepo := repository.NewLedgerRepository()
	m.ledger = client.NewLocalTokenLedger(ledgerRepo)
	m.registry = client.NewLocalAssetRegistry(ledgerRepo)
	locker := lock.NewMemoryLocker()

	m.asset = NewAssetDomain(m.assetRepo, m.registry)
	m.collection = NewCollectionDomain(m.collectionRepo, m.assetRepo, m.boxRepo, m.randomnessRepo,
		m.settingRepo, m.ledger, m.registry, client.NewLocalRandomnessOracle(), locker)
	m.collection.now = func() time.Time { return m.now }
	m.box = NewBoxDomain(m.collectionRepo, m.boxRepo, m.ledger, locker)
	m.randomness = NewRandomnessDomain(m.randomnessRepo, m.collectionRepo, m.settingRepo, locker)
	m.claim = NewClaimDomain(m.collectionRepo, m.assetRepo, m.boxRepo, m.settingRepo,
		m.ledger, m.registry, policy, locker)
	m.admin = NewAdminDomain(m.settingRepo)

	return m
}

func (m *testMaster) as(user string) context.Context {
	return xcontext.WithRequestUserID(m.ctx, user)
}

func (m *testMaster) balance(t *testing.T, user string) decimal.Decimal {
	b, err := m.ledger.BalanceOf(m.ctx, testutil.BaseToken, user)
	require.NoError(t, err)
	return b
}

// fund mints tokens to user and lets the master pull all of them.
func (m *testMaster) fund(t *testing.T, user string, amount decimal.Decimal) {
	require.NoError(t, m.ledger.Mint(m.ctx, testutil.BaseToken, user, amount))
	allowance := m.balance(t, user)
	require.NoError(t, m.ledger.Approve(m.ctx, testutil.BaseToken, user, testutil.Master, allowance))
}

// deposit mints a fresh asset to user and deposits it into the master.
func (m *testMaster) deposit(t *testing.T, user string) int64 {
	tokenID := fmt.Sprint(m.nextTokenID)
	m.nextTokenID++

	require.NoError(t, m.registry.Mint(m.ctx, testutil.CatToken, tokenID, user))
	require.NoError(t, m.registry.Approve(m.ctx, testutil.CatToken, tokenID, testutil.Master))

	resp, err := m.asset.DepositAsset(m.as(user), &model.DepositAssetRequest{
		TokenAddress: testutil.CatToken,
		TokenID:      tokenID,
	})
	require.NoError(t, err)
	return resp.AssetID
}

func (m *testMaster) createCollection(t *testing.T, size, commissionRate int, collaborators ...string) int64 {
	resp, err := m.collection.CreateCollection(m.as(testutil.Curator), &model.CreateCollectionRequest{
		Name:           "Art gallery",
		Size:           size,
		CommissionRate: commissionRate,
		Collaborators:  collaborators,
	})
	require.NoError(t, err)
	return resp.CollectionID
}

func (m *testMaster) add(t *testing.T, user string, assetID, collectionID int64, price decimal.Decimal) {
	_, err := m.collection.AddToCollection(m.as(user), &model.AddToCollectionRequest{
		AssetID:      assetID,
		CollectionID: collectionID,
		Price:        price,
	})
	require.NoError(t, err)
}

// publishedCollection creates and publishes a collection of curator assets
// with the given prices.
func (m *testMaster) publishedCollection(t *testing.T, commissionRate int, prices ...int64) (int64, string) {
	collectionID := m.createCollection(t, len(prices), commissionRate)
	for _, p := range prices {
		m.add(t, testutil.Curator, m.deposit(t, testutil.Curator), collectionID, decimal.NewFromInt(p))
	}

	resp, err := m.collection.PublishCollection(m.as(testutil.Curator), &model.PublishCollectionRequest{
		CollectionID: collectionID,
	})
	require.NoError(t, err)
	return collectionID, resp.RandomnessRequestID
}

func (m *testMaster) draw(t *testing.T, user string, collectionID int64, count int) {
	_, err := m.box.DrawBoxes(m.as(user), &model.DrawBoxesRequest{CollectionID: collectionID, Count: count})
	require.NoError(t, err)
}

func (m *testMaster) deliver(t *testing.T, requestID, word string) {
	_, err := m.randomness.DeliverRandomness(m.as(testutil.Oracle), &model.DeliverRandomnessRequest{
		RequestID:  requestID,
		RandomWord: word,
	})
	require.NoError(t, err)
}

func (m *testMaster) getCollection(t *testing.T, collectionID int64) model.Collection {
	resp, err := m.collection.GetCollection(m.ctx, &model.GetCollectionRequest{CollectionID: collectionID})
	require.NoError(t, err)
	return resp.Collection
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errorx.Is(err, code), "want code %d, got %v", code, err)
}

func units(n int64, zeroes int32) decimal.Decimal {
	return decimal.New(n, zeroes)
}
