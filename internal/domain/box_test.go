package domain

import (
	"context"
	"testing"

	"github.com/questx-lab/boxmaster/internal/client"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/testutil"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_boxDomain_DrawBoxes(t *testing.T) {
	m := newTestMaster(t)
	draft := m.createCollection(t, 1, 0)
	collectionID, _ := m.publishedCollection(t, 0, 10, 20, 30)

	secondary, err := m.collection.CreateCollection(m.as(testutil.Curator), &model.CreateCollectionRequest{
		Name: "Secondary", Size: 1, WillAcceptSecondary: true,
	})
	require.NoError(t, err)
	m.add(t, testutil.Curator, m.deposit(t, testutil.Curator), secondary.CollectionID, decimal.NewFromInt(5))
	_, err = m.collection.PublishCollection(m.as(testutil.Curator), &model.PublishCollectionRequest{
		CollectionID: secondary.CollectionID,
	})
	require.NoError(t, err)

	m.fund(t, testutil.Buyer0, decimal.NewFromInt(100))
	require.NoError(t, m.ledger.Mint(m.ctx, testutil.BaseToken, testutil.Buyer1, decimal.NewFromInt(100)))

	tests := []struct {
		name    string
		user    string
		req     *model.DrawBoxesRequest
		want    *model.DrawBoxesResponse
		wantErr errorx.Code
	}{
		{
			name:    "zero count",
			user:    testutil.Buyer0,
			req:     &model.DrawBoxesRequest{CollectionID: collectionID, Count: 0},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "unknown collection",
			user:    testutil.Buyer0,
			req:     &model.DrawBoxesRequest{CollectionID: 999, Count: 1},
			wantErr: errorx.NotFound,
		},
		{
			name:    "draft collection",
			user:    testutil.Buyer0,
			req:     &model.DrawBoxesRequest{CollectionID: draft, Count: 1},
			wantErr: errorx.NotPublished,
		},
		{
			name:    "secondary token is not accepted",
			user:    testutil.Buyer0,
			req:     &model.DrawBoxesRequest{CollectionID: collectionID, Count: 1, UseSecondary: true},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "secondary token is accepted but not supported",
			user:    testutil.Buyer0,
			req:     &model.DrawBoxesRequest{CollectionID: secondary.CollectionID, Count: 1, UseSecondary: true},
			wantErr: errorx.NotImplemented,
		},
		{
			name:    "more than the size",
			user:    testutil.Buyer0,
			req:     &model.DrawBoxesRequest{CollectionID: collectionID, Count: 4},
			wantErr: errorx.SoldOut,
		},
		{
			name:    "no allowance",
			user:    testutil.Buyer1,
			req:     &model.DrawBoxesRequest{CollectionID: collectionID, Count: 1},
			wantErr: errorx.InsufficientAllowance,
		},
		{
			name: "happy case",
			user: testutil.Buyer0,
			req:  &model.DrawBoxesRequest{CollectionID: collectionID, Count: 2},
			want: &model.DrawBoxesResponse{FirstBoxIndex: 0, Count: 2, Paid: decimal.NewFromInt(40)},
		},
		{
			name: "continues the queue",
			user: testutil.Buyer0,
			req:  &model.DrawBoxesRequest{CollectionID: collectionID, Count: 1},
			want: &model.DrawBoxesResponse{FirstBoxIndex: 2, Count: 1, Paid: decimal.NewFromInt(20)},
		},
		{
			name:    "sold out",
			user:    testutil.Buyer0,
			req:     &model.DrawBoxesRequest{CollectionID: collectionID, Count: 1},
			wantErr: errorx.SoldOut,
		},
	}

	// Cases share the collections and run in order.
	for _, tt := range tests {
		got, err := m.box.DrawBoxes(m.as(tt.user), tt.req)
		if tt.wantErr != 0 {
			requireErrorCode(t, err, tt.wantErr)
			continue
		}

		require.NoError(t, err, tt.name)
		require.Equal(t, tt.want.FirstBoxIndex, got.FirstBoxIndex, tt.name)
		require.Equal(t, tt.want.Count, got.Count, tt.name)
		require.True(t, tt.want.Paid.Equal(got.Paid), tt.name)
	}

	require.True(t, decimal.NewFromInt(40).Equal(m.balance(t, testutil.Buyer0)))
	require.True(t, decimal.NewFromInt(100).Equal(m.balance(t, testutil.Buyer1)))
	require.True(t, decimal.NewFromInt(60).Equal(m.balance(t, testutil.Master)))

	queue, err := m.boxRepo.GetQueue(m.ctx, collectionID)
	require.NoError(t, err)
	require.Len(t, queue, 3)
	for i, order := range queue {
		require.Equal(t, i, order.BoxIndex)
		require.Equal(t, testutil.Buyer0, order.Buyer)
	}
}

func Test_boxDomain_DrawBoxes_FailedPaymentRollsBack(t *testing.T) {
	m := newTestMaster(t)
	collectionID, _ := m.publishedCollection(t, 0, 10, 20)

	// Enough allowance, not enough balance.
	require.NoError(t, m.ledger.Mint(m.ctx, testutil.BaseToken, testutil.Buyer0, decimal.NewFromInt(10)))
	require.NoError(t, m.ledger.Approve(m.ctx, testutil.BaseToken, testutil.Buyer0, testutil.Master, decimal.NewFromInt(100)))

	_, err := m.box.DrawBoxes(m.as(testutil.Buyer0), &model.DrawBoxesRequest{CollectionID: collectionID, Count: 2})
	requireErrorCode(t, err, errorx.InsufficientBalance)

	collection := m.getCollection(t, collectionID)
	require.Equal(t, 0, collection.SoldCount)

	queue, err := m.boxRepo.GetQueue(m.ctx, collectionID)
	require.NoError(t, err)
	require.Empty(t, queue)

	allowance, err := repository.NewLedgerRepository().GetAllowance(
		m.ctx, testutil.BaseToken, testutil.Buyer0, testutil.Master)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(100).Equal(allowance))

	m.draw(t, testutil.Buyer0, collectionID, 1)
	require.Equal(t, 1, m.getCollection(t, collectionID).SoldCount)
}

func Test_boxDomain_GetWinner(t *testing.T) {
	m := newTestMaster(t)
	collectionID, requestID := m.publishedCollection(t, 0, 10, 20, 30, 40)

	_, err := m.box.GetWinner(m.ctx, &model.GetWinnerRequest{CollectionID: collectionID})
	requireErrorCode(t, err, errorx.PendingRandomness)

	m.deliver(t, requestID, "0xdeadbeef")

	_, err = m.box.GetWinner(m.ctx, &model.GetWinnerRequest{CollectionID: collectionID})
	requireErrorCode(t, err, errorx.NoBuyers)

	_, err = m.box.GetWinners(m.ctx, &model.GetWinnersRequest{CollectionID: collectionID})
	requireErrorCode(t, err, errorx.NoBuyers)

	m.fund(t, testutil.Buyer0, decimal.NewFromInt(25))
	m.fund(t, testutil.Buyer1, decimal.NewFromInt(50))
	m.draw(t, testutil.Buyer0, collectionID, 1)
	m.draw(t, testutil.Buyer1, collectionID, 2)

	// Winners are defined for the boxes sold so far.
	first, err := m.box.GetWinners(m.ctx, &model.GetWinnersRequest{CollectionID: collectionID})
	require.NoError(t, err)
	require.Len(t, first.Winners, 3)

	_, err = m.box.GetWinner(m.ctx, &model.GetWinnerRequest{CollectionID: collectionID, BoxIndex: 3})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = m.box.GetWinner(m.ctx, &model.GetWinnerRequest{CollectionID: collectionID, BoxIndex: -1})
	requireErrorCode(t, err, errorx.BadRequest)

	// Resolving twice gives the same answer.
	second, err := m.box.GetWinners(m.ctx, &model.GetWinnersRequest{CollectionID: collectionID})
	require.NoError(t, err)
	require.Equal(t, first.Winners, second.Winners)

	wins := map[string]int{}
	for _, w := range first.Winners {
		wins[w.Winner]++
	}
	require.Equal(t, map[string]int{testutil.Buyer0: 1, testutil.Buyer1: 2}, wins)

	m.fund(t, testutil.Buyer1, decimal.NewFromInt(25))
	m.draw(t, testutil.Buyer1, collectionID, 1)
	all, err := m.box.GetWinners(m.ctx, &model.GetWinnersRequest{CollectionID: collectionID})
	require.NoError(t, err)
	require.Len(t, all.Winners, 4)

	items := m.getCollection(t, collectionID).Items
	for i, w := range all.Winners {
		require.Equal(t, items[i].AssetID, w.AssetID)
	}
}

// abortingLedger transfers, then ends the running transaction so that the
// commit which follows fails.
type abortingLedger struct {
	client.TokenLedger
}

func (l abortingLedger) Transfer(ctx context.Context, token, from, to string, amount decimal.Decimal) error {
	if err := l.TokenLedger.Transfer(ctx, token, from, to, amount); err != nil {
		return err
	}

	return xcontext.DB(ctx).Rollback().Error
}

func Test_boxDomain_DrawBoxes_FailedCommit(t *testing.T) {
	m := newTestMaster(t)
	collectionID, _ := m.publishedCollection(t, 0, 10, 20)
	m.fund(t, testutil.Buyer0, decimal.NewFromInt(15))
	m.box.tokenLedger = abortingLedger{m.ledger}

	_, err := m.box.DrawBoxes(m.as(testutil.Buyer0), &model.DrawBoxesRequest{CollectionID: collectionID, Count: 1})
	requireErrorCode(t, err, errorx.Unknown.Code)

	require.Equal(t, 0, m.getCollection(t, collectionID).SoldCount)
	require.True(t, decimal.NewFromInt(15).Equal(m.balance(t, testutil.Buyer0)))
	require.True(t, m.balance(t, testutil.Master).IsZero())
}
