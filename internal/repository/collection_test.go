package repository

import (
	"context"
	"testing"
	"time"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPublishedCollection(t *testing.T, ctx context.Context, size int) *entity.Collection {
	repo := NewCollectionRepository()
	collection := &entity.Collection{Owner: testutil.Curator, Name: "gallery", Size: size}
	require.NoError(t, repo.Create(ctx, collection))
	require.NoError(t, repo.Publish(ctx, collection.ID, PublishCollectionData{
		PublishedAt:  time.Now(),
		FeeRate:      500,
		PaymentToken: testutil.BaseToken,
		TotalPrice:   decimal.NewFromInt(600),
		AveragePrice: decimal.NewFromInt(200),
		Fee:          decimal.NewFromInt(30),
		Commission:   decimal.NewFromInt(60),
	}))

	return collection
}

func Test_collectionRepository_Publish(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewCollectionRepository()

	collection := createPublishedCollection(t, ctx, 3)

	err := repo.Publish(ctx, collection.ID, PublishCollectionData{PublishedAt: time.Now()})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := repo.GetByID(ctx, collection.ID)
	require.NoError(t, err)
	require.True(t, got.IsPublished)
	require.True(t, got.PublishedAt.Valid)
	require.Equal(t, 500, got.FeeRate)
	require.Equal(t, testutil.BaseToken, got.PaymentToken)
	require.True(t, decimal.NewFromInt(600).Equal(got.TotalPrice))
	require.True(t, decimal.NewFromInt(200).Equal(got.AveragePrice))
	require.True(t, decimal.NewFromInt(30).Equal(got.Fee))
	require.True(t, decimal.NewFromInt(60).Equal(got.Commission))
}

func Test_collectionRepository_IncreaseSoldCount(t *testing.T) {
	tests := []struct {
		name    string
		counts  []int
		wantErr error
		want    int
	}{
		{
			name:   "happy case",
			counts: []int{1, 2},
			want:   3,
		},
		{
			name:    "exceed the size",
			counts:  []int{2, 2},
			wantErr: gorm.ErrRecordNotFound,
			want:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			repo := NewCollectionRepository()
			collection := createPublishedCollection(t, ctx, 3)

			var err error
			for _, c := range tt.counts {
				err = repo.IncreaseSoldCount(ctx, collection.ID, c)
			}

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			got, err := repo.GetByID(ctx, collection.ID)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.SoldCount)
		})
	}
}

func Test_collectionRepository_IncreaseSoldCount_Draft(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewCollectionRepository()

	collection := &entity.Collection{Owner: testutil.Curator, Name: "draft", Size: 3}
	require.NoError(t, repo.Create(ctx, collection))

	err := repo.IncreaseSoldCount(ctx, collection.ID, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_collectionRepository_Claims(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewCollectionRepository()
	collection := createPublishedCollection(t, ctx, 1)

	require.NoError(t, repo.SetSeed(ctx, collection.ID, "01"))
	require.ErrorIs(t, repo.SetSeed(ctx, collection.ID, "02"), gorm.ErrRecordNotFound)

	require.NoError(t, repo.ClaimFee(ctx, collection.ID))
	require.ErrorIs(t, repo.ClaimFee(ctx, collection.ID), gorm.ErrRecordNotFound)

	require.NoError(t, repo.ClaimCommission(ctx, collection.ID))
	require.ErrorIs(t, repo.ClaimCommission(ctx, collection.ID), gorm.ErrRecordNotFound)

	got, err := repo.GetByID(ctx, collection.ID)
	require.NoError(t, err)
	require.Equal(t, "01", got.Seed)
	require.True(t, got.IsFeeClaimed)
	require.True(t, got.IsCommissionClaimed)
}

func Test_collectionRepository_Items(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewCollectionRepository()

	collection := &entity.Collection{Owner: testutil.Curator, Name: "gallery", Size: 3}
	require.NoError(t, repo.Create(ctx, collection))

	for _, assetID := range []int64{7, 3, 5} {
		require.NoError(t, repo.CreateItem(ctx, &entity.CollectionItem{
			CollectionID: collection.ID,
			AssetID:      assetID,
			Depositor:    testutil.Curator,
			Price:        decimal.NewFromInt(assetID * 100),
		}))
	}

	count, err := repo.CountItems(ctx, collection.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	// Items keep the order in which they were added.
	items, err := repo.GetItems(ctx, collection.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, int64(7), items[0].AssetID)
	require.Equal(t, int64(3), items[1].AssetID)
	require.Equal(t, int64(5), items[2].AssetID)

	require.NoError(t, repo.ClaimItem(ctx, items[1].ID))
	require.ErrorIs(t, repo.ClaimItem(ctx, items[1].ID), gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteItem(ctx, collection.ID, 3))
	require.ErrorIs(t, repo.DeleteItem(ctx, collection.ID, 3), gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteItems(ctx, collection.ID))
	count, err = repo.CountItems(ctx, collection.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func Test_collectionRepository_Reset(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewCollectionRepository()
	collection := createPublishedCollection(t, ctx, 3)

	require.NoError(t, repo.IncreaseSoldCount(ctx, collection.ID, 2))
	require.NoError(t, repo.SetSeed(ctx, collection.ID, "ab"))
	require.NoError(t, repo.Reset(ctx, collection.ID))
	require.ErrorIs(t, repo.Reset(ctx, collection.ID), gorm.ErrRecordNotFound)

	got, err := repo.GetByID(ctx, collection.ID)
	require.NoError(t, err)
	require.False(t, got.IsPublished)
	require.False(t, got.PublishedAt.Valid)
	require.Zero(t, got.SoldCount)
	require.Empty(t, got.Seed)
	require.True(t, got.TotalPrice.IsZero())
}
