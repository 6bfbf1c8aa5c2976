package domain

import (
	"testing"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewCommissionPolicy(t *testing.T) {
	policy, err := NewCommissionPolicy("")
	require.NoError(t, err)
	require.IsType(t, soleCommission{}, policy)

	policy, err = NewCommissionPolicy("even")
	require.NoError(t, err)
	require.IsType(t, evenCommission{}, policy)

	_, err = NewCommissionPolicy("random")
	require.Error(t, err)
}

func Test_commissionPolicy_Split(t *testing.T) {
	tests := []struct {
		name       string
		policy     CommissionPolicy
		collection *entity.Collection
		want       []model.Payout
	}{
		{
			name:   "sole",
			policy: soleCommission{},
			collection: &entity.Collection{
				Owner:         testutil.Curator,
				Collaborators: entity.Array[string]{testutil.Artist},
				Commission:    decimal.NewFromInt(60),
			},
			want: []model.Payout{{Address: testutil.Curator, Amount: decimal.NewFromInt(60)}},
		},
		{
			name:   "even without collaborators",
			policy: evenCommission{},
			collection: &entity.Collection{
				Owner:      testutil.Curator,
				Commission: decimal.NewFromInt(7),
			},
			want: []model.Payout{{Address: testutil.Curator, Amount: decimal.NewFromInt(7)}},
		},
		{
			name:   "even ignores duplicates",
			policy: evenCommission{},
			collection: &entity.Collection{
				Owner:         testutil.Curator,
				Collaborators: entity.Array[string]{testutil.Artist, testutil.Curator, testutil.Artist},
				Commission:    decimal.NewFromInt(7),
			},
			want: []model.Payout{
				{Address: testutil.Curator, Amount: decimal.NewFromInt(4)},
				{Address: testutil.Artist, Amount: decimal.NewFromInt(3)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Split(tt.collection)
			require.Len(t, got, len(tt.want))

			sum := decimal.Zero
			for i := range got {
				require.Equal(t, tt.want[i].Address, got[i].Address)
				require.True(t, tt.want[i].Amount.Equal(got[i].Amount), got[i].Amount.String())
				sum = sum.Add(got[i].Amount)
			}
			require.True(t, tt.collection.Commission.Equal(sum))
		})
	}
}
