package client

import (
	"testing"

	"github.com/questx-lab/boxmaster/internal/repository"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_localAssetRegistry_TransferFrom(t *testing.T) {
	tests := []struct {
		name      string
		approve   bool
		from      string
		to        string
		tokenID   string
		wantErr   error
		wantOwner string
	}{
		{
			name:      "deposit an approved asset",
			approve:   true,
			from:      testutil.Curator,
			to:        testutil.Master,
			tokenID:   "0",
			wantOwner: testutil.Master,
		},
		{
			name:      "deposit without approval",
			from:      testutil.Curator,
			to:        testutil.Master,
			tokenID:   "0",
			wantErr:   errorx.New(errorx.InvalidAsset, "Asset is not approved for transfer"),
			wantOwner: testutil.Curator,
		},
		{
			name:      "not the owner",
			approve:   true,
			from:      testutil.Artist,
			to:        testutil.Master,
			tokenID:   "0",
			wantErr:   errorx.New(errorx.InvalidAsset, "Asset is not owned by %s", testutil.Artist),
			wantOwner: testutil.Curator,
		},
		{
			name:      "unknown asset",
			from:      testutil.Curator,
			to:        testutil.Master,
			tokenID:   "9",
			wantErr:   errorx.New(errorx.InvalidAsset, "Asset %s/%s does not exist", testutil.CatToken, "9"),
			wantOwner: testutil.Curator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			registry := NewLocalAssetRegistry(repository.NewLedgerRepository())
			require.NoError(t, registry.Mint(ctx, testutil.CatToken, "0", testutil.Curator))
			if tt.approve {
				require.NoError(t, registry.Approve(ctx, testutil.CatToken, "0", testutil.Master))
			}

			err := registry.TransferFrom(ctx, testutil.CatToken, tt.from, tt.to, tt.tokenID)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.Equal(t, tt.wantErr.Error(), err.Error())
			} else {
				require.NoError(t, err)
			}

			owner, err := registry.OwnerOf(ctx, testutil.CatToken, "0")
			require.NoError(t, err)
			require.Equal(t, tt.wantOwner, owner)
		})
	}
}

func Test_localAssetRegistry_MasterReturnsAsset(t *testing.T) {
	ctx := testutil.MockContext()
	registry := NewLocalAssetRegistry(repository.NewLedgerRepository())
	require.NoError(t, registry.Mint(ctx, testutil.DogToken, "1", testutil.Curator))
	require.NoError(t, registry.Approve(ctx, testutil.DogToken, "1", testutil.Master))
	require.NoError(t, registry.TransferFrom(ctx, testutil.DogToken, testutil.Curator, testutil.Master, "1"))

	// The master moves what it owns without approval, and the approval of the
	// previous owner does not survive the transfer.
	require.NoError(t, registry.TransferFrom(ctx, testutil.DogToken, testutil.Master, testutil.Buyer0, "1"))
	err := registry.TransferFrom(ctx, testutil.DogToken, testutil.Buyer0, testutil.Master, "1")
	require.True(t, errorx.Is(err, errorx.InvalidAsset))

	owner, err := registry.OwnerOf(ctx, testutil.DogToken, "1")
	require.NoError(t, err)
	require.Equal(t, testutil.Buyer0, owner)
}
