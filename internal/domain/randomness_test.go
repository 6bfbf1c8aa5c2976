package domain

import (
	"testing"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_randomnessDomain_DeliverRandomness(t *testing.T) {
	m := newTestMaster(t)
	collectionID, requestID := m.publishedCollection(t, 0, 1, 2)

	tests := []struct {
		name    string
		user    string
		req     *model.DeliverRandomnessRequest
		wantErr errorx.Code
	}{
		{
			name:    "not the oracle",
			user:    testutil.RandomGuy,
			req:     &model.DeliverRandomnessRequest{RequestID: requestID, RandomWord: "0x01"},
			wantErr: errorx.PermissionDenied,
		},
		{
			name:    "empty word",
			user:    testutil.Oracle,
			req:     &model.DeliverRandomnessRequest{RequestID: requestID},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "word is not hex",
			user:    testutil.Oracle,
			req:     &model.DeliverRandomnessRequest{RequestID: requestID, RandomWord: "0xzz"},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "unknown request",
			user:    testutil.Oracle,
			req:     &model.DeliverRandomnessRequest{RequestID: "unknown", RandomWord: "0x01"},
			wantErr: errorx.NotFound,
		},
		{
			name: "happy case",
			user: testutil.Oracle,
			req:  &model.DeliverRandomnessRequest{RequestID: requestID, RandomWord: "0x01"},
		},
		{
			name:    "delivered twice",
			user:    testutil.Oracle,
			req:     &model.DeliverRandomnessRequest{RequestID: requestID, RandomWord: "0x02"},
			wantErr: errorx.AlreadyExists,
		},
	}

	// Cases share the request and run in order.
	for _, tt := range tests {
		resp, err := m.randomness.DeliverRandomness(m.as(tt.user), tt.req)
		if tt.wantErr != 0 {
			requireErrorCode(t, err, tt.wantErr)
			continue
		}

		require.NoError(t, err, tt.name)
		require.Equal(t, collectionID, resp.CollectionID)
	}

	randomness, err := m.randomnessRepo.GetByID(m.ctx, requestID)
	require.NoError(t, err)
	require.Equal(t, entity.RandomnessFulfilled, randomness.Status)
	require.Equal(t, testutil.Oracle, randomness.FulfilledBy)

	collection, err := m.collectionRepo.GetByID(m.ctx, collectionID)
	require.NoError(t, err)
	require.Equal(t, randomness.RandomWord, collection.Seed)
	require.Len(t, collection.Seed, 64)
}

func Test_randomnessDomain_DeliverRandomness_OracleFromSettings(t *testing.T) {
	m := newTestMaster(t)
	_, requestID := m.publishedCollection(t, 0, 1)

	_, err := m.admin.SetRandomnessOracle(m.as(testutil.Admin), &model.SetAddressRequest{Address: testutil.RandomGuy})
	require.NoError(t, err)

	_, err = m.randomness.DeliverRandomness(m.as(testutil.Oracle), &model.DeliverRandomnessRequest{
		RequestID:  requestID,
		RandomWord: "0x01",
	})
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = m.randomness.DeliverRandomness(m.as(testutil.RandomGuy), &model.DeliverRandomnessRequest{
		RequestID:  requestID,
		RandomWord: "0x01",
	})
	require.NoError(t, err)
}

func Test_randomnessDomain_DeliverRandomness_AfterRepublish(t *testing.T) {
	m := newTestMaster(t)
	collectionID, oldRequestID := m.publishedCollection(t, 0, 1, 2)

	_, err := m.collection.UnpublishCollection(m.as(testutil.Curator), &model.UnpublishCollectionRequest{
		CollectionID: collectionID,
	})
	require.NoError(t, err)

	m.add(t, testutil.Curator, m.deposit(t, testutil.Curator), collectionID, units(3, 0))
	m.add(t, testutil.Curator, m.deposit(t, testutil.Curator), collectionID, units(4, 0))
	resp, err := m.collection.PublishCollection(m.as(testutil.Curator), &model.PublishCollectionRequest{
		CollectionID: collectionID,
	})
	require.NoError(t, err)
	require.NotEqual(t, oldRequestID, resp.RandomnessRequestID)

	// The request of the first publication was cancelled.
	_, err = m.randomness.DeliverRandomness(m.as(testutil.Oracle), &model.DeliverRandomnessRequest{
		RequestID:  oldRequestID,
		RandomWord: "0x01",
	})
	requireErrorCode(t, err, errorx.BadRequest)

	m.deliver(t, resp.RandomnessRequestID, "0x02")
	require.True(t, m.getCollection(t, collectionID).HasSeed)
}

func Test_randomnessDomain_FulfillPending(t *testing.T) {
	m := newTestMaster(t)
	first, _ := m.publishedCollection(t, 0, 1)
	second, _ := m.publishedCollection(t, 0, 2)
	cancelled, _ := m.publishedCollection(t, 0, 3)

	_, err := m.collection.UnpublishCollection(m.as(testutil.Curator), &model.UnpublishCollectionRequest{
		CollectionID: cancelled,
	})
	require.NoError(t, err)

	n, err := m.randomness.FulfillPending(m.ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.True(t, m.getCollection(t, first).HasSeed)
	require.True(t, m.getCollection(t, second).HasSeed)
	require.False(t, m.getCollection(t, cancelled).HasSeed)

	n, err = m.randomness.FulfillPending(m.ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
