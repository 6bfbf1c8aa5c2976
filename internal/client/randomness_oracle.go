package client

import (
	"context"
	"encoding/json"

	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/pkg/pubsub"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
)

// RandomnessOracle is asked for one random word per request. The word comes
// back asynchronously through the randomness delivery entry point.
type RandomnessOracle interface {
	RequestRandomness(ctx context.Context, requestID string, collectionID int64, params map[string]string) error
}

// localRandomnessOracle leaves requests in the database, they are picked up
// by the in-process fulfiller.
type localRandomnessOracle struct{}

func NewLocalRandomnessOracle() *localRandomnessOracle {
	return &localRandomnessOracle{}
}

func (o *localRandomnessOracle) RequestRandomness(
	ctx context.Context, requestID string, collectionID int64, params map[string]string,
) error {
	xcontext.Logger(ctx).Infof("Randomness %s of collection %d is requested", requestID, collectionID)
	return nil
}

type kafkaRandomnessOracle struct {
	publisher pubsub.Publisher
}

func NewKafkaRandomnessOracle(publisher pubsub.Publisher) *kafkaRandomnessOracle {
	return &kafkaRandomnessOracle{publisher: publisher}
}

func (o *kafkaRandomnessOracle) RequestRandomness(
	ctx context.Context, requestID string, collectionID int64, params map[string]string,
) error {
	b, err := json.Marshal(model.RandomnessRequestEvent{
		RequestID:    requestID,
		CollectionID: collectionID,
		Params:       params,
	})
	if err != nil {
		return err
	}

	return o.publisher.Publish(ctx, model.RandomnessRequestTopic, &pubsub.Pack{
		Key: []byte(requestID),
		Msg: b,
	})
}
