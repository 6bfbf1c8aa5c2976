package kafka

import (
	"context"
	"errors"

	"github.com/Shopify/sarama"
	"github.com/questx-lab/boxmaster/pkg/pubsub"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
)

type subscriber struct {
	groupID     string
	brokerAddrs []string
	topics      []string
	client      sarama.ConsumerGroup
	handler     pubsub.SubscribeHandler
}

func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) (*subscriber, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		return nil, err
	}

	return &subscriber{
		groupID:     groupID,
		brokerAddrs: brokerAddrs,
		topics:      topics,
		client:      client,
		handler:     handler,
	}, nil
}

func (s *subscriber) Stop(ctx context.Context) error {
	return s.client.Close()
}

func (s *subscriber) Subscribe(ctx context.Context) {
	handler := &consumerGroupHandler{ctx: ctx, fn: s.handler}
	for {
		// Consume returns on every server-side rebalance, the session must be
		// recreated to get the new claims.
		if err := s.client.Consume(ctx, s.topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}

			xcontext.Logger(ctx).Errorf("Error from consumer: %v", err)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

type consumerGroupHandler struct {
	ctx context.Context
	fn  pubsub.SubscribeHandler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim,
) error {
	for message := range claim.Messages() {
		h.fn(h.ctx, &pubsub.Pack{Key: message.Key, Msg: message.Value}, message.Timestamp)
		session.MarkMessage(message, "")
	}

	return nil
}
