package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/pkg/kafka"
	"github.com/questx-lab/boxmaster/pkg/pubsub"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	s.loadMaster()
	defer s.close()

	cfg := xcontext.Configs(s.ctx)
	if cfg.Kafka.Addr == "" {
		return errors.New("kafka address is not configured")
	}

	subscriber, err := kafka.NewSubscriber(
		"boxmaster-randomness",
		[]string{cfg.Kafka.Addr},
		[]string{model.RandomnessFulfilledTopic},
		s.handleRandomnessFulfilled,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	xcontext.Logger(s.ctx).Infof("Subscribing topic %s", model.RandomnessFulfilledTopic)
	subscriber.Subscribe(ctx)
	return subscriber.Stop(s.ctx)
}

// handleRandomnessFulfilled delivers a random word consumed from the oracle on
// behalf of the oracle address in force.
func (s *srv) handleRandomnessFulfilled(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.RandomnessFulfilledEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Invalid randomness event: %v", err)
		return
	}

	oracle := xcontext.Configs(ctx).Master.RandomnessOracle
	if setting, err := s.settingRepo.Get(ctx, entity.SettingRandomnessOracle); err == nil {
		oracle = setting.Value
	}

	resp, err := s.randomnessDomain.DeliverRandomness(xcontext.WithRequestUserID(ctx, oracle),
		&model.DeliverRandomnessRequest{
			RequestID:  event.RequestID,
			RandomWord: event.RandomWord,
		})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot deliver randomness of request %s: %v", event.RequestID, err)
		return
	}

	xcontext.Logger(ctx).Infof("Randomness of collection %d is delivered, published at %s",
		resp.CollectionID, t.Format(time.RFC3339))
}
