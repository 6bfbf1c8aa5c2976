package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(context.Context, *Pack, time.Time)

type Subscriber interface {
	// Subscribe blocks and feeds every message to the handler until ctx is
	// done.
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
