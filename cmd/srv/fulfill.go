package main

import (
	"context"
	"time"

	"github.com/questx-lab/boxmaster/pkg/xcontext"
)

const fulfillBatchSize = 50

// fulfillRandomness plays the randomness oracle until ctx is done.
func (s *srv) fulfillRandomness(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.randomnessDomain.FulfillPending(ctx, fulfillBatchSize)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot fulfill randomness requests: %v", err)
				continue
			}

			if n > 0 {
				xcontext.Logger(ctx).Infof("Fulfilled %d randomness requests", n)
			}
		}
	}
}
