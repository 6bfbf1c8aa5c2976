package lock

import (
	"context"

	"github.com/puzpuzpuz/xsync"
)

type memoryLocker struct {
	slots *xsync.MapOf[string, chan struct{}]
}

func NewMemoryLocker() *memoryLocker {
	return &memoryLocker{slots: xsync.NewMapOf[chan struct{}]()}
}

func (l *memoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	slot, _ := l.slots.LoadOrCompute(key, func() chan struct{} {
		return make(chan struct{}, 1)
	})

	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
