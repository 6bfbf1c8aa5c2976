package lock

import "context"

// Locker serializes work on a key. Lock blocks until the key is free or ctx is
// done, the returned function releases the key.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}
