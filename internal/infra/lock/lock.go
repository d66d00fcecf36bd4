// Package lock serializes the duplicate check and insert of one agency.
// MemoryLocker covers a single process; RedisLocker covers several workers
// sharing one store.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when a lock could not be taken before the
// wait budget or the context ran out.
var ErrNotAcquired = errors.New("lock not acquired")

// Unlock releases a lock. It is safe to call more than once.
type Unlock func()

// AgencyLocker hands out one exclusive lock per agency.
type AgencyLocker interface {
	Lock(ctx context.Context, agency string) (Unlock, error)
}
