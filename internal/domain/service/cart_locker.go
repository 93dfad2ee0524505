package service

import (
	"context"

	"basket/internal/errors"
)

// ErrLockNotAcquired is returned when another holder keeps the lock past the wait budget.
var ErrLockNotAcquired = errors.New("lock not acquired")

// ReleaseFunc releases a held lock. Releasing a lock that already expired is a no-op.
type ReleaseFunc func(ctx context.Context) error

// CartLocker serializes mutations of one cart across requests and instances.
type CartLocker interface {
	// Lock blocks until the lock for key is held, ctx is done, or the wait budget runs out.
	Lock(ctx context.Context, key string) (ReleaseFunc, error)
}
