package lock

import (
	"context"
	"sync"
	"time"

	"basket/internal/domain/service"
	"basket/internal/errors"
)

// memoryLocker is a keyed mutex for a single process. Each key owns a
// one-slot channel; holding the lock means holding the slot.
type memoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

type slot struct {
	ch      chan struct{}
	waiters int
}

// NewMemoryLocker returns an in-process CartLocker.
func NewMemoryLocker(wait time.Duration) service.CartLocker {
	if wait <= 0 {
		wait = defaultLockWait
	}

	return &memoryLocker{slots: make(map[string]*slot), wait: wait}
}

// Lock waits for the key's slot until ctx ends or the wait budget runs out.
func (l *memoryLocker) Lock(ctx context.Context, key string) (service.ReleaseFunc, error) {
	s := l.acquireSlot(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
	case <-timer.C:
		l.dropSlot(key, s)

		return nil, errors.Wrap(service.ErrLockNotAcquired, key)
	case <-ctx.Done():
		l.dropSlot(key, s)

		return nil, errors.Wrap(ctx.Err(), "waiting for lock")
	}

	var once sync.Once

	return func(context.Context) error {
		once.Do(func() {
			<-s.ch
			l.dropSlot(key, s)
		})

		return nil
	}, nil
}

func (l *memoryLocker) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.waiters++

	return s
}

// dropSlot forgets the key once nobody holds or waits for it.
func (l *memoryLocker) dropSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.waiters--
	if s.waiters == 0 {
		delete(l.slots, key)
	}
}
