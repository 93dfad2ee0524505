// Package lock provides the CartLocker implementations: a Redis lock shared
// by every instance and an in-process lock for single-instance deployments.
package lock

import (
	"context"
	"time"

	"basket/internal/domain/service"
	"basket/internal/errors"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	defaultLockTTL   = 10 * time.Second
	defaultLockWait  = 3 * time.Second
	lockRetryBackoff = 25 * time.Millisecond
	lockKeyPrefix    = "basket:lock:"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisLocker is a SET NX PX lock with token-checked release.
type redisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker returns a CartLocker backed by client.
func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration) service.CartLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}

	return &redisLocker{client: client, ttl: ttl, wait: wait}
}

// Lock polls SET NX until it wins, ctx ends or the wait budget runs out.
func (l *redisLocker) Lock(ctx context.Context, key string) (service.ReleaseFunc, error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to acquire lock %s", key)
		}
		if ok {
			return func(ctx context.Context) error {
				if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
					return errors.Wrapf(err, "failed to release lock %s", key)
				}

				return nil
			}, nil
		}

		if time.Now().Add(lockRetryBackoff).After(deadline) {
			return nil, errors.Wrap(service.ErrLockNotAcquired, key)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "waiting for lock")
		case <-time.After(lockRetryBackoff):
		}
	}
}
