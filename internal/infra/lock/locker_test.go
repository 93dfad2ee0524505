package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"basket/internal/domain/service"
	"basket/internal/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return mr, client
}

func TestRedisLocker_LockAndRelease(t *testing.T) {
	mr, client := setupTestRedis(t)
	locker := NewRedisLocker(client, time.Second, 100*time.Millisecond)
	ctx := context.Background()

	release, err := locker.Lock(ctx, "cart:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(lockKeyPrefix+"cart:1"))

	_, err = locker.Lock(ctx, "cart:1")
	assert.True(t, errors.Is(err, service.ErrLockNotAcquired))

	_, err = locker.Lock(ctx, "cart:2")
	require.NoError(t, err)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(lockKeyPrefix+"cart:1"))

	_, err = locker.Lock(ctx, "cart:1")
	assert.NoError(t, err)
}

func TestRedisLocker_ReleaseAfterExpiryKeepsNewHolder(t *testing.T) {
	mr, client := setupTestRedis(t)
	locker := NewRedisLocker(client, time.Second, 100*time.Millisecond)
	ctx := context.Background()

	staleRelease, err := locker.Lock(ctx, "cart:1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = locker.Lock(ctx, "cart:1")
	require.NoError(t, err)

	require.NoError(t, staleRelease(ctx))
	assert.True(t, mr.Exists(lockKeyPrefix+"cart:1"))
}

func TestRedisLocker_RedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	locker := NewRedisLocker(client, time.Second, 100*time.Millisecond)
	mr.Close()

	_, err := locker.Lock(context.Background(), "cart:1")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrLockNotAcquired))
}

func TestMemoryLocker_MutualExclusion(t *testing.T) {
	locker := NewMemoryLocker(5 * time.Second)
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := locker.Lock(ctx, "cart:1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			assert.NoError(t, release(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, locker.(*memoryLocker).slots)
}

func TestMemoryLocker_WaitBudget(t *testing.T) {
	locker := NewMemoryLocker(20 * time.Millisecond)
	ctx := context.Background()

	release, err := locker.Lock(ctx, "cart:1")
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "cart:1")
	assert.True(t, errors.Is(err, service.ErrLockNotAcquired))

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx))

	release, err = locker.Lock(ctx, "cart:1")
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestMemoryLocker_ContextCancelled(t *testing.T) {
	locker := NewMemoryLocker(time.Second)

	release, err := locker.Lock(context.Background(), "cart:1")
	require.NoError(t, err)
	defer func() { _ = release(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = locker.Lock(ctx, "cart:1")
	assert.ErrorIs(t, err, context.Canceled)
}
