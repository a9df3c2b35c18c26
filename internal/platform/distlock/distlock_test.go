package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLockOwnership(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "article:1", time.Minute)
	b := NewRedisLock(client, "article:1", time.Minute)

	ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must not acquire")

	// Releasing someone else's lock is a no-op.
	require.NoError(t, b.Release(ctx))
	assert.True(t, mr.Exists("lock:article:1"))

	extended, err := a.Extend(ctx, 2*time.Minute)
	require.NoError(t, err)
	assert.True(t, extended)
	extended, err = b.Extend(ctx, 2*time.Minute)
	require.NoError(t, err)
	assert.False(t, extended)

	require.NoError(t, a.Release(ctx))
	assert.False(t, mr.Exists("lock:article:1"))
}

func TestRedisLockExpires(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "k", time.Second)
	ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	b := NewRedisLock(client, "k", time.Second)
	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock must be reacquirable")
}

func TestRedisLockerWaitsThenGivesUp(t *testing.T) {
	_, client := newRedis(t)
	ctx := context.Background()
	locker := NewLocker(client, Options{TTL: time.Minute, Wait: 100 * time.Millisecond, Poll: 10 * time.Millisecond})

	release, err := locker.Lock(ctx, "article:2")
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "article:2")
	assert.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, release(ctx))
	release2, err := locker.Lock(ctx, "article:2")
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}

func TestRedisLockerHonorsContext(t *testing.T) {
	_, client := newRedis(t)
	locker := NewLocker(client, Options{TTL: time.Minute, Wait: time.Minute, Poll: 10 * time.Millisecond})

	release, err := locker.Lock(context.Background(), "busy")
	require.NoError(t, err)
	defer func() { _ = release(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "busy")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisLockerRenewsWhileHeld(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	locker := NewLocker(client, Options{TTL: 300 * time.Millisecond, Poll: 10 * time.Millisecond})

	release, err := locker.Lock(ctx, "long")
	require.NoError(t, err)

	// Without renewal the key would be gone after the second fast-forward.
	mr.FastForward(200 * time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	mr.FastForward(200 * time.Millisecond)
	assert.True(t, mr.Exists("lock:long"))

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("lock:long"))
}

func TestRedisLockerDefaultWaitQueues(t *testing.T) {
	_, client := newRedis(t)
	ctx := context.Background()
	locker := NewLocker(client, Options{TTL: 30 * time.Second, Poll: 5 * time.Millisecond})

	release, err := locker.Lock(ctx, "article:3")
	require.NoError(t, err)
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = release(context.Background())
	}()

	start := time.Now()
	release2, err := locker.Lock(ctx, "article:3")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	require.NoError(t, release2(ctx))
}

func TestNewLockerWithoutRedisIsNoop(t *testing.T) {
	locker := NewLocker(nil, Options{})
	_, isNoop := locker.(NoopLocker)
	require.True(t, isNoop)

	release, err := locker.Lock(context.Background(), "x")
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}
