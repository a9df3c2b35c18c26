package distlock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when a lock stays held by someone else for the
// whole wait window.
var ErrNotAcquired = errors.New("distlock: lock not acquired")

// Locker serializes work on a key across processes.
type Locker interface {
	// Lock blocks until the key is held or ctx/wait expires. The returned
	// release func is safe to call once.
	Lock(ctx context.Context, key string) (release func(context.Context) error, err error)
}

const (
	DefaultTTL  = 30 * time.Second
	DefaultWait = 5 * time.Second
)

// Options tune a RedisLocker. The held key is renewed every TTL/3 until
// release, so TTL only bounds how long a crashed holder blocks others.
type Options struct {
	TTL  time.Duration
	Wait time.Duration
	Poll time.Duration
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Wait <= 0 {
		o.Wait = DefaultWait
	}
	if o.Wait > o.TTL {
		o.Wait = o.TTL
	}
	if o.Poll <= 0 {
		o.Poll = 50 * time.Millisecond
	}
	return o
}

// NewLocker uses Redis when a client is configured and a process-local no-op
// otherwise.
func NewLocker(client redis.UniversalClient, opts Options) Locker {
	if client == nil {
		return NoopLocker{}
	}
	return &RedisLocker{client: client, opts: opts.withDefaults()}
}

type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

type RedisLocker struct {
	client redis.UniversalClient
	opts   Options
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	lock := NewRedisLock(l.client, key, l.opts.TTL)
	deadline := time.Now().Add(l.opts.Wait)
	for {
		ok, err := lock.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return l.hold(lock), nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrNotAcquired
		}
		timer := time.NewTimer(l.opts.Poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// hold renews lock in the background until the returned release runs.
func (l *RedisLocker) hold(lock *RedisLock) func(context.Context) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(l.opts.TTL / 3)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), l.opts.TTL/3)
				ok, err := lock.Extend(ctx, l.opts.TTL)
				cancel()
				if err != nil || !ok {
					return
				}
			}
		}
	}()
	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stop) })
		<-done
		return lock.Release(ctx)
	}
}
