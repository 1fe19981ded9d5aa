// Package lock provides cross-process mutual exclusion backed by redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
)

const keyPrefix = "lock:"

// RedisLocker obtains short-lived redis locks. Held locks surface as apperrors.ErrConflict.
type RedisLocker struct {
	client *redislock.Client
}

// NewRedisLocker wraps an existing go-redis client.
func NewRedisLocker(rdb redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

// Connect dials addr and checks the server answers before returning a locker.
func Connect(ctx context.Context, addr string) (*RedisLocker, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("%w: redis %s: %v", apperrors.ErrTransport, addr, err)
	}
	return NewRedisLocker(rdb), rdb, nil
}

var _ portssvc.Locker = (*RedisLocker)(nil)

func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	held, err := l.client.Obtain(ctx, keyPrefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: lock %s is held", apperrors.ErrConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: obtaining lock %s: %v", apperrors.ErrTransport, key, err)
	}
	return func(ctx context.Context) error {
		if err := held.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("%w: releasing lock %s: %v", apperrors.ErrTransport, key, err)
		}
		return nil
	}, nil
}
