package reputation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "regpolicy:reputation"

// RedisStore counts attempts in Redis so multiple evaluator instances
// share one view of requester reputation. The caller bounds each call with
// a context deadline; a store failure surfaces as an error for the engine
// to resolve per its fail mode.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	window time.Duration
}

// RedisStoreOption customizes a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

// NewRedisStore creates a RedisStore over an existing client.
func NewRedisStore(rdb *redis.Client, window time.Duration, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: defaultRedisPrefix,
		window: window,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IncrementAndCheck records one attempt for key and returns the count
// within the current window, including this attempt. The window TTL is set
// only when the counter is created, so the window is fixed from the first
// attempt. Redis INCR never loses concurrent increments.
func (s *RedisStore) IncrementAndCheck(ctx context.Context, key string, now time.Time) (count int64, err error) {
	k := s.prefix + ":" + key

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, s.window)

	if _, execErr := pipe.Exec(ctx); execErr != nil {
		err = fmt.Errorf("reputation store unavailable: %v", execErr)
		return
	}

	count = incr.Val()
	return
}
