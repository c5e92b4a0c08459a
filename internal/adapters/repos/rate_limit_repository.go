package repos

import (
	"context"
	"time"

	"github.com/r-miyahara/devices-api/internal/infrastructure"
	"github.com/throttled/throttled/v2"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimitStore adapts KeydbClient to the throttled.GCRAStoreCtx contract
// so rate limiter state survives restarts and is shared across replicas.
type RateLimitStore struct {
	client *infrastructure.KeydbClient
}

func NewRateLimitStore(client *infrastructure.KeydbClient) throttled.GCRAStoreCtx {
	return &RateLimitStore{client: client}
}

func (s *RateLimitStore) GetWithTime(ctx context.Context, key string) (int64, time.Time, error) {
	return s.client.GetInt64(ctx, rateLimitKeyPrefix+key)
}

func (s *RateLimitStore) SetIfNotExistsWithTTL(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	return s.client.SetInt64NX(ctx, rateLimitKeyPrefix+key, value, ttl)
}

func (s *RateLimitStore) CompareAndSwapWithTTL(ctx context.Context, key string, old, new int64, ttl time.Duration) (bool, error) {
	return s.client.CompareAndSwapInt64(ctx, rateLimitKeyPrefix+key, old, new, ttl)
}
