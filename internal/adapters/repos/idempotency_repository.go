package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/internal/infrastructure"
	"github.com/r-miyahara/devices-api/pkg/circuitbreaker"
)

const idempotencyKeyPrefix = "idempotency:"

// IdempotencyRepository is the KeyDB-backed idempotency store. SETNX gives
// the same per-key check-and-set atomicity as the in-memory variant, and
// native TTL expiry stands in for read-time filtering: an expired key is
// simply gone, so the next SETNX claims it.
//
// Calls run through a circuit breaker so a struggling KeyDB degrades the
// replay protection instead of taking creation down with it.
type IdempotencyRepository struct {
	client  *infrastructure.KeydbClient
	breaker *circuitbreaker.CircuitBreaker[string]
}

func NewIdempotencyRepository(
	client *infrastructure.KeydbClient,
	breaker *circuitbreaker.CircuitBreaker[string],
) *IdempotencyRepository {
	return &IdempotencyRepository{
		client:  client,
		breaker: breaker,
	}
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string) (model.DeviceID, bool, error) {
	value, err := circuitbreaker.Execute(r.breaker, func() (string, error) {
		return r.client.Get(ctx, idempotencyKeyPrefix+key)
	})
	if err != nil {
		if errors.Is(err, infrastructure.ErrCacheMiss) {
			return model.DeviceID{}, false, nil
		}

		return model.DeviceID{}, false, fmt.Errorf("getting idempotency record: %w", err)
	}

	resourceID, err := model.ParseDeviceID(value)
	if err != nil {
		return model.DeviceID{}, false, fmt.Errorf("parsing stored resource id: %w", err)
	}

	return resourceID, true, nil
}

func (r *IdempotencyRepository) SaveIfAbsent(
	ctx context.Context,
	key string,
	resourceID model.DeviceID,
	_ time.Time,
	ttl time.Duration,
) error {
	// SETNX is a no-op on a live key, which is exactly first-writer-wins.
	_, err := circuitbreaker.Execute(r.breaker, func() (string, error) {
		_, err := r.client.SetNX(ctx, idempotencyKeyPrefix+key, resourceID.String(), ttl)

		return "", err
	})
	if err != nil {
		return fmt.Errorf("saving idempotency record: %w", err)
	}

	return nil
}

// PurgeExpired is satisfied by KeyDB's own TTL eviction; nothing to sweep.
func (r *IdempotencyRepository) PurgeExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (r *IdempotencyRepository) IsHealthy(ctx context.Context) bool {
	return r.client.Ping(ctx) == nil
}
