package repos

import (
	"context"
	"sync"
	"time"

	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/pkg/clock"
)

type (
	idempotencyRecord struct {
		resourceID model.DeviceID
		createdAt  time.Time
		expiresAt  time.Time
	}

	// MemoryIdempotencyStore keeps key -> resource id mappings in process
	// memory. Atomicity is per key via sync.Map compare-and-swap, never a
	// global lock: at most one live record can exist for a key.
	MemoryIdempotencyStore struct {
		records sync.Map // string -> idempotencyRecord
		clock   clock.Clock
	}
)

func NewMemoryIdempotencyStore(clk clock.Clock) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{clock: clk}
}

// Get filters expiry at read time: an expired record is treated as absent
// without being deleted.
func (s *MemoryIdempotencyStore) Get(_ context.Context, key string) (model.DeviceID, bool, error) {
	value, ok := s.records.Load(key)
	if !ok {
		return model.DeviceID{}, false, nil
	}

	record := value.(idempotencyRecord)
	if !record.expiresAt.After(s.clock.Now()) {
		return model.DeviceID{}, false, nil
	}

	return record.resourceID, true, nil
}

// SaveIfAbsent claims the key for resourceID unless a live record already
// holds it. An expired record is the only mapping that gets overwritten.
func (s *MemoryIdempotencyStore) SaveIfAbsent(
	_ context.Context,
	key string,
	resourceID model.DeviceID,
	now time.Time,
	ttl time.Duration,
) error {
	fresh := idempotencyRecord{
		resourceID: resourceID,
		createdAt:  now,
		expiresAt:  now.Add(ttl),
	}

	for {
		existing, loaded := s.records.LoadOrStore(key, fresh)
		if !loaded {
			return nil
		}

		record := existing.(idempotencyRecord)
		if record.expiresAt.After(now) {
			// Live record: first writer wins within the TTL window.
			return nil
		}

		if s.records.CompareAndSwap(key, existing, fresh) {
			return nil
		}
		// Lost the swap race; re-evaluate against the new record.
	}
}

// PurgeExpired drops every record whose expiry precedes now. The
// CompareAndDelete keeps a record that was concurrently refreshed alive.
func (s *MemoryIdempotencyStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	purged := 0

	s.records.Range(func(key, value any) bool {
		record := value.(idempotencyRecord)
		if record.expiresAt.Before(now) && s.records.CompareAndDelete(key, value) {
			purged++
		}

		return true
	})

	return purged, nil
}
