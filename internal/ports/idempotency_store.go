package ports

import (
	"context"
	"time"

	"github.com/r-miyahara/devices-api/internal/domain/model"
)

// IdempotencyStore deduplicates creation requests replayed with the same
// caller-supplied key.
//
// SaveIfAbsent must be atomic per key: when two writers race on the same
// fresh key, exactly one mapping wins and later Gets return it. A live
// record is never overwritten; an expired one is, and that is the only case
// where a key's mapping changes.
type IdempotencyStore interface {
	// Get returns the mapped resource id when a record exists for key and
	// has not expired at read time. Expired records count as absent.
	Get(ctx context.Context, key string) (model.DeviceID, bool, error)

	// SaveIfAbsent inserts key -> resourceID with expiry now+ttl, or
	// overwrites an already-expired record. A live record makes the call
	// a no-op (first-writer-wins within the TTL window).
	SaveIfAbsent(ctx context.Context, key string, resourceID model.DeviceID, now time.Time, ttl time.Duration) error

	// PurgeExpired removes every record whose expiry precedes now and
	// returns how many were dropped. Housekeeping only; Get and
	// SaveIfAbsent stay correct without it.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
