package repos_test

import (
	"sync"
	"testing"
	"time"

	"github.com/r-miyahara/devices-api/internal/adapters/repos"
	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/pkg/clock"
	"github.com/stretchr/testify/require"
)

const testKeyTTL = 24 * time.Hour

func TestMemoryIdempotencyStore_FirstWriterWins(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clk := clock.NewFixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	store := repos.NewMemoryIdempotencyStore(clk)

	first := model.NewDeviceID()
	second := model.NewDeviceID()

	require.NoError(t, store.SaveIfAbsent(ctx, "key", first, clk.Now(), testKeyTTL))
	require.NoError(t, store.SaveIfAbsent(ctx, "key", second, clk.Now(), testKeyTTL))

	got, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, first, got)
}

func TestMemoryIdempotencyStore_ExpiryIsFilteredAtReadTime(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clk := clock.NewFixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	store := repos.NewMemoryIdempotencyStore(clk)

	resourceID := model.NewDeviceID()
	require.NoError(t, store.SaveIfAbsent(ctx, "key", resourceID, clk.Now(), testKeyTTL))

	clk.Advance(testKeyTTL - time.Second)

	_, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok, "record must stay live until the ttl elapses")

	clk.Advance(time.Second)

	_, ok, err = store.Get(ctx, "key")
	require.NoError(t, err)
	require.False(t, ok, "record must count as absent once expired")
}

func TestMemoryIdempotencyStore_ExpiredRecordIsOverwritten(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clk := clock.NewFixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	store := repos.NewMemoryIdempotencyStore(clk)

	stale := model.NewDeviceID()
	require.NoError(t, store.SaveIfAbsent(ctx, "key", stale, clk.Now(), testKeyTTL))

	clk.Advance(testKeyTTL + time.Minute)

	fresh := model.NewDeviceID()
	require.NoError(t, store.SaveIfAbsent(ctx, "key", fresh, clk.Now(), testKeyTTL))

	got, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fresh, got)
}

func TestMemoryIdempotencyStore_ConcurrentClaimsSingleWinner(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clk := clock.NewFixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	store := repos.NewMemoryIdempotencyStore(clk)

	const writers = 32

	candidates := make([]model.DeviceID, writers)
	for i := range candidates {
		candidates[i] = model.NewDeviceID()
	}

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_ = store.SaveIfAbsent(ctx, "key", candidates[i], clk.Now(), testKeyTTL)
		}()
	}
	wg.Wait()

	winner, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, candidates, winner)

	// The winner must be stable on every subsequent read.
	again, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, winner, again)
}

func TestMemoryIdempotencyStore_PurgeExpired(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clk := clock.NewFixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	store := repos.NewMemoryIdempotencyStore(clk)

	require.NoError(t, store.SaveIfAbsent(ctx, "old", model.NewDeviceID(), clk.Now(), time.Hour))
	require.NoError(t, store.SaveIfAbsent(ctx, "fresh", model.NewDeviceID(), clk.Now(), testKeyTTL))

	clk.Advance(2 * time.Hour)

	purged, err := store.PurgeExpired(ctx, clk.Now())
	require.NoError(t, err)
	require.Equal(t, 1, purged)

	_, ok, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, ok)
}
