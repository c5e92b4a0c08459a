package services_test

import (
	"testing"
	"time"

	"github.com/r-miyahara/devices-api/internal/adapters/repos"
	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/internal/services"
	"github.com/r-miyahara/devices-api/pkg/clock"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestJanitor_SweepPurgesOnlyExpiredRecords(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	clk := clock.NewFixedClock(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	store := repos.NewMemoryIdempotencyStore(clk)

	require.NoError(t, store.SaveIfAbsent(ctx, "short", model.NewDeviceID(), clk.Now(), time.Minute))
	require.NoError(t, store.SaveIfAbsent(ctx, "long", model.NewDeviceID(), clk.Now(), time.Hour))

	clk.Advance(10 * time.Minute)

	janitor := services.NewJanitor(store, clk, time.Hour, logger.NewTestLogger())
	janitor.Sweep(ctx)

	_, ok, err := store.Get(ctx, "short")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.Get(ctx, "long")
	require.NoError(t, err)
	require.True(t, ok)
}
