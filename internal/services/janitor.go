package services

import (
	"context"
	"time"

	"github.com/r-miyahara/devices-api/internal/ports"
	"github.com/r-miyahara/devices-api/pkg/clock"
	"github.com/r-miyahara/devices-api/pkg/logger"
)

// Janitor periodically sweeps expired idempotency records. The sweep is
// housekeeping only; the store's read/write paths already filter by expiry.
type Janitor struct {
	store    ports.IdempotencyStore
	clock    clock.Clock
	interval time.Duration
	logger   logger.Logger
}

func NewJanitor(store ports.IdempotencyStore, clk clock.Clock, interval time.Duration, log logger.Logger) *Janitor {
	return &Janitor{
		store:    store,
		clock:    clk,
		interval: interval,
		logger:   log,
	}
}

// Run blocks until ctx is cancelled, purging on every tick.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs a single purge pass against the clock's current instant.
func (j *Janitor) Sweep(ctx context.Context) {
	purged, err := j.store.PurgeExpired(ctx, j.clock.Now())
	if err != nil {
		ctxLog := j.logger.WithContext(ctx)
		ctxLog.Warn().Err(err).Msg("idempotency purge sweep failed")

		return
	}

	if purged > 0 {
		ctxLog := j.logger.WithContext(ctx)
		ctxLog.Debug().
			Int("purged", purged).
			Msg("purged expired idempotency records")
	}
}
