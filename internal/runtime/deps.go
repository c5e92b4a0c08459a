package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/r-miyahara/devices-api/internal/config"
	"github.com/r-miyahara/devices-api/internal/infrastructure"
	"github.com/r-miyahara/devices-api/internal/ports"
	"github.com/r-miyahara/devices-api/internal/services"
	"github.com/r-miyahara/devices-api/internal/usecases"
	"github.com/r-miyahara/devices-api/pkg/clock"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/r-miyahara/devices-api/pkg/metrics"
	"github.com/throttled/throttled/v2"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	infrastructureDep struct {
		httpServer     *http.Server
		postgresPool   *pgxpool.Pool
		cacheClient    *infrastructure.KeydbClient
		logger         logger.Logger
		metricsClient  metrics.Client
		tracerProvider otelTrace.TracerProvider
	}

	repositories struct {
		devicesRepo      ports.DeviceRepository
		idempotencyStore ports.IdempotencyStore
		rateLimitStore   throttled.GCRAStoreCtx
		dbHealthChecker  ports.DatabaseHealthChecker
	}

	servicesDep struct {
		devices ports.DevicesService
		janitor *services.Janitor
	}

	dependencies struct {
		config *config.ServiceConfig
		clock  clock.Clock

		infra infrastructureDep

		repos repositories

		services servicesDep

		app *usecases.Application

		cleanupFuncs map[string]func(ctx context.Context) error
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{
		cleanupFuncs: make(map[string]func(ctx context.Context) error),
	}

	allOpts := append(defaultOptions(ctx), opts...)

	for _, opt := range allOpts {
		if err := opt(deps); err != nil {
			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}
