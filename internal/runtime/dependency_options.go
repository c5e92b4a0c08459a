package runtime

import (
	"context"
	"fmt"
	"net/http"

	inboundhttp "github.com/r-miyahara/devices-api/internal/adapters/inbound/http"
	"github.com/r-miyahara/devices-api/internal/adapters/repos"
	"github.com/r-miyahara/devices-api/internal/config"
	"github.com/r-miyahara/devices-api/internal/infrastructure"
	"github.com/r-miyahara/devices-api/internal/services"
	"github.com/r-miyahara/devices-api/internal/usecases"
	"github.com/r-miyahara/devices-api/pkg/circuitbreaker"
	"github.com/r-miyahara/devices-api/pkg/clock"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/r-miyahara/devices-api/pkg/metrics/noop"
	"github.com/throttled/throttled/v2/store/memstore"
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithLogger(),
		WithClock(),
		WithMetrics(),
		WithTracing(ctx),
		WithDeviceStorage(ctx),
		WithIdempotencyStore(),
		WithRateLimitStore(),
		WithDevicesService(),
		WithJanitor(),
		WithApplication(),
		WithHTTPServer(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.Logging.Format)

		return nil
	}
}

func WithClock() DependencyOption {
	return func(d *dependencies) error {
		d.clock = clock.NewSystemClock()

		return nil
	}
}

func WithMetrics() DependencyOption {
	return func(d *dependencies) error {
		d.infra.metricsClient = noop.NewMetricsClient()

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		tp, shutdown, err := infrastructure.NewTracerProvider(ctx, d.config.Telemetry)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.cleanupFuncs["tracer"] = shutdown

		return nil
	}
}

// WithDeviceStorage selects the device persistence backend. Postgres is the
// production choice; memory serves local development and tests.
func WithDeviceStorage(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		switch d.config.Storage.DevicesBackend {
		case config.StorageBackendPostgres:
			pool, err := infrastructure.NewPostgresPool(ctx, d.config.Database)
			if err != nil {
				return fmt.Errorf("connecting to postgres: %w", err)
			}

			d.infra.postgresPool = pool
			d.cleanupFuncs["postgres"] = func(context.Context) error {
				pool.Close()

				return nil
			}

			repo := repos.NewDevicesRepository(pool, repos.NewPgxScanner(), d.infra.logger)
			d.repos.devicesRepo = repo
			d.repos.dbHealthChecker = repo
		case config.StorageBackendMemory:
			repo := repos.NewMemoryDevicesRepository()
			d.repos.devicesRepo = repo
			d.repos.dbHealthChecker = repo
		default:
			return fmt.Errorf("unknown devices storage backend %q", d.config.Storage.DevicesBackend)
		}

		return nil
	}
}

func WithIdempotencyStore() DependencyOption {
	return func(d *dependencies) error {
		switch d.config.Storage.IdempotencyBackend {
		case config.IdempotencyBackendKeydb:
			d.infra.cacheClient = infrastructure.NewKeydbClient(d.config.Cache, d.infra.logger)
			d.cleanupFuncs["keydb"] = func(context.Context) error {
				return d.infra.cacheClient.Close()
			}

			breaker := circuitbreaker.New[string](circuitbreaker.Config{
				Name:             "idempotency-keydb",
				Enabled:          d.config.Idempotency.BreakerEnabled,
				FailureThreshold: d.config.Idempotency.BreakerThreshold,
				Timeout:          d.config.Idempotency.BreakerTimeout,
			})

			d.repos.idempotencyStore = repos.NewIdempotencyRepository(d.infra.cacheClient, breaker)
		case config.IdempotencyBackendMemory:
			d.repos.idempotencyStore = repos.NewMemoryIdempotencyStore(d.clock)
		default:
			return fmt.Errorf("unknown idempotency backend %q", d.config.Storage.IdempotencyBackend)
		}

		return nil
	}
}

// WithRateLimitStore backs the rate limiter with KeyDB when available so
// counters are shared across replicas, and an in-process LRU store otherwise.
func WithRateLimitStore() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.RateLimit.Enabled {
			return nil
		}

		if d.infra.cacheClient != nil {
			d.repos.rateLimitStore = repos.NewRateLimitStore(d.infra.cacheClient)

			return nil
		}

		store, err := memstore.NewCtx(int(d.config.RateLimit.MaxKeys))
		if err != nil {
			return fmt.Errorf("creating rate limit store: %w", err)
		}

		d.repos.rateLimitStore = store

		return nil
	}
}

func WithDevicesService() DependencyOption {
	return func(d *dependencies) error {
		d.services.devices = services.NewDevicesService(
			d.repos.devicesRepo,
			d.repos.idempotencyStore,
			d.clock,
			d.config.Idempotency.KeyTTL,
			d.infra.logger,
		)

		return nil
	}
}

func WithJanitor() DependencyOption {
	return func(d *dependencies) error {
		d.services.janitor = services.NewJanitor(
			d.repos.idempotencyStore,
			d.clock,
			d.config.Idempotency.PurgeInterval,
			d.infra.logger,
		)

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		d.app = usecases.NewApplication(
			d.services.devices,
			d.repos.dbHealthChecker,
			d.infra.logger,
			d.infra.tracerProvider,
			d.infra.metricsClient,
		)

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *dependencies) error {
		router := inboundhttp.NewRouter(inboundhttp.RouterConfig{
			App:            d.app,
			Logger:         d.infra.logger,
			MetricsClient:  d.infra.metricsClient,
			Config:         d.config,
			RateLimitStore: d.repos.rateLimitStore,
		})

		d.infra.httpServer = &http.Server{
			Handler:      router,
			ReadTimeout:  d.config.HTTPServer.ReadTimeout,
			WriteTimeout: d.config.HTTPServer.WriteTimeout,
			IdleTimeout:  d.config.HTTPServer.IdleTimeout,
		}

		return nil
	}
}
