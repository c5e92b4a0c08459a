package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/r-miyahara/devices-api/internal/adapters/inbound/http/handlers"
	"github.com/r-miyahara/devices-api/internal/adapters/inbound/http/middleware"
	"github.com/r-miyahara/devices-api/internal/config"
	"github.com/r-miyahara/devices-api/internal/usecases"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/r-miyahara/devices-api/pkg/metrics"
	"github.com/throttled/throttled/v2"
)

const baseURL = "/v1"

type RouterConfig struct {
	App            *usecases.Application
	Logger         logger.Logger
	MetricsClient  metrics.Client
	Config         *config.ServiceConfig
	RateLimitStore throttled.GCRAStoreCtx
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(chimiddleware.Timeout(cfg.Config.HTTPServer.WriteTimeout))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	if cfg.Config.RateLimit.Enabled && cfg.RateLimitStore != nil {
		rateLimiter, err := middleware.RateLimiting(cfg.Config.RateLimit, cfg.RateLimitStore, cfg.Logger)
		if err != nil {
			cfg.Logger.Fatal().Err(err).Msg("failed to create rate limiter")
		}

		router.Use(rateLimiter)
		cfg.Logger.Info().
			Uint("requests_per_second", cfg.Config.RateLimit.RequestsPerSecond).
			Uint("burst_size", cfg.Config.RateLimit.BurstSize).
			Msg("rate limiting enabled")
	}

	if cfg.Config.Logging.AccessLogEnabled {
		router.Use(middleware.AccessLog(cfg.Logger))
	}

	devicesHandler := handlers.NewDevicesHandler(cfg.App)
	healthHandler := handlers.NewHealthHandler(cfg.App)

	router.Route(baseURL, func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/health/live", healthHandler.Liveness)
		r.Get("/health/ready", healthHandler.Readiness)

		r.Route("/devices", func(r chi.Router) {
			r.With(middleware.ConditionalGET(middleware.NewETagGenerator())).
				Get("/", devicesHandler.ListDevices)
			r.Post("/", devicesHandler.CreateDevice)

			r.Route("/{deviceID}", func(r chi.Router) {
				r.Get("/", devicesHandler.GetDevice)
				r.Put("/", devicesHandler.ReplaceDevice)
				r.Patch("/", devicesHandler.PatchDevice)
				r.Delete("/", devicesHandler.DeleteDevice)
			})
		})
	})

	return router
}
