package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/r-miyahara/devices-api/internal/adapters/inbound/http/middleware"
	"github.com/r-miyahara/devices-api/internal/config"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/stretchr/testify/require"
	"github.com/throttled/throttled/v2/store/memstore"
)

func newRateLimitedHandler(t *testing.T, cfg config.RateLimit) http.Handler {
	t.Helper()

	store, err := memstore.NewCtx(int(cfg.MaxKeys))
	require.NoError(t, err)

	limit, err := middleware.RateLimiting(cfg, store, logger.NewTestLogger())
	require.NoError(t, err)

	return limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimiting_AllowsWithinQuota(t *testing.T) {
	t.Parallel()

	handler := newRateLimitedHandler(t, config.RateLimit{
		RequestsPerSecond: 100,
		BurstSize:         100,
		MaxKeys:           64,
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/devices", nil)
	req.RemoteAddr = "10.0.0.1:4321"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(middleware.RateLimitLimitHeader))
	require.NotEmpty(t, rec.Header().Get(middleware.RateLimitRemainingHeader))
}

func TestRateLimiting_RejectsBeyondBurst(t *testing.T) {
	t.Parallel()

	handler := newRateLimitedHandler(t, config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         1,
		MaxKeys:           64,
	})

	var lastCode int
	for range 5 {
		req := httptest.NewRequest(http.MethodGet, "/v1/devices", nil)
		req.RemoteAddr = "10.0.0.1:4321"

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code

		if lastCode == http.StatusTooManyRequests {
			require.NotEmpty(t, rec.Header().Get(middleware.RetryAfterHeader))

			break
		}
	}

	require.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestRateLimiting_SkipsConfiguredPaths(t *testing.T) {
	t.Parallel()

	handler := newRateLimitedHandler(t, config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         0,
		MaxKeys:           64,
		SkipPaths:         []string{"/v1/health"},
	})

	for range 10 {
		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		req.RemoteAddr = "10.0.0.1:4321"

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	}
}
