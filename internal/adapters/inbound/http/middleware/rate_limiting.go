package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/r-miyahara/devices-api/internal/config"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/throttled/throttled/v2"
)

const (
	RateLimitLimitHeader     = "RateLimit-Limit"
	RateLimitRemainingHeader = "RateLimit-Remaining"
	RateLimitResetHeader     = "RateLimit-Reset"
	RetryAfterHeader         = "Retry-After"
)

// RateLimiting enforces a per-client GCRA quota keyed by remote IP. Store
// failures degrade to letting the request through.
func RateLimiting(cfg config.RateLimit, store throttled.GCRAStoreCtx, log logger.Logger) (func(http.Handler) http.Handler, error) {
	quota := throttled.RateQuota{
		MaxRate:  throttled.PerSec(int(cfg.RequestsPerSecond)),
		MaxBurst: int(cfg.BurstSize),
	}

	rateLimiter, err := throttled.NewGCRARateLimiterCtx(store, quota)
	if err != nil {
		return nil, err
	}

	skipPaths := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := skipPaths[r.URL.Path]; skip {
				next.ServeHTTP(w, r)

				return
			}

			key := "ip:" + clientIP(r.RemoteAddr)

			limited, result, err := rateLimiter.RateLimitCtx(r.Context(), key, 1)
			if err != nil {
				ctxLog := log.WithContext(r.Context())
				ctxLog.Warn().Err(err).Msg("rate limiter store error")
				next.ServeHTTP(w, r)

				return
			}

			setRateLimitHeaders(w, result)

			if limited {
				w.Header().Set(RetryAfterHeader, strconv.Itoa(int(result.RetryAfter.Seconds())))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)

				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func clientIP(remoteAddr string) string {
	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}

	return remoteAddr
}

func setRateLimitHeaders(w http.ResponseWriter, result throttled.RateLimitResult) {
	w.Header().Set(RateLimitLimitHeader, strconv.Itoa(result.Limit))
	w.Header().Set(RateLimitRemainingHeader, strconv.Itoa(result.Remaining))
	w.Header().Set(RateLimitResetHeader, strconv.FormatInt(time.Now().Add(result.ResetAfter).Unix(), 10))
}
