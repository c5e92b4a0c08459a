package middleware

import (
	"net/http"
	"time"

	"github.com/r-miyahara/devices-api/pkg/logger"
)

// AccessLog emits one structured line per request with method, path, status,
// byte count and latency.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := NewStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			ctxLog := log.WithContext(r.Context())
			ctxLog.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Int("status", recorder.Status).
				Int("bytes_out", recorder.BytesOut).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Msg("request completed")
		})
	}
}
