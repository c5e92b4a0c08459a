package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/r-miyahara/devices-api/pkg/logger"
)

// Recovery converts downstream panics into a 500 response instead of tearing
// down the connection.
func Recovery(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctxLog := log.WithContext(r.Context())
					ctxLog.Error().
						Interface("panic", rec).
						Bytes("stack", debug.Stack()).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
