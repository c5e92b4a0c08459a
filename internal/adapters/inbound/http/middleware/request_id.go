package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/r-miyahara/devices-api/pkg/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID propagates an incoming request identifier or mints a fresh one,
// exposing it on the response and in the logging context.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := logger.WithRequestID(r.Context(), requestID)
			w.Header().Set(RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
