package middleware

import (
	"net/http"
	"strings"
)

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         string
}

func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-Match", "If-None-Match", "Idempotency-Key", RequestIDHeader},
		MaxAge:         "300",
	}
}

// CORS answers preflight requests and stamps the allow headers on responses.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	allowedOrigins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)

				return
			}

			allowed := origin
			if _, ok := allowedOrigins[origin]; !ok {
				if _, ok := allowedOrigins["*"]; !ok {
					next.ServeHTTP(w, r)

					return
				}

				allowed = "*"
			}

			header := w.Header()
			header.Set("Access-Control-Allow-Origin", allowed)
			header.Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				header.Set("Access-Control-Allow-Methods", methods)
				header.Set("Access-Control-Allow-Headers", headers)
				header.Set("Access-Control-Max-Age", cfg.MaxAge)
				w.WriteHeader(http.StatusNoContent)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
