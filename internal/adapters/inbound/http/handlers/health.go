package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/r-miyahara/devices-api/internal/config"
	"github.com/r-miyahara/devices-api/internal/usecases"
	"github.com/r-miyahara/devices-api/internal/usecases/queries"
)

type (
	healthStatusResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}

	HealthHandler struct {
		app       *usecases.Application
		startTime time.Time
	}
)

func NewHealthHandler(app *usecases.Application) *HealthHandler {
	return &HealthHandler{
		app:       app,
		startTime: time.Now().UTC(),
	}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	report, err := h.app.Queries.FetchLiveness.Execute(r.Context(), queries.FetchLivenessQuery{})
	if err != nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, healthStatusResponse{
			Status:    queries.HealthStatusDown,
			Timestamp: time.Now().UTC(),
		})

		return
	}

	writeJSONResponse(w, http.StatusOK, healthStatusResponse{
		Status:    report.Status,
		Timestamp: report.Timestamp,
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	report, err := h.app.Queries.FetchReadiness.Execute(r.Context(), queries.FetchReadinessQuery{})
	if err != nil || report.Status != queries.HealthStatusOK {
		status := queries.HealthStatusDown
		timestamp := time.Now().UTC()

		if err == nil {
			status = report.Status
			timestamp = report.Timestamp
		}

		writeJSONResponse(w, http.StatusServiceUnavailable, healthStatusResponse{
			Status:    status,
			Timestamp: timestamp,
		})

		return
	}

	writeJSONResponse(w, http.StatusOK, healthStatusResponse{
		Status:    report.Status,
		Timestamp: report.Timestamp,
	})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	report, err := h.app.Queries.FetchReadiness.Execute(r.Context(), queries.FetchReadinessQuery{})

	status := queries.HealthStatusOK
	httpStatus := http.StatusOK

	if err != nil || report.Status != queries.HealthStatusOK {
		status = queries.HealthStatusDown
		httpStatus = http.StatusServiceUnavailable
	}

	uptime := time.Since(h.startTime)

	writeJSONResponse(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"version": map[string]any{
			"api":   config.ServiceVersion,
			"build": config.CommitSHA,
			"go":    runtime.Version(),
		},
		"uptime": map[string]any{
			"duration":        uptime.String(),
			"durationSeconds": int(uptime.Seconds()),
			"startedAt":       h.startTime,
		},
		"system": map[string]any{
			"cpuCores":   runtime.NumCPU(),
			"goroutines": runtime.NumGoroutine(),
		},
	})
}
