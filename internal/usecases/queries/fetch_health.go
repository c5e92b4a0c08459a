package queries

import (
	"context"
	"time"

	"github.com/r-miyahara/devices-api/internal/ports"
	"github.com/r-miyahara/devices-api/pkg/decorator"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/r-miyahara/devices-api/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	HealthStatusOK   = "ok"
	HealthStatusDown = "down"
)

type (
	FetchLivenessQuery  struct{}
	FetchReadinessQuery struct{}

	HealthReport struct {
		Status    string
		Timestamp time.Time
	}

	FetchLivenessQueryHandler  = decorator.QueryHandler[FetchLivenessQuery, HealthReport]
	FetchReadinessQueryHandler = decorator.QueryHandler[FetchReadinessQuery, HealthReport]

	fetchLivenessQueryHandler struct{}

	fetchReadinessQueryHandler struct {
		dbHealthChecker ports.DatabaseHealthChecker
	}
)

func NewFetchLivenessQueryHandler(
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FetchLivenessQueryHandler {
	return decorator.ApplyQueryDecorators[FetchLivenessQuery, HealthReport](
		fetchLivenessQueryHandler{},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h fetchLivenessQueryHandler) Execute(context.Context, FetchLivenessQuery) (HealthReport, error) {
	return HealthReport{Status: HealthStatusOK, Timestamp: time.Now().UTC()}, nil
}

func NewFetchReadinessQueryHandler(
	dbHealthChecker ports.DatabaseHealthChecker,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FetchReadinessQueryHandler {
	return decorator.ApplyQueryDecorators[FetchReadinessQuery, HealthReport](
		fetchReadinessQueryHandler{dbHealthChecker: dbHealthChecker},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h fetchReadinessQueryHandler) Execute(ctx context.Context, _ FetchReadinessQuery) (HealthReport, error) {
	report := HealthReport{Status: HealthStatusOK, Timestamp: time.Now().UTC()}

	if err := h.dbHealthChecker.Ping(ctx); err != nil {
		report.Status = HealthStatusDown
	}

	return report, nil
}
