// Package decorator layers logging, metrics, and tracing around CQRS
// command and query handlers.
package decorator

import (
	"context"
	"fmt"
	"strings"

	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/r-miyahara/devices-api/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Command any

	// CommandHandler executes a state-changing operation and returns its
	// result.
	CommandHandler[C Command, R any] interface {
		Handle(context.Context, C) (R, error)
	}
)

// ApplyCommandDecorators wraps handler so every command is traced, counted,
// and logged, innermost first.
func ApplyCommandDecorators[C Command, R any](
	handler CommandHandler[C, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CommandHandler[C, R] {
	return commandLoggingDecorator[C, R]{
		base: commandMetricsDecorator[C, R]{
			base: commandTracingDecorator[C, R]{
				base:           handler,
				tracerProvider: tracerProvider,
			},
			client: metricsClient,
		},
		logger: log,
	}
}

// generateActionName derives the log/span label from the command or query
// type name, stripped of its package qualifier.
func generateActionName(handler any) string {
	return strings.Split(fmt.Sprintf("%T", handler), ".")[1]
}
