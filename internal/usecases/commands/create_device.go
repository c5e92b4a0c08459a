package commands

import (
	"context"

	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/internal/ports"
	"github.com/r-miyahara/devices-api/pkg/decorator"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/r-miyahara/devices-api/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	CreateDeviceCommand struct {
		Name           string
		Brand          string
		State          *model.State
		IdempotencyKey string
	}

	CreateDeviceCommandHandler = decorator.CommandHandler[CreateDeviceCommand, ports.CreateDeviceResult]

	createDeviceCommandHandler struct {
		devicesService ports.DevicesService
	}
)

func NewCreateDeviceCommandHandler(
	svc ports.DevicesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CreateDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[CreateDeviceCommand, ports.CreateDeviceResult](
		createDeviceCommandHandler{devicesService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h createDeviceCommandHandler) Handle(ctx context.Context, cmd CreateDeviceCommand) (ports.CreateDeviceResult, error) {
	return h.devicesService.CreateDevice(ctx, cmd.Name, cmd.Brand, cmd.State, cmd.IdempotencyKey)
}
