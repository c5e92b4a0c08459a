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
	DeleteDeviceCommand struct {
		ID                  model.DeviceID
		ExpectedFingerprint string
	}

	DeleteDeviceCommandHandler = decorator.CommandHandler[DeleteDeviceCommand, struct{}]

	deleteDeviceCommandHandler struct {
		devicesService ports.DevicesService
	}
)

func NewDeleteDeviceCommandHandler(
	svc ports.DevicesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) DeleteDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[DeleteDeviceCommand, struct{}](
		deleteDeviceCommandHandler{devicesService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h deleteDeviceCommandHandler) Handle(ctx context.Context, cmd DeleteDeviceCommand) (struct{}, error) {
	return struct{}{}, h.devicesService.DeleteDevice(ctx, cmd.ID, cmd.ExpectedFingerprint)
}
