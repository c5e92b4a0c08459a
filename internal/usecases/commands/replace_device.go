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
	ReplaceDeviceCommand struct {
		ID                  model.DeviceID
		Name                string
		Brand               string
		State               *model.State
		ExpectedFingerprint string
	}

	ReplaceDeviceCommandHandler = decorator.CommandHandler[ReplaceDeviceCommand, model.Device]

	replaceDeviceCommandHandler struct {
		devicesService ports.DevicesService
	}
)

func NewReplaceDeviceCommandHandler(
	svc ports.DevicesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ReplaceDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[ReplaceDeviceCommand, model.Device](
		replaceDeviceCommandHandler{devicesService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h replaceDeviceCommandHandler) Handle(ctx context.Context, cmd ReplaceDeviceCommand) (model.Device, error) {
	return h.devicesService.ReplaceDevice(ctx, cmd.ID, cmd.Name, cmd.Brand, cmd.State, cmd.ExpectedFingerprint)
}
