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
	PatchDeviceCommand struct {
		ID                  model.DeviceID
		Fields              ports.PatchFields
		ExpectedFingerprint string
	}

	PatchDeviceCommandHandler = decorator.CommandHandler[PatchDeviceCommand, model.Device]

	patchDeviceCommandHandler struct {
		devicesService ports.DevicesService
	}
)

func NewPatchDeviceCommandHandler(
	svc ports.DevicesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) PatchDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[PatchDeviceCommand, model.Device](
		patchDeviceCommandHandler{devicesService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h patchDeviceCommandHandler) Handle(ctx context.Context, cmd PatchDeviceCommand) (model.Device, error) {
	return h.devicesService.PatchDevice(ctx, cmd.ID, cmd.Fields, cmd.ExpectedFingerprint)
}
