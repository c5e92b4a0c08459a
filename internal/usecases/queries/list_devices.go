package queries

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
	ListDevicesQuery struct {
		Filter ports.DeviceFilter
		Page   int
		Size   int
	}

	ListDevicesQueryHandler = decorator.QueryHandler[ListDevicesQuery, model.PageResult]

	listDevicesQueryHandler struct {
		devicesService ports.DevicesService
	}
)

func NewListDevicesQueryHandler(
	svc ports.DevicesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ListDevicesQueryHandler {
	return decorator.ApplyQueryDecorators[ListDevicesQuery, model.PageResult](
		listDevicesQueryHandler{devicesService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h listDevicesQueryHandler) Execute(ctx context.Context, query ListDevicesQuery) (model.PageResult, error) {
	return h.devicesService.ListDevices(ctx, query.Filter, query.Page, query.Size)
}
