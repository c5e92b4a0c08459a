// Package ports defines the interfaces the service core consumes; adapters
// under internal/adapters satisfy them.
package ports

import (
	"context"

	"github.com/r-miyahara/devices-api/internal/domain/model"
)

type (
	// DeviceFilter narrows listing and counting. Nil fields mean "any";
	// when both are set they are intersected, never unioned.
	DeviceFilter struct {
		Brand *string
		State *model.State
	}

	// DeviceRepository is the narrow persistence contract for the device
	// aggregate. Save persists the whole aggregate (insert or replace).
	DeviceRepository interface {
		Save(ctx context.Context, device model.Device) (model.Device, error)
		FindByID(ctx context.Context, id model.DeviceID) (model.Device, error)
		FindFiltered(ctx context.Context, filter DeviceFilter, page, size int) ([]model.Device, error)
		Count(ctx context.Context, filter DeviceFilter) (int, error)
		DeleteByID(ctx context.Context, id model.DeviceID) error
	}

	// DatabaseHealthChecker reports storage reachability for readiness.
	DatabaseHealthChecker interface {
		Ping(ctx context.Context) error
	}
)
