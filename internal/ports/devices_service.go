package ports

import (
	"context"

	"github.com/r-miyahara/devices-api/internal/domain/model"
)

type (
	// CreateDeviceResult carries the persisted aggregate and whether the
	// creation was answered from an idempotency-key replay.
	CreateDeviceResult struct {
		Device   model.Device
		Replayed bool
	}

	// PatchFields holds the optional fields of a partial update; nil means
	// "keep the current value".
	PatchFields struct {
		Name  *string
		Brand *string
		State *model.State
	}

	// DevicesService orchestrates the state machine, fingerprints, and the
	// idempotency store. ExpectedFingerprint arguments are optional
	// optimistic-concurrency preconditions; empty means unconditional.
	DevicesService interface {
		CreateDevice(ctx context.Context, name, brand string, state *model.State, idempotencyKey string) (CreateDeviceResult, error)
		GetDevice(ctx context.Context, id model.DeviceID) (model.Device, error)
		ListDevices(ctx context.Context, filter DeviceFilter, page, size int) (model.PageResult, error)
		ReplaceDevice(ctx context.Context, id model.DeviceID, name, brand string, state *model.State, expectedFingerprint string) (model.Device, error)
		PatchDevice(ctx context.Context, id model.DeviceID, fields PatchFields, expectedFingerprint string) (model.Device, error)
		DeleteDevice(ctx context.Context, id model.DeviceID, expectedFingerprint string) error
	}
)
