// Package services hosts the device orchestrator: it resolves aggregates,
// checks concurrency preconditions, applies state-machine rules, and talks
// to the persistence and idempotency collaborators.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/internal/ports"
	"github.com/r-miyahara/devices-api/pkg/clock"
	"github.com/r-miyahara/devices-api/pkg/logger"
)

type DevicesService struct {
	repo   ports.DeviceRepository
	keys   ports.IdempotencyStore
	clock  clock.Clock
	keyTTL time.Duration
	logger logger.Logger
}

func NewDevicesService(
	repo ports.DeviceRepository,
	keys ports.IdempotencyStore,
	clk clock.Clock,
	keyTTL time.Duration,
	log logger.Logger,
) *DevicesService {
	return &DevicesService{
		repo:   repo,
		keys:   keys,
		clock:  clk,
		keyTTL: keyTTL,
		logger: log,
	}
}

// CreateDevice builds and persists a new aggregate. A live idempotency-key
// mapping short-circuits to the previously created device with Replayed set.
//
// Persist-then-register is deliberately two steps: two concurrent requests
// with the same fresh key can each create a device, and the store then picks
// a single canonical winner for future replays. The loser's device still
// exists and is reachable by direct id lookup.
func (s *DevicesService) CreateDevice(
	ctx context.Context,
	name, brand string,
	state *model.State,
	idempotencyKey string,
) (ports.CreateDeviceResult, error) {
	if idempotencyKey != "" {
		existingID, ok, err := s.keys.Get(ctx, idempotencyKey)
		if err != nil {
			return ports.CreateDeviceResult{}, err
		}

		if ok {
			existing, err := s.repo.FindByID(ctx, existingID)
			switch {
			case err == nil:
				return ports.CreateDeviceResult{Device: existing, Replayed: true}, nil
			case errors.Is(err, model.ErrDeviceNotFound):
				// The winner was deleted since the key was registered. A
				// dangling mapping counts as absent: fall through and
				// create fresh.
				ctxLog := s.logger.WithContext(ctx)
				ctxLog.Warn().
					Str("device_id", existingID.String()).
					Msg("idempotency key points at a deleted device, creating fresh")
			default:
				return ports.CreateDeviceResult{}, err
			}
		}
	}

	initialState := model.StateAvailable
	if state != nil {
		initialState = *state
	}

	device, err := model.NewDevice(name, brand, initialState, s.clock.Now())
	if err != nil {
		return ports.CreateDeviceResult{}, err
	}

	device, err = s.repo.Save(ctx, device)
	if err != nil {
		return ports.CreateDeviceResult{}, err
	}

	if idempotencyKey != "" {
		// Registration failure does not undo the creation; the caller still
		// gets the device, only replay protection for this key is lost.
		if err := s.keys.SaveIfAbsent(ctx, idempotencyKey, device.ID, s.clock.Now(), s.keyTTL); err != nil {
			ctxLog := s.logger.WithContext(ctx)
			ctxLog.Warn().
				Err(err).
				Str("device_id", device.ID.String()).
				Msg("failed to register idempotency key")
		}
	}

	return ports.CreateDeviceResult{Device: device}, nil
}

func (s *DevicesService) GetDevice(ctx context.Context, id model.DeviceID) (model.Device, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DevicesService) ListDevices(
	ctx context.Context,
	filter ports.DeviceFilter,
	page, size int,
) (model.PageResult, error) {
	page, size = model.ClampPage(page, size)

	items, err := s.repo.FindFiltered(ctx, filter, page, size)
	if err != nil {
		return model.PageResult{}, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return model.PageResult{}, err
	}

	return model.PageResult{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
	}, nil
}

func (s *DevicesService) ReplaceDevice(
	ctx context.Context,
	id model.DeviceID,
	name, brand string,
	state *model.State,
	expectedFingerprint string,
) (model.Device, error) {
	current, err := s.resolveWithPrecondition(ctx, id, expectedFingerprint)
	if err != nil {
		return model.Device{}, err
	}

	nextState := current.State
	if state != nil {
		nextState = *state
	}

	updated, err := current.Replace(name, brand, nextState)
	if err != nil {
		return model.Device{}, err
	}

	return s.repo.Save(ctx, updated)
}

func (s *DevicesService) PatchDevice(
	ctx context.Context,
	id model.DeviceID,
	fields ports.PatchFields,
	expectedFingerprint string,
) (model.Device, error) {
	current, err := s.resolveWithPrecondition(ctx, id, expectedFingerprint)
	if err != nil {
		return model.Device{}, err
	}

	updated, err := current.Patch(fields.Name, fields.Brand, fields.State)
	if err != nil {
		return model.Device{}, err
	}

	return s.repo.Save(ctx, updated)
}

func (s *DevicesService) DeleteDevice(ctx context.Context, id model.DeviceID, expectedFingerprint string) error {
	current, err := s.resolveWithPrecondition(ctx, id, expectedFingerprint)
	if err != nil {
		return err
	}

	if !current.CanDelete() {
		return model.ErrCannotDeleteInUseDevice
	}

	return s.repo.DeleteByID(ctx, id)
}

// resolveWithPrecondition loads the aggregate and, when a fingerprint
// precondition was supplied, rejects the request if the stored aggregate no
// longer matches it. Check-then-act: it detects stale reads, it does not
// serialize writers.
func (s *DevicesService) resolveWithPrecondition(
	ctx context.Context,
	id model.DeviceID,
	expectedFingerprint string,
) (model.Device, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.Device{}, err
	}

	if expectedFingerprint != "" && !model.FingerprintMatches(expectedFingerprint, current.Fingerprint()) {
		return model.Device{}, model.ErrPreconditionFailed
	}

	return current, nil
}
