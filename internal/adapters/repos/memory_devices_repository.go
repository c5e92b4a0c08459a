package repos

import (
	"context"
	"sync"

	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/internal/ports"
)

// MemoryDevicesRepository is the in-memory device store used for tests and
// standalone runs. Insertion order is retained so equal names keep a stable
// tie-break across pages.
type MemoryDevicesRepository struct {
	mu      sync.RWMutex
	byID    map[model.DeviceID]model.Device
	ordered []model.DeviceID
}

func NewMemoryDevicesRepository() *MemoryDevicesRepository {
	return &MemoryDevicesRepository{
		byID: make(map[model.DeviceID]model.Device),
	}
}

func (r *MemoryDevicesRepository) Save(_ context.Context, device model.Device) (model.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[device.ID]; !exists {
		r.ordered = append(r.ordered, device.ID)
	}

	r.byID[device.ID] = device

	return device, nil
}

func (r *MemoryDevicesRepository) FindByID(_ context.Context, id model.DeviceID) (model.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, ok := r.byID[id]
	if !ok {
		return model.Device{}, model.ErrDeviceNotFound
	}

	return device, nil
}

func (r *MemoryDevicesRepository) FindFiltered(
	_ context.Context,
	filter ports.DeviceFilter,
	page, size int,
) ([]model.Device, error) {
	matching := r.snapshotFiltered(filter)

	model.SortDevicesByName(matching)

	return model.PaginateDevices(matching, page, size).Items, nil
}

func (r *MemoryDevicesRepository) Count(_ context.Context, filter ports.DeviceFilter) (int, error) {
	return len(r.snapshotFiltered(filter)), nil
}

func (r *MemoryDevicesRepository) DeleteByID(_ context.Context, id model.DeviceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return model.ErrDeviceNotFound
	}

	delete(r.byID, id)

	for index, existing := range r.ordered {
		if existing == id {
			r.ordered = append(r.ordered[:index], r.ordered[index+1:]...)

			break
		}
	}

	return nil
}

func (r *MemoryDevicesRepository) Ping(context.Context) error {
	return nil
}

// snapshotFiltered copies the matching devices in insertion order; brand
// and state predicates are intersected.
func (r *MemoryDevicesRepository) snapshotFiltered(filter ports.DeviceFilter) []model.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matching := make([]model.Device, 0, len(r.ordered))

	for _, id := range r.ordered {
		device := r.byID[id]

		if filter.Brand != nil && device.Brand != *filter.Brand {
			continue
		}

		if filter.State != nil && device.State != *filter.State {
			continue
		}

		matching = append(matching, device)
	}

	return matching
}
