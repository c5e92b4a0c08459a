package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type DeviceID struct {
	uuid.UUID
}

func NewDeviceID() DeviceID {
	return DeviceID{UUID: uuid.Must(uuid.NewV7())}
}

func ParseDeviceID(s string) (DeviceID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DeviceID{}, ErrInvalidDeviceID
	}

	return DeviceID{UUID: id}, nil
}

func (d DeviceID) String() string {
	return d.UUID.String()
}

func (d DeviceID) IsZero() bool {
	return d.UUID == uuid.Nil
}

// Device is an immutable aggregate. Mutations return a fresh copy; ID and
// CreatedAt never change after construction.
type Device struct {
	ID        DeviceID
	Name      string
	Brand     string
	State     State
	CreatedAt time.Time
}

// NewDevice constructs a device with a fresh identity, trimmed fields, and
// the clock instant now. Callers default state to StateAvailable.
// CreatedAt is truncated to microseconds, the finest precision a timestamptz
// column retains, so the fingerprint survives a persistence round trip.
func NewDevice(name, brand string, state State, now time.Time) (Device, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Device{}, err
	}

	brand, err = normalizeBrand(brand)
	if err != nil {
		return Device{}, err
	}

	if !state.IsValid() {
		return Device{}, ErrInvalidState
	}

	return Device{
		ID:        NewDeviceID(),
		Name:      name,
		Brand:     brand,
		State:     state,
		CreatedAt: now.UTC().Truncate(time.Microsecond),
	}, nil
}

// Replace applies a full-aggregate replacement under the freeze rule and
// returns the new value. ID and CreatedAt are preserved.
func (d Device) Replace(name, brand string, state State) (Device, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Device{}, err
	}

	brand, err = normalizeBrand(brand)
	if err != nil {
		return Device{}, err
	}

	if !state.IsValid() {
		return Device{}, ErrInvalidState
	}

	if err := d.assertNameAndBrandThawed(name, brand, state); err != nil {
		return Device{}, err
	}

	next := d
	next.Name = name
	next.Brand = brand
	next.State = state

	return next, nil
}

// Patch resolves unset fields to their current values, evaluates the freeze
// rule against the resolved triple, and replaces only the fields that
// actually differ so an unchanged device stays bit-identical.
func (d Device) Patch(name, brand *string, state *State) (Device, error) {
	nextName := d.Name
	if name != nil {
		var err error
		if nextName, err = normalizeName(*name); err != nil {
			return Device{}, err
		}
	}

	nextBrand := d.Brand
	if brand != nil {
		var err error
		if nextBrand, err = normalizeBrand(*brand); err != nil {
			return Device{}, err
		}
	}

	nextState := d.State
	if state != nil {
		if !state.IsValid() {
			return Device{}, ErrInvalidState
		}
		nextState = *state
	}

	if err := d.assertNameAndBrandThawed(nextName, nextBrand, nextState); err != nil {
		return Device{}, err
	}

	next := d
	if nextName != d.Name {
		next.Name = nextName
	}
	if nextBrand != d.Brand {
		next.Brand = nextBrand
	}
	if nextState != d.State {
		next.State = nextState
	}

	return next, nil
}

// CanDelete reports whether deletion is allowed in the current state.
func (d Device) CanDelete() bool {
	return d.State != StateInUse
}

// assertNameAndBrandThawed enforces the single business invariant: name and
// brand are frozen whenever the device is in, or is being put into, in-use.
// State on its own may always change.
func (d Device) assertNameAndBrandThawed(name, brand string, requested State) error {
	if d.State != StateInUse && requested != StateInUse {
		return nil
	}

	if name != d.Name || brand != d.Brand {
		return ErrCannotUpdateInUseDevice
	}

	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrBlankName
	}

	return name, nil
}

func normalizeBrand(brand string) (string, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return "", ErrBlankBrand
	}

	return brand, nil
}
