package model

import "errors"

var (
	ErrDeviceNotFound          = errors.New("device not found")
	ErrCannotUpdateInUseDevice = errors.New("cannot change name or brand while device is or becomes in-use")
	ErrCannotDeleteInUseDevice = errors.New("cannot delete in-use device")
	ErrPreconditionFailed      = errors.New("current fingerprint does not match the expected one")
	ErrInvalidDeviceID         = errors.New("invalid device ID")
	ErrInvalidState            = errors.New("invalid device state")
	ErrBlankName               = errors.New("name must not be blank")
	ErrBlankBrand              = errors.New("brand must not be blank")
	ErrDuplicateDevice         = errors.New("device already exists")
	ErrDatabaseQuery           = errors.New("database query error")
)

// IsInvalidArgument reports whether err belongs to the client-input error
// class, as opposed to domain-rule or concurrency failures.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrBlankName) ||
		errors.Is(err, ErrBlankBrand) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidDeviceID)
}

// IsDomainRuleViolation reports whether err is a business-rule breach that
// retrying the same request can never fix.
func IsDomainRuleViolation(err error) bool {
	return errors.Is(err, ErrCannotUpdateInUseDevice) ||
		errors.Is(err, ErrCannotDeleteInUseDevice)
}
