// Package clock abstracts the current instant so time-dependent logic
// (creation timestamps, idempotency expiry) stays deterministic in tests.
package clock

import "time"

type (
	Clock interface {
		Now() time.Time
	}

	// SystemClock reads the wall clock in UTC.
	SystemClock struct{}

	// FixedClock always returns the instant it was parked at.
	FixedClock struct {
		instant time.Time
	}
)

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewFixedClock(instant time.Time) *FixedClock {
	return &FixedClock{instant: instant.UTC()}
}

func (c *FixedClock) Now() time.Time {
	return c.instant
}

// Advance moves the fixed clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.instant = c.instant.Add(d)
}
