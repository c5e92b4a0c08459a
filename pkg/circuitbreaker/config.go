package circuitbreaker

import "time"

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name identifies the circuit breaker in logs and metrics.
	Name string

	// Enabled determines whether the circuit breaker is active.
	// When false, New returns nil and Execute passes through directly.
	Enabled bool

	// MaxRequests caps the probes allowed through while half-open.
	MaxRequests uint

	// Interval is the cyclic period of the closed state after which the
	// internal counts reset. Zero keeps counts for the whole closed state.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips
	// the breaker from closed to open.
	FailureThreshold uint
}
