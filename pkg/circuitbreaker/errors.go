package circuitbreaker

import "errors"

var (
	// ErrCircuitOpen indicates the circuit breaker is rejecting requests
	// to let the downstream store recover.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrTooManyRequests indicates the half-open probe budget is spent.
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)
