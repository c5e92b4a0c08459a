// Package circuitbreaker wraps gobreaker with typed execution helpers so
// callers deal with package-level sentinel errors instead of gobreaker ones.
package circuitbreaker

import (
	"errors"

	"github.com/sony/gobreaker/v2"
)

type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a circuit breaker from cfg. A disabled config yields nil,
// which Execute treats as a pass-through.
func New[T any](cfg Config) *CircuitBreaker[T] {
	if !cfg.Enabled {
		return nil
	}

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: uint32(cfg.MaxRequests),
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.FailureThreshold)
		},
	})

	return &CircuitBreaker[T]{cb: cb}
}

func (c *CircuitBreaker[T]) Name() string {
	return c.cb.Name()
}

// Execute runs fn through the breaker, translating gobreaker state errors
// into the package sentinels.
func Execute[T any](cb *CircuitBreaker[T], fn func() (T, error)) (T, error) {
	if cb == nil {
		return fn()
	}

	result, err := cb.cb.Execute(fn)
	if err != nil {
		var zero T

		if errors.Is(err, gobreaker.ErrOpenState) {
			return zero, ErrCircuitOpen
		}

		if errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, ErrTooManyRequests
		}

		return result, err
	}

	return result, nil
}
