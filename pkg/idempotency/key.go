// Package idempotency carries the caller-supplied creation-deduplication key
// through validation and request context.
package idempotency

import (
	"errors"
	"regexp"
)

const (
	// MaxKeyLength bounds the opaque token accepted from callers.
	MaxKeyLength = 200

	HeaderName         = "Idempotency-Key"
	ReplayedHeaderName = "Idempotent-Replayed"
)

var (
	ErrKeyEmpty   = errors.New("idempotency key must not be empty")
	ErrKeyTooLong = errors.New("idempotency key must not exceed 200 characters")
	ErrKeyInvalid = errors.New("idempotency key contains invalid characters")

	// Printable ASCII without whitespace; keys travel in an HTTP header.
	validKeyPattern = regexp.MustCompile(`^[\x21-\x7e]+$`)
)

// Validate checks whether key is acceptable as an idempotency token.
func Validate(key string) error {
	if key == "" {
		return ErrKeyEmpty
	}

	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}

	if !validKeyPattern.MatchString(key) {
		return ErrKeyInvalid
	}

	return nil
}
