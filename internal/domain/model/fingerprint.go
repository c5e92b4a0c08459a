package model

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"
)

// fieldSeparator keeps distinct field tuples from collapsing to the same
// pre-image. The ID and timestamp cannot contain it, and name/brand escape it.
const fieldSeparator = "|"

// Fingerprint derives the opaque validator token for the aggregate: a
// SHA-256 digest over the ordered field tuple, base64url without padding,
// wrapped in quotes so it can travel as a strong ETag. Pure and stable
// across process restarts.
func (d Device) Fingerprint() string {
	raw := strings.Join([]string{
		d.ID.String(),
		escapeField(d.Name),
		escapeField(d.Brand),
		d.State.String(),
		d.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, fieldSeparator)

	digest := sha256.Sum256([]byte(raw))

	return `"` + base64.RawURLEncoding.EncodeToString(digest[:]) + `"`
}

func escapeField(s string) string {
	return strings.ReplaceAll(s, fieldSeparator, `\`+fieldSeparator)
}

// FingerprintMatches evaluates an If-Match / If-None-Match style header
// value against a device fingerprint. Comparison is strong: weak validators
// never match. "*" matches any current representation.
func FingerprintMatches(headerValue, fingerprint string) bool {
	if headerValue == "*" {
		return true
	}

	for _, candidate := range strings.Split(headerValue, ",") {
		if strings.TrimSpace(candidate) == fingerprint {
			return true
		}
	}

	return false
}
