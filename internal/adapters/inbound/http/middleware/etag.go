package middleware

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// ETagGenerator derives strong ETags from response payloads.
type ETagGenerator struct{}

func NewETagGenerator() *ETagGenerator {
	return &ETagGenerator{}
}

// Generate hashes the content and returns the hex digest, unquoted.
func (g *ETagGenerator) Generate(content []byte) string {
	sum := xxhash.Sum64(content)

	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = byte(sum >> (56 - uint(i)*8))
	}

	return hex.EncodeToString(buf)
}

// GenerateWeak prefixes the digest with the weak validator marker.
func (g *ETagGenerator) GenerateWeak(content []byte) string {
	return "W/" + g.Generate(content)
}
