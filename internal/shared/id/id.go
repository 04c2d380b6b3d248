// Package id provides centralized ID generation for the gateway.
//
// This package offers type-safe ULID generation with:
//   - Lexicographic sortability: frames and subscriptions sort by creation time
//   - Prefixed types: frame_*, sub_*, req_* for readable logs
//   - Type safety: separate types prevent ID misuse
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// FrameID identifies a frame attached to the messaging fabric.
type FrameID string

// SubscriptionID identifies one local listener binding.
type SubscriptionID string

// RequestID identifies an API request.
type RequestID string

const (
	FramePrefix        = "frame"
	SubscriptionPrefix = "sub"
	RequestPrefix      = "req"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewFrameID generates a new frame ID.
func NewFrameID() FrameID {
	return FrameID(Default().GenerateWithPrefix(FramePrefix))
}

// NewSubscriptionID generates a new subscription ID.
func NewSubscriptionID() SubscriptionID {
	return SubscriptionID(Default().GenerateWithPrefix(SubscriptionPrefix))
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id FrameID) String() string        { return string(id) }
func (id SubscriptionID) String() string { return string(id) }
func (id RequestID) String() string      { return string(id) }

// IsValid checks if an ID string is a valid ULID.
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Parse parses a ULID string.
func Parse(id string) (ulid.ULID, error) {
	return ulid.Parse(id)
}

// Timestamp extracts the timestamp from a ULID.
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
