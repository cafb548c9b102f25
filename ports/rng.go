package ports

import (
	"math/rand"
)

// RNG provides seeded random number generation for deterministic synthesis.
// The same (name, seed) pair must always yield an identical stream so that
// generated value sets are reproducible regardless of field order.
type RNG interface {
	// Stream creates a deterministic generator for a named operation
	Stream(name string, seed int64) *rand.Rand
}
