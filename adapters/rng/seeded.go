// Package rng implements deterministic named random streams.
package rng

import (
	"hash/fnv"
	"math/rand"

	"formprobe/ports"
)

// SeededRNG derives an independent deterministic stream per (name, seed)
// pair by folding the name into the seed. Field order therefore never
// affects the values a field receives.
type SeededRNG struct{}

// New creates a SeededRNG
func New() *SeededRNG {
	return &SeededRNG{}
}

// Stream implements ports.RNG
func (s *SeededRNG) Stream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	derived := int64(h.Sum64()) ^ seed
	return rand.New(rand.NewSource(derived))
}

var _ ports.RNG = (*SeededRNG)(nil)
