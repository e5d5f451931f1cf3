// Package prng provides the deterministic random sources that drive question
// generation. Identical seeds always produce identical sequences.
package prng

import (
	"math/rand/v2"
	"unicode/utf16"
)

const (
	golden    = 0x6d2b79f5
	fnvOffset = 0x811c9dc5
	fnvPrime  = 0x01000193
	twoPow32  = 4294967296.0
)

// Source yields floats in [0,1).
type Source interface {
	Float64() float64
}

// Mulberry32 is a stateful mulberry32 generator.
type Mulberry32 struct {
	state uint32
}

// New returns a generator seeded with seed.
func New(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 advances the generator and returns the raw 32-bit output.
func (m *Mulberry32) Uint32() uint32 {
	m.state += golden
	return scramble(m.state)
}

// Float64 advances the generator and returns a float in [0,1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / twoPow32
}

// Stream hashes consecutive counters seed, seed+1, ... with the mulberry32
// finalizer. The matrix generator uses it so that every (seed,row,col)
// triple owns an independent stream.
type Stream struct {
	next uint32
}

// NewStream returns a counter stream starting at seed.
func NewStream(seed uint32) *Stream {
	return &Stream{next: seed}
}

// Float64 hashes the current counter and moves to the next one.
func (s *Stream) Float64() float64 {
	v := scramble(s.next + golden)
	s.next++
	return float64(v) / twoPow32
}

func scramble(t uint32) uint32 {
	r := (t ^ (t >> 15)) * (1 | t)
	r ^= r + (r^(r>>7))*(61|r)
	return r ^ (r >> 14)
}

// HashString maps a string seed to a 32-bit seed with FNV-1a over its
// UTF-16 code units. The empty string hashes to 0.
func HashString(s string) uint32 {
	if s == "" {
		return 0
	}
	hash := uint32(fnvOffset)
	for _, unit := range utf16.Encode([]rune(s)) {
		hash ^= uint32(unit)
		hash *= fnvPrime
	}
	return hash
}

// FromString returns a seeded source for a non-empty seed and a system
// random source otherwise.
func FromString(seed string) Source {
	if seed == "" {
		return systemSource{}
	}
	return New(HashString(seed))
}

type systemSource struct{}

func (systemSource) Float64() float64 { return rand.Float64() }

// IntBetween returns an integer in [min, max].
func IntBetween(src Source, min, max int) int {
	return int(src.Float64()*float64(max-min+1)) + min
}

// Pick returns one element of items chosen by src. items must not be empty.
func Pick[T any](src Source, items []T) T {
	return items[int(src.Float64()*float64(len(items)))]
}

// Shuffle returns a Fisher-Yates shuffled copy of items.
func Shuffle[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := int(src.Float64() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
