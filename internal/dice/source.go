// Package dice provides the randomness abstraction used by encounter
// resolution. Resolvers never call a global generator; they draw from an
// injected Source so tests can script or seed every roll.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

//go:generate go tool mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// Source is the randomness provider for encounter rolls.
//
// Implementations are not required to be safe for concurrent use; an engine
// and its source belong to one simulation goroutine.
type Source interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// IntRange returns a uniform int in [lo, hi], both ends inclusive.
	// Callers guarantee lo <= hi.
	IntRange(lo, hi int) int
}

type rngSource struct {
	r *rand.Rand
}

func (s *rngSource) Float64() float64 { return s.r.Float64() }

func (s *rngSource) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

// NewSeeded returns a deterministic Source. A zero seed is replaced by 1.
func NewSeeded(seed int64) Source {
	if seed == 0 {
		seed = 1
	}
	//nolint:gosec // G404: math/rand is fine for game mechanics
	return &rngSource{r: rand.New(rand.NewSource(seed))}
}

// New returns an unseeded Source backed by a crypto-random seed.
func New() Source {
	return NewSeeded(NewSeed())
}

// NewSeed draws a seed from crypto/rand, falling back to the clock.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
