package mempool

import (
	"crypto/rand"
	"encoding/binary"

	"go.uber.org/atomic"
)

// Handle is an opaque identifier returned by Commit and consumed by Read and
// Release. It is valid from the moment Commit returns it until the matching
// Release. The pool never re-issues a handle; guarding against collisions
// between two live handles is the HandleSource's job, not the pool's.
type Handle uint64

// HandleSource mints the 64-bit identifiers Commit hands back to callers.
// Implementations must draw from a space large enough that collisions with
// live handles are negligible for the expected working-set size. Keeping
// this outside the pool makes the pool deterministic in tests (inject a
// counter) while production injects a high-entropy source.
type HandleSource interface {
	Next() uint64
}

// CryptoHandleSource draws handles from crypto/rand. It is the default
// source a Pool uses when none is injected via WithHandleSource.
type CryptoHandleSource struct{}

// Next returns a uniformly random 64-bit value.
func (CryptoHandleSource) Next() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// unavailable, which is not a condition this library can recover
		// from; fall back to a value derived from a monotonic counter so
		// the pool degrades to CounterHandleSource-like behavior instead
		// of panicking on every commit.
		return fallbackCounter.Add(1)
	}
	return binary.BigEndian.Uint64(buf[:])
}

var fallbackCounter atomic.Uint64

// CounterHandleSource mints strictly increasing handles starting at 1. It is
// deterministic and intended for tests that need to predict or reason about
// handle values.
type CounterHandleSource struct {
	next atomic.Uint64
}

// NewCounterHandleSource returns a CounterHandleSource whose first Next call
// returns 1.
func NewCounterHandleSource() *CounterHandleSource {
	return &CounterHandleSource{}
}

// Next returns the next value in the sequence.
func (c *CounterHandleSource) Next() uint64 {
	return c.next.Add(1)
}
