package mempool

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidCapacity is returned by New when capacity <= 0.
	ErrInvalidCapacity = errors.New("mempool: invalid capacity")

	// ErrOutOfMemory is returned by New when the backing arena could not be
	// allocated.
	ErrOutOfMemory = errors.New("mempool: out of memory")

	// ErrOutOfSpace is returned by Commit when no free run can be found or
	// manufactured for the payload, even after tier-2 compaction. This is
	// ordinary control flow, not a programmer error.
	ErrOutOfSpace = errors.New("mempool: out of space")

	// ErrInvalidHandle is returned by Read and Release when the handle is
	// not present in the used-segment map. This indicates a caller bug:
	// either the handle was never committed, or it was already released.
	ErrInvalidHandle = errors.New("mempool: invalid handle")
)
