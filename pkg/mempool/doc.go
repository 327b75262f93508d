// Package mempool implements a fixed-capacity, byte-addressable memory pool.
//
// The pool stores opaque binary payloads inside a single pre-allocated arena
// and returns opaque handles by which payloads can later be read back or
// released. It exists to bound and amortize the cost of many small
// allocations in a data-processing engine: commit intermediate byte blobs,
// hand the returned handles around a pipeline, release them when done.
//
// The pool is in-memory only, single-process, and non-persistent. It never
// grows past its constructed capacity; when fragmentation prevents a commit
// from being served, it compacts in two tiers (coalesce, then relocate)
// before giving up with ErrOutOfSpace.
package mempool
