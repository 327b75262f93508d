// Package testconfig provides small, deterministic Pool construction
// options for table-driven tests, mirroring the With*Opts builders in the
// teacher's testutils/config package (each takes an optional in-progress
// value, defaults it if nil, and returns it configured for fast,
// predictable test runs rather than production sizing).
package testconfig

import "github.com/aoedb/mempool/pkg/mempool"

// DefaultCapacity is small enough that tier-2 compaction is cheap to
// trigger deliberately in a test, but large enough to hold a handful of
// short payloads without immediately forcing it on every commit.
const DefaultCapacity = 64

// Options bundles the values a table-driven test typically wants to vary:
// the arena size and the handle source (deterministic by default, so
// assertions can reason about specific handle values).
type Options struct {
	Capacity int
	Handles  mempool.HandleSource
}

// WithSmallPool returns Options sized for fast, deterministic tests: a
// small capacity and a CounterHandleSource. Passing in a non-nil Options
// customizes rather than replaces it, matching the teacher's
// With*Opts(in *options.Options) convention.
func WithSmallPool(in *Options) *Options {
	if in == nil {
		in = new(Options)
	}
	if in.Capacity <= 0 {
		in.Capacity = DefaultCapacity
	}
	if in.Handles == nil {
		in.Handles = mempool.NewCounterHandleSource()
	}
	return in
}

// New builds a *mempool.Pool from Options, applying WithSmallPool defaults
// first so callers can pass a zero-value Options and still get a usable
// deterministic pool.
func New(name string, in *Options) (*mempool.Pool, error) {
	opts := WithSmallPool(in)
	return mempool.New(opts.Capacity,
		mempool.WithName(name),
		mempool.WithHandleSource(opts.Handles),
	)
}
