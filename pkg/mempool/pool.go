package mempool

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Pool is a fixed-capacity, byte-addressable memory pool. It stores opaque
// binary payloads inside a single pre-allocated arena and returns opaque
// handles by which payloads can later be read back or released. All
// mutating operations (Commit, Release, and any compaction Commit
// triggers), Read, and AvailableSpace are all serialized by a single
// mutex.
type Pool struct {
	mu sync.Mutex

	name string
	a    *arena
	idx  *segmentIndex

	handles HandleSource
	log     poolLogger
	stats   stats
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithName sets the pool's diagnostic name. If not supplied, New generates
// one of the form "mempool-<8 hex chars>" so concurrently constructed
// anonymous pools remain distinguishable in logs and the registry.
func WithName(name string) Option {
	return func(p *Pool) { p.name = name }
}

// WithHandleSource injects the 64-bit identifier generator Commit uses to
// mint handles. The default is CryptoHandleSource.
func WithHandleSource(src HandleSource) Option {
	return func(p *Pool) { p.handles = src }
}

// WithLogger injects a *zap.Logger the pool uses for its own diagnostic
// logging. The default is a no-op logger.
func WithLogger(z *zap.Logger) Option {
	return func(p *Pool) { p.log = newPoolLogger(z) }
}

// New constructs a Pool with the given fixed capacity in bytes. capacity
// must be strictly positive. The returned Pool is registered under its
// name for ReportAll/Report until the caller calls Close.
func New(capacity int, opts ...Option) (*Pool, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	p := &Pool{
		idx:     newSegmentIndex(capacity),
		handles: CryptoHandleSource{},
		log:     newPoolLogger(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.name == "" {
		p.name = "mempool-" + uuid.NewString()[:8]
	}

	a, err := allocateArena(capacity)
	if err != nil {
		return nil, errors.Wrap(err, "mempool: allocate arena")
	}
	p.a = a

	register(p)
	return p, nil
}

// allocateArena is split out so a failure to obtain the backing buffer maps
// cleanly onto ErrOutOfMemory instead of a runtime panic escaping New.
func allocateArena(capacity int) (a *arena, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, ErrOutOfMemory
		}
	}()
	return newArena(capacity), nil
}

// Close removes the pool from the diagnostics registry. It does not need to
// release the arena explicitly: once the Pool is unreachable, the garbage
// collector reclaims it along with the arena it owns.
func (p *Pool) Close() {
	unregister(p)
}

// Name returns the pool's diagnostic name.
func (p *Pool) Name() string { return p.name }

// Size returns the pool's fixed capacity in bytes.
func (p *Pool) Size() int { return p.a.capacity() }

// Stats returns a point-in-time snapshot of the pool's counters.
func (p *Pool) Stats() Snapshot {
	return p.stats.snapshot(p.name, p.a.capacity())
}

// AvailableSpace returns the sum of free-segment lengths. It takes the
// pool's mutex: an unlocked read here would race with Commit's allocator,
// which mutates the free slice in place (takeFree shifts elements via
// append(free[:index], free[index+1:]...)) rather than only ever swapping
// in a fresh slice header, so an unsynchronized reader could observe a
// torn view of the backing array, not merely a stale-but-consistent
// length. The spec permits an unlocked read only where the host language's
// memory model makes it well-defined; Go's does not, so this pool locks.
func (p *Pool) AvailableSpace() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idx.freeTotal()
}

// Commit copies data into the arena and returns a fresh handle identifying
// it. A zero-length data consumes no arena bytes but still takes the lock,
// mints a handle, and records a zero-length used segment. Commit fails with
// ErrOutOfSpace, without mutating any pool state, if data cannot fit even
// after both compaction tiers run.
func (p *Pool) Commit(data []byte) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(data)
	if n > p.a.capacity() {
		p.stats.failedCommits.Add(1)
		p.log.warnOutOfSpace(p.name, n, p.idx.freeTotal())
		return 0, ErrOutOfSpace
	}

	var start int
	if n > 0 {
		var err error
		start, err = p.findRoomLocked(n)
		if err != nil {
			p.stats.failedCommits.Add(1)
			p.log.warnOutOfSpace(p.name, n, p.idx.freeTotal())
			return 0, err
		}
		p.a.writeAt(start, data)
	}

	h := Handle(p.handles.Next())
	p.idx.recordUsed(h, start, n)
	p.stats.commits.Add(1)
	p.log.debugCommit(p.name, h, n)
	return h, nil
}

// findRoomLocked implements the fast path plus the two-tier compactor
// described in SPEC_FULL.md §4.3. Callers must hold p.mu.
func (p *Pool) findRoomLocked(n int) (int, error) {
	if idx, ok := findFreeFit(p.idx.free, n); ok {
		free, start := takeFree(p.idx.free, idx, n)
		p.idx.free = free
		return start, nil
	}

	if p.idx.freeTotal() < n {
		return 0, ErrOutOfSpace
	}

	if p.idx.coalesce() {
		p.stats.l1Compaction.Add(1)
		p.log.debugL1(p.name, len(p.idx.free))
		if idx, ok := findFreeFit(p.idx.free, n); ok {
			free, start := takeFree(p.idx.free, idx, n)
			p.idx.free = free
			return start, nil
		}
	}

	p.log.warnL2(p.name, n, p.a.capacity())
	p.idx.relocate(p.a)
	p.stats.l2Compaction.Add(1)

	if idx, ok := findFreeFit(p.idx.free, n); ok {
		free, start := takeFree(p.idx.free, idx, n)
		p.idx.free = free
		return start, nil
	}

	return 0, ErrOutOfSpace
}

// Read returns a fresh copy of the payload stored under handle. The
// returned slice never aliases pool-internal memory, so a later compaction
// cannot invalidate bytes already handed to the caller.
func (p *Pool) Read(h Handle) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.readLocks.Add(1)
	seg, ok := p.idx.used[h]
	if !ok {
		return nil, ErrInvalidHandle
	}
	out := p.a.readAt(seg.Start, seg.Length)
	p.stats.reads.Add(1)
	return out, nil
}

// Release removes handle's used entry and returns its byte range to the
// free sequence, unsorted. Released segments are not eagerly merged with
// their neighbors; merging is deferred to tier-1 compaction the next time a
// Commit cannot be served, which keeps Release O(1).
func (p *Pool) Release(h Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	seg, ok := p.idx.dropUsed(h)
	if !ok {
		return ErrInvalidHandle
	}
	if seg.Length > 0 {
		p.idx.free = append(p.idx.free, seg)
	}
	p.stats.releases.Add(1)
	p.log.debugRelease(p.name, h)
	return nil
}
