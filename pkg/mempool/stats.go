package mempool

import "go.uber.org/atomic"

// stats holds the pool's monotonically increasing diagnostic counters.
// Every field is updated under the pool's mutex except that reads of
// individual counters (via Snapshot) may race with a concurrent mutation;
// callers must treat a Snapshot as eventually-consistent, matching the
// spec's "counters are eventually-consistent" contract.
type stats struct {
	commits       atomic.Uint64
	failedCommits atomic.Uint64
	reads         atomic.Uint64
	readLocks     atomic.Uint64
	l1Compaction  atomic.Uint64
	l2Compaction  atomic.Uint64
	releases      atomic.Uint64
}

// Snapshot is a point-in-time copy of a Pool's counters, safe to read from
// any goroutine and to hold onto after the Pool has moved on.
type Snapshot struct {
	Name          string
	Size          int
	Commits       uint64
	FailedCommits uint64
	Reads         uint64
	ReadLocks     uint64
	L1Compaction  uint64
	L2Compaction  uint64
	Releases      uint64
}

func (s *stats) snapshot(name string, size int) Snapshot {
	return Snapshot{
		Name:          name,
		Size:          size,
		Commits:       s.commits.Load(),
		FailedCommits: s.failedCommits.Load(),
		Reads:         s.reads.Load(),
		ReadLocks:     s.readLocks.Load(),
		L1Compaction:  s.l1Compaction.Load(),
		L2Compaction:  s.l2Compaction.Load(),
		Releases:      s.releases.Load(),
	}
}
