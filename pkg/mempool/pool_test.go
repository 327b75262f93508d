package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, capacity int) *Pool {
	t.Helper()
	p, err := New(capacity, WithName(t.Name()), WithHandleSource(NewCounterHandleSource()))
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	_, err := New(0)
	require.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = New(-1)
	require.ErrorIs(t, err, ErrInvalidCapacity)
}

// Scenario 1 from SPEC_FULL.md §8.
func TestScenarioBasicCommitReadAvailableSpace(t *testing.T) {
	p := newTestPool(t, 100)

	h1, err := p.Commit([]byte("AAAA"))
	require.NoError(t, err)
	require.Equal(t, 96, p.AvailableSpace())

	data, err := p.Read(h1)
	require.NoError(t, err)
	require.Equal(t, []byte("AAAA"), data)
}

// Scenario 2 from SPEC_FULL.md §8.
func TestScenarioReleaseThenReuse(t *testing.T) {
	p := newTestPool(t, 10)

	h1, err := p.Commit([]byte("ABCDE"))
	require.NoError(t, err)
	h2, err := p.Commit([]byte("FGHIJ"))
	require.NoError(t, err)
	require.NoError(t, p.Release(h1))

	h3, err := p.Commit([]byte("KLM"))
	require.NoError(t, err)

	data, err := p.Read(h3)
	require.NoError(t, err)
	require.Equal(t, []byte("KLM"), data)

	data, err = p.Read(h2)
	require.NoError(t, err)
	require.Equal(t, []byte("FGHIJ"), data)
}

// Scenario 3 from SPEC_FULL.md §8: non-adjacent free runs force tier-2.
func TestScenarioTier2RelocationForNonAdjacentFragmentation(t *testing.T) {
	p := newTestPool(t, 10)

	h1, err := p.Commit([]byte("AB"))
	require.NoError(t, err)
	h2, err := p.Commit([]byte("CD"))
	require.NoError(t, err)
	h3, err := p.Commit([]byte("EF"))
	require.NoError(t, err)
	h4, err := p.Commit([]byte("GH"))
	require.NoError(t, err)
	h5, err := p.Commit([]byte("IJ"))
	require.NoError(t, err)

	require.NoError(t, p.Release(h1))
	require.NoError(t, p.Release(h3))
	require.NoError(t, p.Release(h5))
	require.Equal(t, 6, p.AvailableSpace())

	before := p.Stats().L2Compaction
	h6, err := p.Commit([]byte("XXXX"))
	require.NoError(t, err)
	after := p.Stats().L2Compaction
	require.Equal(t, before+1, after, "non-adjacent fragmentation must force exactly one tier-2 compaction")

	data, err := p.Read(h6)
	require.NoError(t, err)
	require.Equal(t, []byte("XXXX"), data)

	data, err = p.Read(h2)
	require.NoError(t, err)
	require.Equal(t, []byte("CD"), data)

	data, err = p.Read(h4)
	require.NoError(t, err)
	require.Equal(t, []byte("GH"), data)
}

// Scenario 5 from SPEC_FULL.md §8.
func TestScenarioOutOfSpaceLeavesStateUnchanged(t *testing.T) {
	p := newTestPool(t, 20)

	h1, err := p.Commit([]byte("AAAAAAAAAAAAAAAAAAAA")) // 20 'A's
	require.NoError(t, err)
	require.Equal(t, 0, p.AvailableSpace())

	_, err = p.Commit([]byte("B"))
	require.ErrorIs(t, err, ErrOutOfSpace)
	require.EqualValues(t, 1, p.Stats().FailedCommits)

	data, err := p.Read(h1)
	require.NoError(t, err)
	require.Equal(t, []byte("AAAAAAAAAAAAAAAAAAAA"), data)
}

func TestCommitLargerThanCapacityFailsWithoutCompaction(t *testing.T) {
	p := newTestPool(t, 10)

	before := p.Stats()
	_, err := p.Commit(make([]byte, 11))
	require.ErrorIs(t, err, ErrOutOfSpace)

	after := p.Stats()
	require.Equal(t, before.L1Compaction, after.L1Compaction)
	require.Equal(t, before.L2Compaction, after.L2Compaction)
	require.EqualValues(t, 1, after.FailedCommits)
}

func TestZeroLengthCommit(t *testing.T) {
	p := newTestPool(t, 10)

	_, err := p.Commit(make([]byte, 10))
	require.NoError(t, err)
	require.Equal(t, 0, p.AvailableSpace())

	h, err := p.Commit(nil)
	require.NoError(t, err)
	require.Equal(t, 0, p.AvailableSpace(), "a zero-length commit must not consume arena bytes")

	data, err := p.Read(h)
	require.NoError(t, err)
	require.Empty(t, data)

	require.NoError(t, p.Release(h))
	require.Equal(t, 0, p.AvailableSpace(), "releasing a zero-length handle must not grow free space")
}

func TestCommitFillsCapacityExactly(t *testing.T) {
	p := newTestPool(t, 10)

	_, err := p.Commit(make([]byte, 10))
	require.NoError(t, err)
	require.Equal(t, 0, p.AvailableSpace())
}

func TestReleaseIsNotIdempotent(t *testing.T) {
	p := newTestPool(t, 10)

	h, err := p.Commit([]byte("hi"))
	require.NoError(t, err)

	require.NoError(t, p.Release(h))
	err = p.Release(h)
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestReadUnknownHandle(t *testing.T) {
	p := newTestPool(t, 10)
	_, err := p.Read(Handle(9999))
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestCountersAreMonotonic(t *testing.T) {
	p := newTestPool(t, 64)

	var prev Snapshot
	for i := 0; i < 20; i++ {
		h, err := p.Commit([]byte("abcd"))
		require.NoError(t, err)
		_, err = p.Read(h)
		require.NoError(t, err)
		require.NoError(t, p.Release(h))

		cur := p.Stats()
		require.GreaterOrEqual(t, cur.Commits, prev.Commits)
		require.GreaterOrEqual(t, cur.Reads, prev.Reads)
		require.GreaterOrEqual(t, cur.Releases, prev.Releases)
		require.GreaterOrEqual(t, cur.ReadLocks, prev.ReadLocks)
		prev = cur
	}
}

// Scenario 6 from SPEC_FULL.md §8.
func TestConcurrentCommitReadReleaseRoundTrip(t *testing.T) {
	p := newTestPool(t, 64)

	const goroutines = 10
	const iterations = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			payload := []byte("ABCD")
			for i := 0; i < iterations; i++ {
				h, err := p.Commit(payload)
				require.NoError(t, err)

				data, err := p.Read(h)
				require.NoError(t, err)
				require.Equal(t, payload, data)

				require.NoError(t, p.Release(h))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 64, p.AvailableSpace())
	snap := p.Stats()
	require.EqualValues(t, goroutines*iterations, snap.Commits)
	require.EqualValues(t, goroutines*iterations, snap.Releases)
}

func TestCoverageInvariantHoldsAfterMixedOperations(t *testing.T) {
	p := newTestPool(t, 32)

	var live []Handle
	payloads := [][]byte{
		[]byte("a"), []byte("bb"), []byte("ccc"), []byte("dddd"), []byte("e"),
	}
	for _, pl := range payloads {
		h, err := p.Commit(pl)
		require.NoError(t, err)
		live = append(live, h)
	}
	require.NoError(t, p.Release(live[1]))
	require.NoError(t, p.Release(live[3]))

	_, err := p.Commit([]byte("fghij")) // first-fit serves this from the untouched tail run
	require.NoError(t, err)

	require.Equal(t, p.a.capacity(), p.idx.freeTotal()+usedTotal(p))
}

func usedTotal(p *Pool) int {
	total := 0
	for _, s := range p.idx.used {
		total += s.Length
	}
	return total
}
