package mempool

import "sort"

// coalesce runs tier-1 compaction: sort the free sequence and merge
// adjacent runs. No payload bytes move. Returns whether any merge actually
// reduced the number of free segments, which the caller uses to decide
// whether to bump the l1_compaction counter.
func (idx *segmentIndex) coalesce() bool {
	before := len(idx.free)
	idx.free = coalesceFree(idx.free)
	return len(idx.free) < before
}

// relocate runs tier-2 compaction: every used segment is moved to the low
// end of the arena in ascending order of its current Start, preserving
// callers' relative arrangement. All resulting free space becomes a single
// run at the high end. Handles never change; only their recorded Start
// does.
func (idx *segmentIndex) relocate(a *arena) {
	pairs := idx.usedSnapshot()
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].segment.Start < pairs[j].segment.Start })

	cursor := 0
	for _, p := range pairs {
		if p.segment.Length > 0 && p.segment.Start != cursor {
			a.copyWithin(cursor, p.segment.Start, p.segment.Length)
		}
		idx.used[p.handle] = Segment{Start: cursor, Length: p.segment.Length}
		cursor += p.segment.Length
	}

	remaining := a.capacity() - cursor
	if remaining > 0 {
		idx.free = []Segment{{Start: cursor, Length: remaining}}
	} else {
		idx.free = nil
	}
}
