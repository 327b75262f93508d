package mempool

import "sort"

// Segment is a contiguous half-open byte range inside the arena:
// [Start, Start+Length).
type Segment struct {
	Start  int
	Length int
}

// end returns the exclusive end offset of the segment.
func (s Segment) end() int {
	return s.Start + s.Length
}

// findFreeFit performs a linear first-fit scan of free, returning the index
// of the first segment whose length is at least n. First-fit is chosen over
// best-fit because it is cheaper and yields acceptable fragmentation once
// combined with the two-tier compactor.
func findFreeFit(free []Segment, n int) (int, bool) {
	for i, s := range free {
		if s.Length >= n {
			return i, true
		}
	}
	return 0, false
}

// takeFree removes the free segment at index, returning its start offset.
// If the segment was strictly larger than n, the remainder is appended to
// the end of free (order among free segments is not otherwise significant).
func takeFree(free []Segment, index, n int) ([]Segment, int) {
	s := free[index]
	free = append(free[:index], free[index+1:]...)
	if s.Length > n {
		free = append(free, Segment{Start: s.Start + n, Length: s.Length - n})
	}
	return free, s.Start
}

// coalesceFree sorts free by Start and merges every pair of adjacent ranges
// whose end equals the next range's Start. It runs in O(f log f) and moves
// no payload bytes. The result never contains a zero-length segment.
func coalesceFree(free []Segment) []Segment {
	if len(free) < 2 {
		if len(free) == 1 && free[0].Length == 0 {
			return free[:0]
		}
		return free
	}
	sort.Slice(free, func(i, j int) bool { return free[i].Start < free[j].Start })
	merged := make([]Segment, 0, len(free))
	cur := free[0]
	for _, s := range free[1:] {
		if cur.end() == s.Start {
			cur.Length += s.Length
			continue
		}
		if cur.Length > 0 {
			merged = append(merged, cur)
		}
		cur = s
	}
	if cur.Length > 0 {
		merged = append(merged, cur)
	}
	return merged
}

// sumLengths returns the total bytes covered by segs.
func sumLengths(segs []Segment) int {
	total := 0
	for _, s := range segs {
		total += s.Length
	}
	return total
}
