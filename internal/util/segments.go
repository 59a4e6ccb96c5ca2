package util

// entriesPerSegment is the target number of keys per index segment.
const entriesPerSegment = 4096

// maxSegments bounds the segment table for very large capacities.
const maxSegments = 256

// NextPow2 returns the smallest power of two >= x (1 for x <= 1).
// Results that would overflow are clamped to 1<<63.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	if x == 0 {
		return 1 << 63
	}
	return x
}

// SegmentCount picks the number of index segments for a cache bounded to
// capacity entries: about one segment per entriesPerSegment keys, rounded up
// to a power of two and clamped to [1..maxSegments]. An explicit request > 0
// is rounded up to a power of two and clamped the same way.
// capacity <= 0 (unbounded) yields a single segment.
func SegmentCount(requested, capacity int) int {
	n := requested
	if n <= 0 {
		if capacity <= 0 {
			return 1
		}
		n = (capacity + entriesPerSegment - 1) / entriesPerSegment
	}
	s := int(NextPow2(uint64(n)))
	if s > maxSegments {
		s = maxSegments
	}
	return s
}

// SegmentIndex maps a 64-bit hash to a segment. segments must be a power of two.
func SegmentIndex(hash uint64, segments int) int {
	return int(hash & uint64(segments-1))
}
