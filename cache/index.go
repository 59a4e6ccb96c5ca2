package cache

import (
	"iter"

	"github.com/IvanBrykalov/unsynccache/internal/util"
)

// index is the primary key -> entry map, split into a power-of-two number of
// segments chosen by key hash. Callers pass the hash they already hold (the
// eviction path reads it from the access-order node), so no key is hashed
// twice on the way to its segment.
type index[K comparable, V any] struct {
	segs []map[K]*valueEntry[K, V]
	n    int
}

func newIndex[K comparable, V any](segments, capacity int) *index[K, V] {
	hint := 0
	if capacity > 0 {
		hint = capacity / segments
	}
	segs := make([]map[K]*valueEntry[K, V], segments)
	for i := range segs {
		segs[i] = make(map[K]*valueEntry[K, V], hint)
	}
	return &index[K, V]{segs: segs}
}

func (ix *index[K, V]) seg(hash uint64) map[K]*valueEntry[K, V] {
	return ix.segs[util.SegmentIndex(hash, len(ix.segs))]
}

func (ix *index[K, V]) get(k K, hash uint64) (*valueEntry[K, V], bool) {
	e, ok := ix.seg(hash)[k]
	return e, ok
}

// put stores e under k and returns the entry it displaced, if any.
func (ix *index[K, V]) put(k K, hash uint64, e *valueEntry[K, V]) (old *valueEntry[K, V]) {
	m := ix.seg(hash)
	old, ok := m[k]
	m[k] = e
	if !ok {
		ix.n++
	}
	return old
}

func (ix *index[K, V]) remove(k K, hash uint64) (*valueEntry[K, V], bool) {
	m := ix.seg(hash)
	e, ok := m[k]
	if ok {
		delete(m, k)
		ix.n--
	}
	return e, ok
}

func (ix *index[K, V]) len() int { return ix.n }

// all yields every entry, segment by segment, in unspecified order.
// Entries must not be added or removed while iterating.
func (ix *index[K, V]) all() iter.Seq2[K, *valueEntry[K, V]] {
	return func(yield func(K, *valueEntry[K, V]) bool) {
		for _, m := range ix.segs {
			for k, e := range m {
				if !yield(k, e) {
					return
				}
			}
		}
	}
}

// clear drops every entry. Segment maps are reallocated so their memory is
// released rather than kept at peak size.
func (ix *index[K, V]) clear() {
	for i := range ix.segs {
		ix.segs[i] = make(map[K]*valueEntry[K, V])
	}
	ix.n = 0
}
