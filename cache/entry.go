package cache

import (
	"github.com/IvanBrykalov/unsynccache/clock"
	"github.com/IvanBrykalov/unsynccache/internal/deque"
)

// Queue types used by the engine.
type (
	accessOrderDeque[K comparable] = deque.Deque[keyHashDate[K]]
	writeOrderDeque[K comparable]  = deque.Deque[keyDate[K]]
)

// deqNodes holds at most one handle into each queue.
// A zero handle means the entry is not linked into that queue.
type deqNodes[K comparable] struct {
	accessOrder deque.Handle[keyHashDate[K]]
	writeOrder  deque.Handle[keyDate[K]]
}

// valueEntry is what the primary index stores for a key.
//
// The node a handle names always carries the same key as the index slot
// holding this entry; that is established when the entry is linked and not
// re-checked afterwards. The handles are the only references to those nodes
// outside the queues, so whoever removes an entry from the index must take
// both handles and unlink them (see unlinkFrom).
type valueEntry[K comparable, V any] struct {
	value V
	cost  int64
	nodes deqNodes[K]
}

// newValueEntry returns an entry that is in neither queue.
func newValueEntry[K comparable, V any](value V, cost int64) *valueEntry[K, V] {
	return &valueEntry[K, V]{value: value, cost: cost}
}

// linkAccessOrder pushes a new node for key onto the access-order queue and
// keeps its handle. The entry must not already be linked there; use
// touchAccessOrder for that.
func (e *valueEntry[K, V]) linkAccessOrder(q *accessOrderDeque[K], key K, hash uint64, ts clock.Instant) {
	if !e.nodes.accessOrder.IsZero() {
		panic("cache: entry already linked into the access-order queue")
	}
	e.nodes.accessOrder = q.PushBack(newKeyHashDate(key, hash, ts))
}

// touchAccessOrder moves the entry's node to the back of the access-order
// queue and stamps it. Reports false, doing nothing, if the entry is unlinked.
func (e *valueEntry[K, V]) touchAccessOrder(q *accessOrderDeque[K], ts clock.Instant) bool {
	h := e.nodes.accessOrder
	if h.IsZero() {
		return false
	}
	q.MoveToBack(h)
	n, _ := q.Get(h)
	n.Element.SetLastAccessed(ts)
	return true
}

// linkWriteOrder pushes a new node for key onto the write-order queue.
// The entry must not already be linked there.
func (e *valueEntry[K, V]) linkWriteOrder(q *writeOrderDeque[K], key K, ts clock.Instant) {
	if !e.nodes.writeOrder.IsZero() {
		panic("cache: entry already linked into the write-order queue")
	}
	e.nodes.writeOrder = q.PushBack(newKeyDate(key, ts))
}

// touchWriteOrder moves the entry's node to the back of the write-order
// queue and stamps it. Reports false if the entry is unlinked.
func (e *valueEntry[K, V]) touchWriteOrder(q *writeOrderDeque[K], ts clock.Instant) bool {
	h := e.nodes.writeOrder
	if h.IsZero() {
		return false
	}
	q.MoveToBack(h)
	n, _ := q.Get(h)
	n.Element.SetLastModified(ts)
	return true
}

// takeAccessOrderHandle clears and returns the access-order handle.
func (e *valueEntry[K, V]) takeAccessOrderHandle() deque.Handle[keyHashDate[K]] {
	h := e.nodes.accessOrder
	e.nodes.accessOrder = deque.Handle[keyHashDate[K]]{}
	return h
}

// takeWriteOrderHandle clears and returns the write-order handle.
func (e *valueEntry[K, V]) takeWriteOrderHandle() deque.Handle[keyDate[K]] {
	h := e.nodes.writeOrder
	e.nodes.writeOrder = deque.Handle[keyDate[K]]{}
	return h
}

// unlinkFrom takes both handles and unlinks their nodes. Afterwards the
// entry is in neither queue.
func (e *valueEntry[K, V]) unlinkFrom(ao *accessOrderDeque[K], wo *writeOrderDeque[K]) {
	if h := e.takeAccessOrderHandle(); !h.IsZero() {
		ao.Unlink(h)
	}
	if h := e.takeWriteOrderHandle(); !h.IsZero() {
		wo.Unlink(h)
	}
}

// replaceDeqNodesWith moves both of other's handles into e, leaving other
// unlinked and safe to drop. Used when a value is replaced in place so the
// key keeps its queue positions. e must not hold handles of its own.
func (e *valueEntry[K, V]) replaceDeqNodesWith(other *valueEntry[K, V]) {
	if !e.nodes.accessOrder.IsZero() || !e.nodes.writeOrder.IsZero() {
		panic("cache: replaceDeqNodesWith on a linked entry would orphan its nodes")
	}
	e.nodes.accessOrder = other.takeAccessOrderHandle()
	e.nodes.writeOrder = other.takeWriteOrderHandle()
}

// ---- AccessTime ----

func (e *valueEntry[K, V]) LastAccessed() (clock.Instant, bool) {
	n, ok := e.nodes.accessOrder.Node()
	if !ok {
		return clock.Instant{}, false
	}
	return n.Element.LastAccessed()
}

// SetLastAccessed stamps the access-order node, if any.
func (e *valueEntry[K, V]) SetLastAccessed(ts clock.Instant) {
	if n, ok := e.nodes.accessOrder.Node(); ok {
		n.Element.SetLastAccessed(ts)
	}
}

func (e *valueEntry[K, V]) LastModified() (clock.Instant, bool) {
	n, ok := e.nodes.writeOrder.Node()
	if !ok {
		return clock.Instant{}, false
	}
	return n.Element.LastModified()
}

// SetLastModified stamps the write-order node, if any.
func (e *valueEntry[K, V]) SetLastModified(ts clock.Instant) {
	if n, ok := e.nodes.writeOrder.Node(); ok {
		n.Element.SetLastModified(ts)
	}
}
