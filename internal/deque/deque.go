// Package deque implements the intrusive doubly linked queues the cache uses
// to track access order and write order.
//
// Nodes live in an arena owned by the Deque and are linked by arena index
// rather than by pointer. Callers hold a Handle, which names a node by index
// and generation: once the node is unlinked its generation moves on, so every
// copy of the old handle is detectably stale instead of dangling.
//
// The arena is allocated in fixed-size pages, so a *Node stays at the same
// address for as long as it is linked even when the arena grows.
//
// A Deque is not safe for concurrent use.
package deque

import (
	"fmt"
	"iter"
)

// Region names which ordering a Deque maintains.
type Region uint8

const (
	// AccessOrder queues are ordered by last read or write; front is least recently used.
	AccessOrder Region = iota
	// WriteOrder queues are ordered by last write; front is the oldest write.
	WriteOrder
)

func (r Region) String() string {
	switch r {
	case AccessOrder:
		return "access-order"
	case WriteOrder:
		return "write-order"
	default:
		return fmt.Sprintf("region(%d)", uint8(r))
	}
}

const (
	pageShift = 6
	pageSize  = 1 << pageShift
	pageMask  = pageSize - 1

	// none marks an absent prev/next link or an empty end of the deque.
	none = ^uint32(0)
)

// Node is one element of a Deque. Element is owned by the node and may be
// mutated in place (e.g. to restamp a timestamp) without relinking.
type Node[P any] struct {
	Element P

	prev, next uint32
	gen        uint32
	linked     bool
}

// Handle is a stable reference to a node, usable for O(1) removal and
// relocation. The zero Handle refers to nothing.
type Handle[P any] struct {
	d   *Deque[P]
	idx uint32
	gen uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle[P]) IsZero() bool { return h.d == nil }

// Node returns the node h names, or false if h is zero or stale.
func (h Handle[P]) Node() (*Node[P], bool) {
	if h.d == nil {
		return nil, false
	}
	return h.d.Get(h)
}

// Deque is a doubly linked list of Nodes backed by a paged arena.
// The zero value is not usable; call New.
type Deque[P any] struct {
	region Region

	pages []*[pageSize]Node[P]
	free  []uint32 // released slots, reused LIFO
	used  uint32   // high-water mark of slots ever handed out

	head, tail uint32
	len        int

	// mods counts structural changes; iterators compare it to detect
	// mutation mid-iteration.
	mods uint64
}

// New returns an empty deque for the given region.
func New[P any](region Region) *Deque[P] {
	return &Deque[P]{region: region, head: none, tail: none}
}

// Region returns the ordering this deque maintains.
func (d *Deque[P]) Region() Region { return d.region }

// Len returns the number of linked nodes.
func (d *Deque[P]) Len() int { return d.len }

// PushBack links a new node holding elem at the back and returns its handle.
func (d *Deque[P]) PushBack(elem P) Handle[P] {
	i := d.alloc(elem)
	d.linkBack(i)
	d.len++
	d.mods++
	return Handle[P]{d: d, idx: i, gen: d.slot(i).gen}
}

// Unlink removes the node named by h from wherever it sits, frees its slot
// and returns the element it held. h and all copies of it become stale.
//
// h must name a live node of this deque; anything else is a programming
// error and panics.
func (d *Deque[P]) Unlink(h Handle[P]) P {
	i := d.resolve(h, "unlink")
	d.detach(i)
	d.len--
	d.mods++
	return d.release(i)
}

// MoveToBack relocates the node named by h to the back without copying its
// element. It is a no-op if the node is already at the back.
// h must name a live node of this deque.
func (d *Deque[P]) MoveToBack(h Handle[P]) {
	i := d.resolve(h, "move to back")
	if i == d.tail {
		return
	}
	d.detach(i)
	d.linkBack(i)
	d.mods++
}

// PeekFront returns the oldest node without removing it.
func (d *Deque[P]) PeekFront() (*Node[P], bool) {
	if d.head == none {
		return nil, false
	}
	return d.slot(d.head), true
}

// PeekBack returns the newest node without removing it.
func (d *Deque[P]) PeekBack() (*Node[P], bool) {
	if d.tail == none {
		return nil, false
	}
	return d.slot(d.tail), true
}

// PopFront unlinks the oldest node and returns its element.
// On an empty deque it returns the zero element and false.
func (d *Deque[P]) PopFront() (P, bool) {
	if d.head == none {
		var zero P
		return zero, false
	}
	i := d.head
	d.detach(i)
	d.len--
	d.mods++
	return d.release(i), true
}

// Get returns the node named by h, or false if h is stale or belongs to
// another deque.
func (d *Deque[P]) Get(h Handle[P]) (*Node[P], bool) {
	if !d.live(h) {
		return nil, false
	}
	return d.slot(h.idx), true
}

// Contains reports whether h names a live node of this deque.
func (d *Deque[P]) Contains(h Handle[P]) bool { return d.live(h) }

// Clear unlinks every node. All outstanding handles become stale.
func (d *Deque[P]) Clear() {
	for i := d.head; i != none; {
		next := d.slot(i).next
		d.release(i)
		i = next
	}
	d.head, d.tail = none, none
	d.len = 0
	d.mods++
}

// All yields nodes from front to back. Iteration may stop early; mutating
// the deque structure while iterating panics at the next step.
func (d *Deque[P]) All() iter.Seq[*Node[P]] {
	return func(yield func(*Node[P]) bool) {
		mods := d.mods
		for i := d.head; i != none; {
			n := d.slot(i)
			next := n.next
			if !yield(n) {
				return
			}
			d.checkMods(mods)
			i = next
		}
	}
}

// Backward yields nodes from back to front under the same rules as All.
func (d *Deque[P]) Backward() iter.Seq[*Node[P]] {
	return func(yield func(*Node[P]) bool) {
		mods := d.mods
		for i := d.tail; i != none; {
			n := d.slot(i)
			prev := n.prev
			if !yield(n) {
				return
			}
			d.checkMods(mods)
			i = prev
		}
	}
}

// -------------------- internals --------------------

func (d *Deque[P]) slot(i uint32) *Node[P] { return &d.pages[i>>pageShift][i&pageMask] }

func (d *Deque[P]) alloc(elem P) uint32 {
	var i uint32
	if n := len(d.free); n > 0 {
		i = d.free[n-1]
		d.free = d.free[:n-1]
	} else {
		if d.used == none {
			panic(fmt.Sprintf("deque: %s arena exhausted", d.region))
		}
		i = d.used
		if i&pageMask == 0 {
			d.pages = append(d.pages, new([pageSize]Node[P]))
		}
		d.used++
	}
	n := d.slot(i)
	n.Element = elem
	n.linked = true
	return i
}

// release frees slot i and bumps its generation. The node must already be detached.
func (d *Deque[P]) release(i uint32) P {
	n := d.slot(i)
	elem := n.Element
	var zero P
	n.Element = zero
	n.prev, n.next = none, none
	n.linked = false
	n.gen++
	d.free = append(d.free, i)
	return elem
}

func (d *Deque[P]) linkBack(i uint32) {
	n := d.slot(i)
	n.prev = d.tail
	n.next = none
	if d.tail != none {
		d.slot(d.tail).next = i
	} else {
		d.head = i
	}
	d.tail = i
}

// detach splices slot i out of the sequence and clears its links.
func (d *Deque[P]) detach(i uint32) {
	n := d.slot(i)
	if n.prev != none {
		d.slot(n.prev).next = n.next
	} else {
		d.head = n.next
	}
	if n.next != none {
		d.slot(n.next).prev = n.prev
	} else {
		d.tail = n.prev
	}
	n.prev, n.next = none, none
}

func (d *Deque[P]) live(h Handle[P]) bool {
	if h.d != d || h.idx >= d.used {
		return false
	}
	n := d.slot(h.idx)
	return n.linked && n.gen == h.gen
}

// resolve returns the arena index behind h, panicking if h does not name a
// live node of d.
func (d *Deque[P]) resolve(h Handle[P], op string) uint32 {
	if h.d != d {
		panic(fmt.Sprintf("deque: %s: handle does not belong to this %s deque", op, d.region))
	}
	if !d.live(h) {
		panic(fmt.Sprintf("deque: %s: stale handle for %s deque", op, d.region))
	}
	return h.idx
}

func (d *Deque[P]) checkMods(mods uint64) {
	if d.mods != mods {
		panic(fmt.Sprintf("deque: %s deque mutated during iteration", d.region))
	}
}
