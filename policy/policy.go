// Package policy defines the threshold decisions the cache engine consults
// while it scans its access-order and write-order queues.
package policy

import "github.com/IvanBrykalov/unsynccache/clock"

// Timestamps is the read side of an entry's time bookkeeping.
//
// Each axis reports false when it is unknown: the entry was never linked
// into the queue that tracks that axis, or the value is a queue node that
// categorically does not track it (a write-order node has no access time,
// an access-order node has no modification time).
type Timestamps interface {
	LastAccessed() (clock.Instant, bool)
	LastModified() (clock.Instant, bool)
}

// Policy decides when the engine sheds entries.
//
// Semantics:
//   - Expired is asked about whole entries (on lookup) and about bare queue
//     nodes (while scanning queue fronts). It must only consider axes that
//     are known, and must be monotone in now: once true for an instant it
//     stays true for every later instant. The engine relies on this to stop
//     a front-to-back scan at the first live node.
//   - Overflow is asked after every write with the resident entry count and
//     total cost; while it reports true the engine evicts the least recently
//     used entry.
type Policy interface {
	Expired(t Timestamps, now clock.Instant) bool
	Overflow(entries int, cost int64) bool
}
