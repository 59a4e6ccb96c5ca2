package cache

import "github.com/IvanBrykalov/unsynccache/clock"

// keyDate is the payload of a write-order queue node.
// It tracks only the last write; the access axis does not exist for it.
type keyDate[K comparable] struct {
	key K

	timestamp clock.Instant
	stamped   bool
}

func newKeyDate[K comparable](key K, ts clock.Instant) keyDate[K] {
	return keyDate[K]{key: key, timestamp: ts, stamped: true}
}

// LastAccessed is always unknown: write-order nodes do not track access.
func (n *keyDate[K]) LastAccessed() (clock.Instant, bool) { return clock.Instant{}, false }

// SetLastAccessed panics; stamping access time on a write-order node is a bug.
func (n *keyDate[K]) SetLastAccessed(clock.Instant) {
	panic("cache: write-order node has no access time")
}

func (n *keyDate[K]) LastModified() (clock.Instant, bool) { return n.timestamp, n.stamped }

func (n *keyDate[K]) SetLastModified(ts clock.Instant) {
	n.timestamp, n.stamped = ts, true
}

// keyHashDate is the payload of an access-order queue node.
// hash is the key's hash, recorded so eviction from the queue front can
// address the primary index without rehashing the key.
type keyHashDate[K comparable] struct {
	key  K
	hash uint64

	timestamp clock.Instant
	stamped   bool
}

func newKeyHashDate[K comparable](key K, hash uint64, ts clock.Instant) keyHashDate[K] {
	return keyHashDate[K]{key: key, hash: hash, timestamp: ts, stamped: true}
}

func (n *keyHashDate[K]) LastAccessed() (clock.Instant, bool) { return n.timestamp, n.stamped }

func (n *keyHashDate[K]) SetLastAccessed(ts clock.Instant) {
	n.timestamp, n.stamped = ts, true
}

// LastModified is always unknown: access-order nodes do not track writes.
func (n *keyHashDate[K]) LastModified() (clock.Instant, bool) { return clock.Instant{}, false }

// SetLastModified panics; stamping write time on an access-order node is a bug.
func (n *keyHashDate[K]) SetLastModified(clock.Instant) {
	panic("cache: access-order node has no modification time")
}
