package cache

import (
	"context"
	"iter"
)

// Cache is a single-threaded, in-memory key/value cache.
// It is NOT safe for concurrent use: confine each Cache to one goroutine
// (or guard it externally).
//
// Every operation is amortized O(1): one index lookup plus constant-time
// queue adjustments, and O(1) per entry removed by eviction.
type Cache[K comparable, V any] interface {
	// Add inserts k→v only if k is not present (an expired entry counts as absent).
	// Returns false if the key already exists (no update is performed).
	Add(k K, v V) bool

	// Set inserts or replaces k→v. A replacement keeps the key's queue nodes
	// and restamps both its access and write time.
	Set(k K, v V)

	// Get returns the value for k and a presence flag.
	// On hit, the entry becomes the most recently used; its write time is untouched.
	Get(k K) (V, bool)

	// Peek returns the value for k without affecting recency.
	Peek(k K) (V, bool)

	// Contains reports whether k is present and unexpired, without affecting recency.
	Contains(k K) bool

	// Remove deletes k if present and returns true on success.
	Remove(k K) bool

	// RemoveIf deletes every unexpired entry for which pred returns true and
	// returns how many were removed. pred must not call into the cache.
	RemoveIf(pred func(k K, v V) bool) int

	// Purge removes every entry.
	Purge()

	// EvictExpired removes entries past their time-to-live or time-to-idle
	// and returns how many were removed. Writes do this implicitly.
	EvictExpired() int

	// Keys returns unexpired keys from least to most recently used.
	Keys() []K

	// All yields unexpired entries in unspecified order without affecting
	// recency. The cache must not be modified during iteration.
	All() iter.Seq2[K, V]

	// Len returns the number of resident entries, including expired entries
	// that have not been evicted yet.
	Len() int

	// WeightedSize returns the total cost of resident entries.
	WeightedSize() int64

	// GetOrInsertWith returns the value for k, computing and inserting it with
	// init on miss.
	GetOrInsertWith(k K, init func() V) V

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// If no Loader was configured, returns ErrNoLoader. Failed loads are not cached.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Close marks the cache closed: writes are ignored and reads miss.
	Close() error
}
