package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/IvanBrykalov/unsynccache/clock"
	"github.com/IvanBrykalov/unsynccache/policy"
)

// Options configures the cache. Zero values are safe;
// defaults are applied in New():
//   - Capacity 0   => no entry limit
//   - nil Policy   => lru policy built from Capacity/MaxCost/TimeToLive/TimeToIdle
//   - nil Hasher   => xxhash/FNV-1a for built-in key types
//   - nil Metrics  => NoopMetrics
//   - nil Clock    => clock.Monotonic()
//   - nil Logger   => discard
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit (used together with MaxCost if set).
	// Negative values panic.
	Capacity int

	// Cost-based limiting (e.g., bytes). If Cost is non-nil and MaxCost > 0,
	// the cache evicts until both entry count and total cost limits are satisfied.
	Cost    func(v V) int // nil = all entries cost 0
	MaxCost int64         // 0 disables cost limiting

	// TimeToLive expires entries this long after they were last written (0 = never).
	TimeToLive time.Duration
	// TimeToIdle expires entries this long after they were last read or written (0 = never).
	TimeToIdle time.Duration

	// Policy replaces the default threshold policy. When set, Capacity,
	// MaxCost, TimeToLive and TimeToIdle only size the index.
	Policy policy.Policy

	// Segments is the number of primary-index segments, rounded up to a power
	// of two. 0 derives it from Capacity.
	Segments int

	// Hasher hashes keys. Required for key types util.Hash does not cover.
	Hasher func(k K) uint64

	// Loader fetches a value on miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called synchronously for every entry that leaves the cache,
	// after the entry is fully unlinked. It must not call back into the cache.
	OnEvict func(k K, v V, reason EvictReason)
	Metrics Metrics

	// Clock is the time source for access/write stamps.
	Clock clock.Clock

	// Logger receives Debug records for removals and clamped costs.
	Logger *slog.Logger
}
