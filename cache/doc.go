// Package cache provides a generic, single-threaded in-memory cache that
// evicts in O(1) by least-recent use, time-to-live and time-to-idle, with
// cost-based capacity, a pluggable threshold policy, lightweight metrics
// hooks and an eviction listener.
//
// Design
//
//   - Concurrency: none. A Cache is meant to be owned by one goroutine; no
//     operation locks, blocks or yields mid-mutation. Give each goroutine
//     its own Cache when you need parallelism.
//
//   - Storage: a primary index (a Go map split into power-of-two segments by
//     key hash) maps each key to a value entry. Each entry holds one handle
//     into each of two intrusive queues:
//     the access-order queue (front = least recently used) and
//     the write-order queue (front = oldest write).
//
//   - Queues: arena-backed doubly linked lists addressed by generation-checked
//     handles. Unlinking a node stales every copy of its handle, so a handle
//     can never reach a reused slot. Push, unlink and move-to-back are O(1).
//
//   - Timestamps: access-order nodes carry the last access time and the key
//     hash; write-order nodes carry the last write time. Each node type
//     tracks exactly one axis; a value entry reads both through its handles.
//
//   - Updates: Set on an existing key builds a new entry that takes over the
//     old entry's queue nodes (no relinking), then restamps both axes.
//     Get restamps only the access axis.
//
//   - Eviction: every write first pops expired nodes off both queue fronts,
//     then sheds access-order fronts while the policy reports overflow.
//     The popped node's key (and, on the access-order queue, its hash)
//     locates the index entry, whose other handle is then unlinked too.
//
//   - Policies: Options.Policy decides expiry and overflow; by default
//     policy/lru enforces Capacity, MaxCost, TimeToLive and TimeToIdle.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; metrics/prom exports them to Prometheus.
//
//   - Callbacks: Options.OnEvict(k, v, reason) is called for every entry that
//     leaves the cache (reason is one of EvictExpired, EvictCapacity,
//     EvictExplicit, EvictReplaced).
//
// Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// With expiration
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity:   1024,
//	    TimeToLive: time.Minute,     // since last write
//	    TimeToIdle: 10 * time.Second, // since last read or write
//	})
//
// Deterministic time in tests
//
//	clk := clock.NewManual(clock.FromNanos(0))
//	c := cache.New[string, int](cache.Options[string, int]{TimeToLive: time.Second, Clock: clk})
//	c.Set("k", 1)
//	clk.Advance(time.Second)
//	_, ok := c.Get("k") // ok == false
package cache
