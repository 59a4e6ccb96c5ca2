package cache

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/IvanBrykalov/unsynccache/clock"
	"github.com/IvanBrykalov/unsynccache/internal/deque"
	"github.com/IvanBrykalov/unsynccache/internal/util"
	"github.com/IvanBrykalov/unsynccache/policy"
	"github.com/IvanBrykalov/unsynccache/policy/lru"
)

var (
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
	ErrNoLoader = errors.New("cache: no Loader provided")
	// ErrClosed is returned by GetOrLoad after Close.
	ErrClosed = errors.New("cache: closed")
)

// noCopy makes `go vet` (copylocks) flag copies of the cache by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// cache owns the primary index and the two queues and keeps them in
// lock-step: every indexed entry has exactly one access-order node and one
// write-order node, each carrying the entry's key.
type cache[K comparable, V any] struct {
	_ noCopy

	idx  *index[K, V]
	ao   *accessOrderDeque[K] // front = least recently used
	wo   *writeOrderDeque[K]  // front = oldest write
	cost int64                // total cost of resident entries

	hash   func(K) uint64
	pol    policy.Policy
	clk    clock.Clock
	log    *slog.Logger
	opt    Options[K, V]
	closed bool
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - nil Policy   -> lru with the Options limits
//   - nil Clock    -> clock.Monotonic()
//   - Segments <= 0 -> derived from Capacity, power of two
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Capacity < 0 {
		panic("cache: Capacity must be >= 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Clock == nil {
		opt.Clock = clock.Monotonic()
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}
	if opt.Hasher == nil {
		opt.Hasher = util.Hash[K]
	}
	if opt.Policy == nil {
		opt.Policy = lru.New(lru.Config{
			MaxEntries: opt.Capacity,
			MaxCost:    opt.MaxCost,
			TimeToLive: opt.TimeToLive,
			TimeToIdle: opt.TimeToIdle,
		})
	}

	segs := util.SegmentCount(opt.Segments, opt.Capacity)
	return &cache[K, V]{
		idx:  newIndex[K, V](segs, opt.Capacity),
		ao:   deque.New[keyHashDate[K]](deque.AccessOrder),
		wo:   deque.New[keyDate[K]](deque.WriteOrder),
		hash: opt.Hasher,
		pol:  opt.Policy,
		clk:  opt.Clock,
		log:  opt.Logger,
		opt:  opt,
	}
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Add(k K, v V) bool {
	if c.closed {
		return false
	}
	h := c.hash(k)
	now := c.clk.Now()
	if e, ok := c.idx.get(k, h); ok {
		if !c.pol.Expired(e, now) {
			return false
		}
		c.removeEntry(k, h, EvictExpired)
	}
	c.insert(k, h, v, now)
	return true
}

func (c *cache[K, V]) Set(k K, v V) {
	if c.closed {
		return
	}
	h := c.hash(k)
	now := c.clk.Now()
	old, ok := c.idx.get(k, h)
	if ok && c.pol.Expired(old, now) {
		c.removeEntry(k, h, EvictExpired)
		ok = false
	}
	if !ok {
		c.insert(k, h, v, now)
		return
	}

	// In-place update: the new entry takes over the old one's queue nodes,
	// then both axes are restamped (a write is also an access).
	ne := newValueEntry[K](v, c.costOf(v))
	ne.replaceDeqNodesWith(old)
	c.idx.put(k, h, ne)
	c.cost += ne.cost - old.cost
	ne.touchAccessOrder(c.ao, now)
	ne.touchWriteOrder(c.wo, now)

	c.notify(k, old.value, EvictReplaced)
	c.enforceLimits(now)
}

func (c *cache[K, V]) Get(k K) (V, bool) {
	var zero V
	if c.closed {
		return zero, false
	}
	h := c.hash(k)
	e, ok := c.idx.get(k, h)
	if !ok {
		c.opt.Metrics.Miss()
		return zero, false
	}
	now := c.clk.Now()
	if c.pol.Expired(e, now) {
		c.removeEntry(k, h, EvictExpired)
		c.opt.Metrics.Miss()
		c.opt.Metrics.Size(c.idx.len(), c.cost)
		return zero, false
	}
	e.touchAccessOrder(c.ao, now)
	c.opt.Metrics.Hit()
	return e.value, true
}

func (c *cache[K, V]) Peek(k K) (V, bool) {
	var zero V
	e, ok := c.lookup(k)
	if !ok {
		return zero, false
	}
	return e.value, true
}

func (c *cache[K, V]) Contains(k K) bool {
	_, ok := c.lookup(k)
	return ok
}

func (c *cache[K, V]) Remove(k K) bool {
	if c.closed {
		return false
	}
	h := c.hash(k)
	e, ok := c.idx.get(k, h)
	if !ok {
		return false
	}
	reason := EvictExplicit
	if c.pol.Expired(e, c.clk.Now()) {
		reason = EvictExpired
	}
	c.removeEntry(k, h, reason)
	c.opt.Metrics.Size(c.idx.len(), c.cost)
	return reason == EvictExplicit
}

func (c *cache[K, V]) RemoveIf(pred func(k K, v V) bool) int {
	if c.closed {
		return 0
	}
	now := c.clk.Now()
	var doomed []K
	for k, e := range c.idx.all() {
		if !c.pol.Expired(e, now) && pred(k, e.value) {
			doomed = append(doomed, k)
		}
	}
	for _, k := range doomed {
		c.removeEntry(k, c.hash(k), EvictExplicit)
	}
	c.opt.Metrics.Size(c.idx.len(), c.cost)
	return len(doomed)
}

func (c *cache[K, V]) Purge() {
	if c.closed {
		return
	}
	if c.opt.OnEvict == nil {
		// Nobody to notify: drop everything wholesale.
		c.ao.Clear()
		c.wo.Clear()
		c.idx.clear()
		c.cost = 0
	} else {
		for {
			n, ok := c.ao.PeekFront()
			if !ok {
				break
			}
			c.removeEntry(n.Element.key, n.Element.hash, EvictExplicit)
		}
	}
	c.opt.Metrics.Size(0, 0)
}

func (c *cache[K, V]) EvictExpired() int {
	if c.closed {
		return 0
	}
	n := c.evictExpired(c.clk.Now())
	c.opt.Metrics.Size(c.idx.len(), c.cost)
	return n
}

func (c *cache[K, V]) Keys() []K {
	if c.closed {
		return nil
	}
	now := c.clk.Now()
	keys := make([]K, 0, c.ao.Len())
	for n := range c.ao.All() {
		e, _ := c.idx.get(n.Element.key, n.Element.hash)
		if !c.pol.Expired(e, now) {
			keys = append(keys, n.Element.key)
		}
	}
	return keys
}

func (c *cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if c.closed {
			return
		}
		now := c.clk.Now()
		for k, e := range c.idx.all() {
			if c.pol.Expired(e, now) {
				continue
			}
			if !yield(k, e.value) {
				return
			}
		}
	}
}

func (c *cache[K, V]) Len() int { return c.idx.len() }

func (c *cache[K, V]) WeightedSize() int64 { return c.cost }

func (c *cache[K, V]) GetOrInsertWith(k K, init func() V) V {
	if v, ok := c.Get(k); ok {
		return v
	}
	v := init()
	c.Set(k, v)
	return v
}

func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if c.closed {
		return zero, ErrClosed
	}
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}
	v, err := c.opt.Loader(ctx, k)
	if err != nil {
		return zero, fmt.Errorf("cache: load %v: %w", k, err)
	}
	c.Set(k, v)
	return v, nil
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed = true
	return nil
}

// -------------------- internals --------------------

// lookup returns the unexpired entry for k without touching it.
func (c *cache[K, V]) lookup(k K) (*valueEntry[K, V], bool) {
	if c.closed {
		return nil, false
	}
	e, ok := c.idx.get(k, c.hash(k))
	if !ok || c.pol.Expired(e, c.clk.Now()) {
		return nil, false
	}
	return e, true
}

// insert indexes a new entry for k and links it at the back of both queues.
func (c *cache[K, V]) insert(k K, h uint64, v V, now clock.Instant) {
	e := newValueEntry[K](v, c.costOf(v))
	c.idx.put(k, h, e)
	e.linkAccessOrder(c.ao, k, h, now)
	e.linkWriteOrder(c.wo, k, now)
	c.cost += e.cost
	c.enforceLimits(now)
}

// removeEntry drops k from the index and unlinks both of its queue nodes.
// k must be indexed: a queue node without an index entry means the
// structure is already corrupt.
func (c *cache[K, V]) removeEntry(k K, h uint64, reason EvictReason) {
	e, ok := c.idx.remove(k, h)
	if !ok {
		panic(fmt.Sprintf("cache: no index entry for queued key %v", k))
	}
	e.unlinkFrom(c.ao, c.wo)
	c.cost -= e.cost

	if reportsEviction(reason) {
		c.opt.Metrics.Evict(reason)
	}
	if c.log.Enabled(context.Background(), slog.LevelDebug) {
		c.log.Debug("cache: entry removed", slog.Any("key", k), slog.String("reason", reason.String()))
	}
	c.notify(k, e.value, reason)
}

// evictExpired pops expired entries off both queue fronts. Each queue is
// ordered by the axis its nodes carry, so a scan stops at the first live node.
func (c *cache[K, V]) evictExpired(now clock.Instant) int {
	removed := 0
	for {
		n, ok := c.wo.PeekFront()
		if !ok || !c.pol.Expired(&n.Element, now) {
			break
		}
		// Write-order nodes carry no hash.
		k := n.Element.key
		c.removeEntry(k, c.hash(k), EvictExpired)
		removed++
	}
	for {
		n, ok := c.ao.PeekFront()
		if !ok || !c.pol.Expired(&n.Element, now) {
			break
		}
		c.removeEntry(n.Element.key, n.Element.hash, EvictExpired)
		removed++
	}
	return removed
}

// enforceLimits evicts expired entries, then least recently used entries
// until the policy no longer reports overflow.
func (c *cache[K, V]) enforceLimits(now clock.Instant) {
	c.evictExpired(now)
	for c.pol.Overflow(c.idx.len(), c.cost) {
		n, ok := c.ao.PeekFront()
		if !ok {
			break
		}
		c.removeEntry(n.Element.key, n.Element.hash, EvictCapacity)
	}
	c.opt.Metrics.Size(c.idx.len(), c.cost)
}

func (c *cache[K, V]) notify(k K, v V, reason EvictReason) {
	if cb := c.opt.OnEvict; cb != nil {
		cb(k, v, reason)
	}
}

// costOf computes the per-entry cost. Negative costs are clamped to zero.
func (c *cache[K, V]) costOf(v V) int64 {
	if c.opt.Cost == nil {
		return 0
	}
	cost := c.opt.Cost(v)
	if cost < 0 {
		if c.log.Enabled(context.Background(), slog.LevelDebug) {
			c.log.Debug("cache: negative cost clamped to zero", slog.Int("cost", cost))
		}
		return 0
	}
	return int64(cost)
}
