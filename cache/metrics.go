package cache

// EvictReason explains why an entry left the cache.
type EvictReason int

const (
	// EvictExpired: past its time-to-live or time-to-idle.
	EvictExpired EvictReason = iota
	// EvictCapacity: least recently used entry shed to satisfy entry/cost limits.
	EvictCapacity
	// EvictExplicit: removed by Remove, RemoveIf or Purge.
	EvictExplicit
	// EvictReplaced: value overwritten by Set.
	EvictReplaced
)

func (r EvictReason) String() string {
	switch r {
	case EvictExpired:
		return "expired"
	case EvictCapacity:
		return "capacity"
	case EvictExplicit:
		return "explicit"
	case EvictReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
// Evict is reported only for EvictExpired and EvictCapacity.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int, cost int64)
}

// NoopMetrics discards every signal. It is the default when no
// observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int, int64)   {}

var _ Metrics = NoopMetrics{}

// reportsEviction reports whether r is forwarded to Metrics.Evict.
// Explicit removals and replacements are caller actions, not evictions.
func reportsEviction(r EvictReason) bool {
	return r == EvictExpired || r == EvictCapacity
}
