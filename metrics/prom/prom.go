// Package prom exports cache signals as Prometheus metrics.
package prom

import (
	"github.com/IvanBrykalov/unsynccache/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Metrics on top of Prometheus counters and gauges.
// A cache is owned by one goroutine, but several caches may share a registry
// under different const labels; Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions *prometheus.CounterVec
	entries   prometheus.Gauge
	cost      prometheus.Gauge
}

// New registers the adapter's collectors with reg (nil => prometheus.DefaultRegisterer).
// ns and sub become the metric namespace and subsystem; constLabels (may be nil)
// are attached to every series, which lets per-goroutine caches share a registry.
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}
	}
	a := &Adapter{
		hits:      prometheus.NewCounter(prometheus.CounterOpts(opts("hits_total", "Lookups that found a live entry"))),
		misses:    prometheus.NewCounter(prometheus.CounterOpts(opts("misses_total", "Lookups that found nothing or an expired entry"))),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts(opts("evictions_total", "Entries evicted, by reason")), []string{"reason"}),
		entries:   prometheus.NewGauge(prometheus.GaugeOpts(opts("entries", "Resident entries"))),
		cost:      prometheus.NewGauge(prometheus.GaugeOpts(opts("weighted_size", "Total cost of resident entries"))),
	}
	reg.MustRegister(a.hits, a.misses, a.evictions, a.entries, a.cost)
	return a
}

func (a *Adapter) Hit()  { a.hits.Inc() }
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict counts an eviction under its reason label ("expired", "capacity").
func (a *Adapter) Evict(r cache.EvictReason) {
	a.evictions.WithLabelValues(r.String()).Inc()
}

// Size sets the entry and cost gauges.
func (a *Adapter) Size(entries int, cost int64) {
	a.entries.Set(float64(entries))
	a.cost.Set(float64(cost))
}

var _ cache.Metrics = (*Adapter)(nil)
