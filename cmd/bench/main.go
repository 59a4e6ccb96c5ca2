// Command bench runs a synthetic workload against per-goroutine caches and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/unsynccache/cache"
	pmet "github.com/IvanBrykalov/unsynccache/metrics/prom"
)

type config struct {
	capacity int
	maxCost  int64
	ttl, tti time.Duration

	workers  int
	duration time.Duration
	readPct  int

	keys    int
	zipfS   float64
	zipfV   float64
	seed    int64
	preload int

	pprofAddr   string
	metricsAddr string
	logLevel    string
}

// result is one worker's tally. Workers never share a cache or counters.
type result struct {
	reads, writes, hits, misses uint64
	len                         int
}

func main() {
	var cfg config
	flag.IntVar(&cfg.capacity, "cap", 100_000, "cache capacity per worker (entries, 0 = unbounded)")
	flag.Int64Var(&cfg.maxCost, "maxcost", 0, "cost budget per worker (value bytes, 0 = unbounded)")
	flag.DurationVar(&cfg.ttl, "ttl", 0, "time to live since last write (0 = off)")
	flag.DurationVar(&cfg.tti, "tti", 0, "time to idle since last access (0 = off)")
	flag.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0), "worker goroutines, one cache each")
	flag.DurationVar(&cfg.duration, "duration", 10*time.Second, "benchmark duration")
	flag.IntVar(&cfg.readPct, "reads", 80, "read percentage [0..100]")
	flag.IntVar(&cfg.keys, "keys", 1_000_000, "keyspace size")
	flag.Float64Var(&cfg.zipfS, "zipf_s", 1.1, "Zipf s > 1 (skew)")
	flag.Float64Var(&cfg.zipfV, "zipf_v", 1.0, "Zipf v >= 1")
	flag.Int64Var(&cfg.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.IntVar(&cfg.preload, "preload", 0, "preload entries per worker (0 = cap/2)")
	flag.StringVar(&cfg.pprofAddr, "pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
	flag.StringVar(&cfg.metricsAddr, "http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug | info | warn | error")
	flag.Parse()

	logger, err := newLogger(cfg.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := validate(&cfg); err != nil {
		logger.Error("invalid flags", "err", err)
		os.Exit(2)
	}
	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("bench failed", "err", err)
		os.Exit(1)
	}
}

// newLogger builds a text logger whose level is held in a LevelVar.
func newLogger(level string) (*slog.Logger, error) {
	lv := new(slog.LevelVar)
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})), nil
}

func validate(cfg *config) error {
	switch {
	case cfg.capacity < 0:
		return errors.New("cap must be >= 0")
	case cfg.keys < 1:
		return errors.New("keys must be >= 1")
	case cfg.readPct < 0 || cfg.readPct > 100:
		return errors.New("reads must be in [0..100]")
	case cfg.zipfS <= 1 || cfg.zipfV < 1:
		return errors.New("zipf requires s > 1 and v >= 1")
	}
	if cfg.workers <= 0 {
		cfg.workers = 1
	}
	if cfg.preload == 0 {
		cfg.preload = cfg.capacity / 2
	}
	return nil
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	// ---- pprof server (on DefaultServeMux) ----
	if cfg.pprofAddr != "" {
		go func() {
			logger.Info("pprof: serving", "addr", cfg.pprofAddr)
			logger.Warn("pprof: stopped", "err", http.ListenAndServe(cfg.pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (private registry) ----
	reg := prometheus.NewRegistry()
	if cfg.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			logger.Info("metrics: serving", "addr", cfg.metricsAddr)
			logger.Warn("metrics: stopped", "err", http.ListenAndServe(cfg.metricsAddr, mux))
		}()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.duration)
	defer cancel()

	results := make([]result, cfg.workers)
	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := 0; w < cfg.workers; w++ {
		metrics := pmet.New(reg, "unsynccache", "bench", prometheus.Labels{
			"run_id": runID,
			"worker": strconv.Itoa(w),
		})
		g.Go(func() error {
			res, err := work(ctx, cfg, w, metrics, logger.With("worker", w))
			results[w] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	report(cfg, runID, time.Since(start), results)
	return nil
}

// work drives one cache owned exclusively by this goroutine until ctx ends.
func work(ctx context.Context, cfg config, id int, m cache.Metrics, logger *slog.Logger) (result, error) {
	c := cache.New[string, string](cache.Options[string, string]{
		Capacity:   cfg.capacity,
		MaxCost:    cfg.maxCost,
		Cost:       func(v string) int { return len(v) },
		TimeToLive: cfg.ttl,
		TimeToIdle: cfg.tti,
		Metrics:    m,
		Logger:     logger,
	})
	defer func() { _ = c.Close() }()

	for i := 0; i < cfg.preload; i++ {
		c.Set("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}
	logger.Debug("preloaded", "entries", c.Len())

	// rand.Rand is not goroutine-safe; each worker owns its stream.
	r := rand.New(rand.NewSource(cfg.seed + int64(id)*9973))
	zipf := rand.NewZipf(r, cfg.zipfS, cfg.zipfV, uint64(cfg.keys-1))
	key := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

	var res result
	for ops := 0; ; ops++ {
		// Checking the context every op dominates the hot path.
		if ops&1023 == 0 && ctx.Err() != nil {
			break
		}
		if int(r.Int31n(100)) < cfg.readPct {
			res.reads++
			if _, ok := c.Get(key()); ok {
				res.hits++
			} else {
				res.misses++
			}
		} else {
			res.writes++
			c.Set(key(), "v"+strconv.Itoa(r.Int()))
		}
	}
	res.len = c.Len()
	return res, nil
}

func report(cfg config, runID string, elapsed time.Duration, results []result) {
	var total result
	for _, r := range results {
		total.reads += r.reads
		total.writes += r.writes
		total.hits += r.hits
		total.misses += r.misses
		total.len += r.len
	}
	ops := total.reads + total.writes
	hitRate := 0.0
	if total.reads > 0 {
		hitRate = float64(total.hits) / float64(total.reads) * 100
	}

	fmt.Printf("run=%s cap=%d maxcost=%d ttl=%v tti=%v workers=%d keys=%d dur=%v seed=%d\n",
		runID, cfg.capacity, cfg.maxCost, cfg.ttl, cfg.tti, cfg.workers, cfg.keys, elapsed, cfg.seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), total.reads, total.writes)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", total.hits, total.misses, hitRate)
	fmt.Printf("Len() summed over workers=%d\n", total.len)
}
