package cache

import (
	"math/rand"
	"strconv"
	"testing"
	"time"
)

// benchmarkMix exercises a read/write mix against a warm cache from a
// single goroutine. String keys include strconv/concat costs and often
// allocate, which is fine for an end-to-end benchmark.
func benchmarkMix(b *testing.B, readsPct int) {
	c := New[string, string](Options[string, string]{
		Capacity: 100_000,
	})
	b.Cleanup(func() { _ = c.Close() })

	// Preload half the capacity to get a realistic hit-rate.
	for i := 0; i < 50_000; i++ {
		c.Set("k:"+strconv.Itoa(i), "v")
	}

	b.ReportAllocs()
	b.ResetTimer()

	r := rand.New(rand.NewSource(1))
	keyMask := (1 << 16) - 1 // hot keyspace
	for i := 0; i < b.N; i++ {
		k := "k:" + strconv.Itoa(i&keyMask)
		if r.Intn(100) < readsPct {
			c.Get(k)
		} else {
			c.Set(k, "v")
		}
	}
}

func BenchmarkCache_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkCache_50r50w(b *testing.B) { benchmarkMix(b, 50) }

// benchmarkMixInt is the same workload but with int keys.
// This removes strconv/alloc noise and better exposes the queue hot path.
func benchmarkMixInt(b *testing.B, readsPct int, opt Options[int, int]) {
	opt.Capacity = 100_000
	c := New[int, int](opt)
	b.Cleanup(func() { _ = c.Close() })

	for i := 0; i < 50_000; i++ {
		c.Set(i, 1)
	}

	b.ReportAllocs()
	b.ResetTimer()

	r := rand.New(rand.NewSource(1))
	keyMask := (1 << 17) - 1 // larger than capacity: forces evictions
	for i := 0; i < b.N; i++ {
		k := i & keyMask
		if r.Intn(100) < readsPct {
			c.Get(k)
		} else {
			c.Set(k, 1)
		}
	}
}

func BenchmarkCache_IntKeys_90r10w(b *testing.B) { benchmarkMixInt(b, 90, Options[int, int]{}) }
func BenchmarkCache_IntKeys_50r50w(b *testing.B) { benchmarkMixInt(b, 50, Options[int, int]{}) }

// With both expiry axes on, every write also scans the queue fronts.
func BenchmarkCache_IntKeys_Expiring(b *testing.B) {
	benchmarkMixInt(b, 50, Options[int, int]{TimeToLive: time.Minute, TimeToIdle: 10 * time.Second})
}
