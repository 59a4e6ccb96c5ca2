package cache

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

// Fuzz basic Set/Get/Remove semantics under arbitrary string inputs.
// Lengths are capped to keep memory bounded during fuzzing.
func FuzzCache_SetGetRemove(f *testing.F) {
	f.Add("", "")
	f.Add("a", "1")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c := New[string, string](Options[string, string]{Capacity: 16})
		t.Cleanup(func() { _ = c.Close() })

		c.Set(k, v)
		got, ok := c.Get(k)
		if !ok || got != v {
			t.Fatalf("after Set/Get: want %q, got %q ok=%v", v, got, ok)
		}

		if c.Add(k, "other") {
			t.Fatalf("Add duplicate returned true")
		}
		if got2, ok := c.Get(k); !ok || got2 != v {
			t.Fatalf("after duplicate Add: want %q, got %q ok=%v", v, got2, ok)
		}

		if !c.Remove(k) {
			t.Fatalf("Remove must return true")
		}
		if _, ok := c.Get(k); ok {
			t.Fatalf("key must be absent after Remove")
		}
		if !c.Add(k, v) {
			t.Fatalf("Add after Remove must return true")
		}
	})
}

// Fuzz arbitrary operation streams: each byte picks an op and a key.
// Index and both queues must stay in lock-step throughout.
func FuzzCache_OpStream(f *testing.F) {
	f.Add([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	f.Add([]byte{0x10, 0x11, 0x12, 0x16, 0x16, 0x16, 0x15, 0x13})
	f.Add([]byte(strings.Repeat("\x00\x27\x46", 40)))

	f.Fuzz(func(t *testing.T, ops []byte) {
		c, clk := newTestCache(Options[string, int]{
			Capacity:   6,
			TimeToLive: 8 * time.Millisecond,
			TimeToIdle: 5 * time.Millisecond,
		})
		for i, b := range ops {
			k := "k" + strconv.Itoa(int(b>>4)&7)
			switch b & 7 {
			case 0, 1:
				c.Set(k, i)
			case 2:
				c.Add(k, i)
			case 3:
				c.Remove(k)
			case 4:
				c.Get(k)
			case 5:
				c.EvictExpired()
			case 6:
				clk.Advance(time.Duration(b>>4) * time.Millisecond)
			default:
				c.RemoveIf(func(_ string, v int) bool { return v%3 == 0 })
			}
			checkLockStep(t, c)
			if c.Len() > 6 {
				t.Fatalf("Len %d exceeds capacity", c.Len())
			}
		}
	})
}
