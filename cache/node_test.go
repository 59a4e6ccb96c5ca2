package cache

import (
	"strings"
	"testing"

	"github.com/IvanBrykalov/unsynccache/clock"
)

func mustPanic(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", substr)
		}
		msg := ""
		switch v := r.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		}
		if !strings.Contains(msg, substr) {
			t.Fatalf("panic %q does not contain %q", r, substr)
		}
	}()
	fn()
}

// A write-order node knows its write time but has no access time at all.
func TestKeyDate_OnlyTracksModification(t *testing.T) {
	t.Parallel()

	n := newKeyDate("k", clock.FromNanos(7))
	if at, ok := n.LastModified(); !ok || at != clock.FromNanos(7) {
		t.Fatalf("LastModified want (7,true), got (%v,%v)", at, ok)
	}
	if _, ok := n.LastAccessed(); ok {
		t.Fatal("write-order node must report unknown access time")
	}

	n.SetLastModified(clock.FromNanos(9))
	if at, _ := n.LastModified(); at != clock.FromNanos(9) {
		t.Fatalf("LastModified want 9, got %v", at)
	}
	mustPanic(t, "no access time", func() { n.SetLastAccessed(clock.FromNanos(1)) })
}

// An access-order node is the mirror image.
func TestKeyHashDate_OnlyTracksAccess(t *testing.T) {
	t.Parallel()

	n := newKeyHashDate("k", 0xfeed, clock.FromNanos(3))
	if at, ok := n.LastAccessed(); !ok || at != clock.FromNanos(3) {
		t.Fatalf("LastAccessed want (3,true), got (%v,%v)", at, ok)
	}
	if _, ok := n.LastModified(); ok {
		t.Fatal("access-order node must report unknown modification time")
	}
	if n.hash != 0xfeed {
		t.Fatalf("hash must be kept, got %x", n.hash)
	}

	n.SetLastAccessed(clock.FromNanos(4))
	if at, _ := n.LastAccessed(); at != clock.FromNanos(4) {
		t.Fatalf("LastAccessed want 4, got %v", at)
	}
	mustPanic(t, "no modification time", func() { n.SetLastModified(clock.FromNanos(1)) })
}

// A zero payload has no stamp on either axis.
func TestNodePayload_ZeroIsUnstamped(t *testing.T) {
	t.Parallel()

	var kd keyDate[int]
	var khd keyHashDate[int]
	if _, ok := kd.LastModified(); ok {
		t.Fatal("zero keyDate must be unstamped")
	}
	if _, ok := khd.LastAccessed(); ok {
		t.Fatal("zero keyHashDate must be unstamped")
	}
}
