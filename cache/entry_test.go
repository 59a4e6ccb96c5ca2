package cache

import (
	"slices"
	"testing"

	"github.com/IvanBrykalov/unsynccache/clock"
	"github.com/IvanBrykalov/unsynccache/internal/deque"
)

// --- helpers ---

func newQueues() (*accessOrderDeque[string], *writeOrderDeque[string]) {
	return deque.New[keyHashDate[string]](deque.AccessOrder), deque.New[keyDate[string]](deque.WriteOrder)
}

func ts(n int64) clock.Instant { return clock.FromNanos(n) }

func aoKeys(q *accessOrderDeque[string]) []string {
	var out []string
	for n := range q.All() {
		out = append(out, n.Element.key)
	}
	return out
}

// linked returns an entry for key linked into both queues.
func linked(ao *accessOrderDeque[string], wo *writeOrderDeque[string], key string, accessed, modified int64) *valueEntry[string, int] {
	e := newValueEntry[string](0, 0)
	e.linkAccessOrder(ao, key, uint64(len(key)), ts(accessed))
	e.linkWriteOrder(wo, key, ts(modified))
	return e
}

// --- tests ---

func TestValueEntry_NewIsUnlinked(t *testing.T) {
	t.Parallel()

	ao, wo := newQueues()
	e := newValueEntry[string](1, 0)

	if _, ok := e.LastAccessed(); ok {
		t.Fatal("never-linked entry must report unknown access time")
	}
	if _, ok := e.LastModified(); ok {
		t.Fatal("never-linked entry must report unknown modification time")
	}
	if e.touchAccessOrder(ao, ts(1)) || e.touchWriteOrder(wo, ts(1)) {
		t.Fatal("touch on an unlinked entry must be a no-op")
	}
	e.SetLastAccessed(ts(1)) // no handle: ignored
	if _, ok := e.LastAccessed(); ok {
		t.Fatal("setter without a handle must not invent a timestamp")
	}
	if ao.Len() != 0 || wo.Len() != 0 {
		t.Fatal("no nodes may be created by touches")
	}
}

func TestValueEntry_TouchStampsOnlyItsAxis(t *testing.T) {
	t.Parallel()

	ao, wo := newQueues()
	e := linked(ao, wo, "k", 1, 1)

	if !e.touchAccessOrder(ao, ts(5)) {
		t.Fatal("touch of linked entry must succeed")
	}
	if at, _ := e.LastAccessed(); at != ts(5) {
		t.Fatalf("LastAccessed want 5, got %v", at)
	}
	if at, _ := e.LastModified(); at != ts(1) {
		t.Fatalf("access touch must not move write time, got %v", at)
	}

	e.touchWriteOrder(wo, ts(8))
	if at, _ := e.LastModified(); at != ts(8) {
		t.Fatalf("LastModified want 8, got %v", at)
	}

	e.SetLastAccessed(ts(9))
	e.SetLastModified(ts(10))
	a, _ := e.LastAccessed()
	m, _ := e.LastModified()
	if a != ts(9) || m != ts(10) {
		t.Fatalf("setters must forward to nodes, got %v/%v", a, m)
	}
}

func TestValueEntry_DoubleLinkPanics(t *testing.T) {
	t.Parallel()

	ao, wo := newQueues()
	e := linked(ao, wo, "k", 1, 1)

	mustPanic(t, "already linked into the access-order", func() { e.linkAccessOrder(ao, "k", 1, ts(2)) })
	mustPanic(t, "already linked into the write-order", func() { e.linkWriteOrder(wo, "k", ts(2)) })
	if ao.Len() != 1 || wo.Len() != 1 {
		t.Fatal("failed link must not add nodes")
	}
}

// After taking a handle and unlinking it, the axis reads as unknown.
func TestValueEntry_TakeThenUnlinkIsUnknown(t *testing.T) {
	t.Parallel()

	ao, wo := newQueues()
	e := linked(ao, wo, "k", 1, 2)

	h := e.takeAccessOrderHandle()
	if h.IsZero() {
		t.Fatal("take must return the stored handle")
	}
	if got := ao.Unlink(h); got.key != "k" {
		t.Fatalf("unlinked node must carry key k, got %q", got.key)
	}
	if _, ok := e.LastAccessed(); ok {
		t.Fatal("LastAccessed must be unknown after take+unlink")
	}
	if !e.takeAccessOrderHandle().IsZero() {
		t.Fatal("second take must return a zero handle")
	}
	if at, ok := e.LastModified(); !ok || at != ts(2) {
		t.Fatal("write axis must be unaffected")
	}

	wh := e.takeWriteOrderHandle()
	wo.Unlink(wh)
	if _, ok := e.LastModified(); ok {
		t.Fatal("LastModified must be unknown after take+unlink")
	}
}

func TestValueEntry_ReplaceDeqNodesWith(t *testing.T) {
	t.Parallel()

	ao, wo := newQueues()
	old := linked(ao, wo, "k", 3, 4)
	fresh := newValueEntry[string](2, 0)

	fresh.replaceDeqNodesWith(old)

	if at, ok := fresh.LastAccessed(); !ok || at != ts(3) {
		t.Fatalf("new entry must report old access time, got (%v,%v)", at, ok)
	}
	if at, ok := fresh.LastModified(); !ok || at != ts(4) {
		t.Fatalf("new entry must report old write time, got (%v,%v)", at, ok)
	}
	if _, ok := old.LastAccessed(); ok {
		t.Fatal("old entry must be detached from access order")
	}
	if _, ok := old.LastModified(); ok {
		t.Fatal("old entry must be detached from write order")
	}
	if ao.Len() != 1 || wo.Len() != 1 {
		t.Fatal("transfer must not create or drop nodes")
	}

	// The new owner can unlink; the old one has nothing left to clean up.
	old.unlinkFrom(ao, wo)
	if ao.Len() != 1 || wo.Len() != 1 {
		t.Fatal("detached entry must not unlink anything")
	}
	fresh.unlinkFrom(ao, wo)
	if ao.Len() != 0 || wo.Len() != 0 {
		t.Fatal("new owner must unlink both nodes")
	}
}

func TestValueEntry_ReplaceIntoLinkedPanics(t *testing.T) {
	t.Parallel()

	ao, wo := newQueues()
	a := linked(ao, wo, "a", 1, 1)
	b := linked(ao, wo, "b", 1, 1)
	mustPanic(t, "orphan", func() { a.replaceDeqNodesWith(b) })
}

// Access order [A@1, B@2, C@3]; touching A yields [B, C, A] and pops B first.
func TestValueEntry_AccessOrderEvictionScenario(t *testing.T) {
	t.Parallel()

	ao, wo := newQueues()
	a := linked(ao, wo, "A", 1, 1)
	linked(ao, wo, "B", 2, 2)
	linked(ao, wo, "C", 3, 3)

	a.touchAccessOrder(ao, ts(4))
	if got := aoKeys(ao); !slices.Equal(got, []string{"B", "C", "A"}) {
		t.Fatalf("want [B C A], got %v", got)
	}
	front, ok := ao.PopFront()
	if !ok || front.key != "B" {
		t.Fatalf("PopFront want B, got %q", front.key)
	}
	if at, _ := front.LastAccessed(); at != ts(2) {
		t.Fatalf("popped node keeps its stamp, got %v", at)
	}
}
