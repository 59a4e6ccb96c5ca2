// Package clock provides the opaque, totally ordered instants the cache
// stamps onto its queue nodes, and the sources that produce them.
package clock

import "time"

// Instant is a point on a monotonic timeline. Only ordering and distance
// between two Instants from the same Clock are meaningful; an Instant has
// no relation to wall-clock time.
type Instant struct {
	ns int64
}

// FromNanos builds an Instant from a raw nanosecond reading.
// Intended for Clock implementations and tests.
func FromNanos(ns int64) Instant { return Instant{ns: ns} }

// Nanos returns the raw nanosecond reading.
func (t Instant) Nanos() int64 { return t.ns }

// Add returns t+d.
func (t Instant) Add(d time.Duration) Instant { return Instant{ns: t.ns + int64(d)} }

// Sub returns the duration t-u.
func (t Instant) Sub(u Instant) time.Duration { return time.Duration(t.ns - u.ns) }

// Before reports whether t is strictly earlier than u.
func (t Instant) Before(u Instant) bool { return t.ns < u.ns }

// After reports whether t is strictly later than u.
func (t Instant) After(u Instant) bool { return t.ns > u.ns }

// Compare returns -1, 0 or +1 depending on whether t is before, equal to,
// or after u.
func (t Instant) Compare(u Instant) int {
	switch {
	case t.ns < u.ns:
		return -1
	case t.ns > u.ns:
		return 1
	}
	return 0
}

// Clock is a source of Instants. Implementations must never go backwards.
type Clock interface {
	Now() Instant
}

// monotonic reads the runtime's monotonic clock relative to a fixed origin.
type monotonic struct {
	origin time.Time
}

// Monotonic returns a Clock backed by the runtime monotonic clock.
func Monotonic() Clock { return monotonic{origin: time.Now()} }

func (m monotonic) Now() Instant { return Instant{ns: int64(time.Since(m.origin))} }

// Manual is a Clock that only moves when told to. Useful for deterministic tests.
// The zero value starts at instant 0.
type Manual struct {
	now int64
}

// NewManual returns a Manual clock positioned at start.
func NewManual(start Instant) *Manual { return &Manual{now: start.ns} }

// Now implements Clock.
func (m *Manual) Now() Instant { return Instant{ns: m.now} }

// Advance moves the clock forward by d. Negative durations are ignored
// so the clock stays monotonic.
func (m *Manual) Advance(d time.Duration) {
	if d > 0 {
		m.now += int64(d)
	}
}
