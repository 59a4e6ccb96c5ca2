package cache

import (
	"github.com/IvanBrykalov/unsynccache/clock"
	"github.com/IvanBrykalov/unsynccache/policy"
)

// AccessTime is the read/write surface for "when was this last touched",
// on two independent axes.
//
// It is implemented by exactly three shapes:
//   - value entries, which forward each axis to the queue node their handle
//     points at and report unknown when they hold no handle for that axis;
//   - write-order queue nodes, which track only LastModified;
//   - access-order queue nodes, which track only LastAccessed.
//
// On a queue node the untracked axis reads as unknown and its setter panics:
// that axis is not zero, it does not apply.
type AccessTime interface {
	policy.Timestamps
	SetLastAccessed(clock.Instant)
	SetLastModified(clock.Instant)
}

var (
	_ AccessTime = (*valueEntry[string, int])(nil)
	_ AccessTime = (*keyDate[string])(nil)
	_ AccessTime = (*keyHashDate[string])(nil)
)
