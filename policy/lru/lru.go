// Package lru implements the default threshold policy: least-recently-used
// eviction bounded by entry count and/or total cost, with optional
// time-to-live and time-to-idle expiration.
package lru

import (
	"time"

	"github.com/IvanBrykalov/unsynccache/clock"
	"github.com/IvanBrykalov/unsynccache/policy"
)

// Config sets the thresholds. Zero fields disable the corresponding limit.
type Config struct {
	// MaxEntries bounds the number of resident entries.
	MaxEntries int
	// MaxCost bounds the sum of entry costs.
	MaxCost int64
	// TimeToLive expires an entry this long after its last write.
	TimeToLive time.Duration
	// TimeToIdle expires an entry this long after its last read or write.
	TimeToIdle time.Duration
}

type lru struct {
	cfg Config
}

// New returns a Policy enforcing cfg.
// Negative limits are treated as disabled.
func New(cfg Config) policy.Policy {
	if cfg.MaxEntries < 0 {
		cfg.MaxEntries = 0
	}
	if cfg.MaxCost < 0 {
		cfg.MaxCost = 0
	}
	if cfg.TimeToLive < 0 {
		cfg.TimeToLive = 0
	}
	if cfg.TimeToIdle < 0 {
		cfg.TimeToIdle = 0
	}
	return &lru{cfg: cfg}
}

// Expired reports whether either known axis is past its limit.
func (p *lru) Expired(t policy.Timestamps, now clock.Instant) bool {
	if ttl := p.cfg.TimeToLive; ttl > 0 {
		if at, ok := t.LastModified(); ok && now.Sub(at) >= ttl {
			return true
		}
	}
	if tti := p.cfg.TimeToIdle; tti > 0 {
		if at, ok := t.LastAccessed(); ok && now.Sub(at) >= tti {
			return true
		}
	}
	return false
}

// Overflow reports whether the entry count or total cost exceeds its bound.
func (p *lru) Overflow(entries int, cost int64) bool {
	if p.cfg.MaxEntries > 0 && entries > p.cfg.MaxEntries {
		return true
	}
	return p.cfg.MaxCost > 0 && cost > p.cfg.MaxCost
}
