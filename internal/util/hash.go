// Package util contains internal helpers (key hashing, segment sizing).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a 64-bit hash of common key types.
// Strings, byte slices and fixed-size byte arrays go through xxhash;
// integer-like keys use an allocation-free FNV-1a over their 8 little-endian bytes.
// fmt.Stringer keys hash their String() form.
// Other key types panic: supply Options.Hasher for them instead of silently
// hashing poorly.
func Hash[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return xxhash.Sum64String(v)
	case []byte:
		return xxhash.Sum64(v)
	case [16]byte:
		return xxhash.Sum64(v[:])
	case [32]byte:
		return xxhash.Sum64(v[:])
	case [64]byte:
		return xxhash.Sum64(v[:])

	case uint8:
		return fnv64a(uint64(v))
	case uint16:
		return fnv64a(uint64(v))
	case uint32:
		return fnv64a(uint64(v))
	case uint64:
		return fnv64a(v)
	case uint:
		return fnv64a(uint64(v))
	case uintptr:
		return fnv64a(uint64(v))
	case int8:
		return fnv64a(uint64(uint8(v)))
	case int16:
		return fnv64a(uint64(uint16(v)))
	case int32:
		return fnv64a(uint64(uint32(v)))
	case int64:
		return fnv64a(uint64(v))
	case int:
		return fnv64a(uint64(v))

	case fmt.Stringer:
		return xxhash.Sum64String(v.String())
	default:
		panic(fmt.Sprintf("util.Hash: unsupported key type %T; set Options.Hasher", k))
	}
}

const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

func fnv64a(u uint64) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= uint64(byte(u))
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
