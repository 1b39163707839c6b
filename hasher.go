// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package anchorhash

import (
	"fmt"
	"hash/maphash"
)

// Hasher produces a 64-bit digest of a key. Only the low 32 bits are
// consumed by the anchor lookup, so it only needs to be uniformly
// distributed, not cryptographic. The same Hasher (or an equivalent one)
// must be used by every binding that needs to agree on key placement.
type Hasher[K any] func(K) uint64

// defaultHasher returns a process-randomized Hasher built on hash/maphash,
// the same package NewStringHasher and NewBytesHasher build on. It
// formats k with fmt.Sprintf("%v", ...) before hashing, so it works for any
// K at the cost of being slower than a type-specific Hasher; callers on a
// hot path should supply one via Builder.WithHasher instead.
func defaultHasher[K any]() Hasher[K] {
	seed := maphash.MakeSeed()
	return func(k K) uint64 {
		var h maphash.Hash
		h.SetSeed(seed)
		fmt.Fprintf(&h, "%v", k)
		return h.Sum64()
	}
}

// NewStringHasher returns a process-randomized Hasher[string] built
// directly on hash/maphash's string writer, avoiding the formatting
// overhead of the default hasher.
func NewStringHasher() Hasher[string] {
	seed := maphash.MakeSeed()
	return func(s string) uint64 {
		var h maphash.Hash
		h.SetSeed(seed)
		h.WriteString(s)
		return h.Sum64()
	}
}

// NewBytesHasher returns a process-randomized Hasher[[]byte] built
// directly on hash/maphash's byte-slice writer.
func NewBytesHasher() Hasher[[]byte] {
	seed := maphash.MakeSeed()
	return func(b []byte) uint64 {
		var h maphash.Hash
		h.SetSeed(seed)
		h.Write(b)
		return h.Sum64()
	}
}
