// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package fasthash provides a fast, non-cryptographic 32-bit mixer used by
// package anchor to resolve ties when a key's first-choice bucket has been
// removed.
package fasthash

import (
	"encoding/binary"
	"hash/crc32"
)

// castagnoliTable is the CRC32C polynomial table. The Go runtime
// transparently substitutes a hardware implementation (the SSE4.2 CRC32
// instruction on amd64, the CRC32 extension on arm64) for this specific
// table, which is exactly the intrinsic the algorithm this package ports
// relies on elsewhere; there is no need to hand-roll a SIMD/FNV split the
// way a lower-level language must.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// Hash mixes k using seed as the initial CRC32C accumulator and returns a
// well-avalanched 32-bit value.
//
// Hash is a pure function of its inputs: two processes calling Hash(k,
// seed) with the same arguments always agree on the result, which is
// required for two independently built anchors to agree on key placement.
// Hash is not a cryptographic hash; it only needs to be fast and well
// distributed.
func Hash(k, seed uint32) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], k)
	return crc32.Update(seed, castagnoliTable, buf[:])
}
