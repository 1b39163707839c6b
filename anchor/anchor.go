// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package anchor implements Algorithm 3 from the AnchorHash paper
// (https://arxiv.org/abs/1812.09674): a deterministic, allocation-free
// state machine mapping a 32-bit key hash onto one of a working set of
// bucket ids, with minimal disruption on bucket add/remove.
//
// Anchor owns only flat []uint16 arrays sized by its configured capacity;
// it does not know what a bucket id *means* to its caller. Package
// anchorhash binds bucket ids to caller-supplied resources on top of it.
//
// Anchor is not safe for concurrent use: GetBucket may run concurrently
// with other readers, but AddBucket/RemoveBucket require the caller hold
// exclusive access while they run.
package anchor

import (
	"fmt"

	"github.com/aristanetworks/anchorhash/fasthash"
	"github.com/aristanetworks/anchorhash/rangemap"
)

func rangeMap(v, max uint32) uint32  { return rangemap.Map(v, max) }
func fastHash(k, seed uint32) uint32 { return fasthash.Hash(k, seed) }

// Outcome is the result of resolving a key to a bucket. Remapped reports
// whether the resolution loop had to walk at least one successor link
// because the key's first-choice bucket had been removed; most callers
// only care about Bucket and can ignore Remapped.
type Outcome struct {
	Bucket   uint16
	Remapped bool
}

// Anchor is the AnchorHash bucket-assignment state machine for a fixed
// maximum capacity. See the package doc and the six arrays below for the
// invariants it maintains.
type Anchor struct {
	capacity uint16

	// A[b] == 0 iff b is a working bucket. Otherwise A[b] holds the
	// number of working buckets that existed immediately after b was
	// most recently removed (the size of the "Wb" snapshot).
	A []uint16

	// R is a LIFO stack of removed bucket ids; buckets are restored by
	// AddBucket in most-recently-removed-first order.
	R []uint16

	// N is the number of working buckets (len of the working prefix of W).
	N uint16

	// W[0:N] holds the working bucket ids; W[N:capacity] is scratch that
	// is only ever read after being written.
	W []uint16

	// K[b] is the successor of b: the bucket that replaced b in W at the
	// moment b was most recently removed. For a working bucket, K[b] == b.
	K []uint16

	// L[b] is the index bucket b currently occupies in W (if working) or
	// last occupied just before removal (if removed).
	L []uint16
}

// New builds an Anchor with room for capacity buckets, the first working
// of which are marked as in service.
//
// New panics if working > capacity; that is always a programmer error.
func New(capacity, working uint16) *Anchor {
	if working > capacity {
		panic(fmt.Sprintf("anchor: initially working (%d) exceeds capacity (%d)", working, capacity))
	}

	a := &Anchor{
		capacity: capacity,
		A:        make([]uint16, capacity),
		R:        make([]uint16, 0, capacity),
		N:        working,
		W:        make([]uint16, capacity),
		K:        make([]uint16, capacity),
		L:        make([]uint16, capacity),
	}
	for b := 0; b < int(capacity); b++ {
		a.W[b] = uint16(b)
		a.L[b] = uint16(b)
		a.K[b] = uint16(b)
	}
	for b := int(working); b < int(capacity); b++ {
		a.A[b] = uint16(b)
	}
	// R = [capacity-1, capacity-2, ..., working], top (last element) is
	// `working`, so the first AddBucket call restores buckets in
	// ascending order.
	for b := int(capacity); b > int(working); b-- {
		a.R = append(a.R, uint16(b-1))
	}
	return a
}

// Capacity returns the maximum number of buckets this Anchor can hold.
func (a *Anchor) Capacity() uint16 {
	return a.capacity
}

// Working returns the current number of working buckets.
func (a *Anchor) Working() uint16 {
	return a.N
}

// GetBucket resolves the 32-bit hash k to a working bucket id. It never
// mutates the Anchor and is safe to call concurrently with other readers.
//
// GetBucket returns a zero Outcome if no bucket is currently working
// (N == 0, which includes a zero-capacity Anchor): there is no working
// bucket to name, so the caller's resource binding is expected to treat
// bucket 0 of a zero Outcome as "no resource bound" rather than a real
// lookup result.
func (a *Anchor) GetBucket(k uint32) Outcome {
	if a.N == 0 {
		return Outcome{}
	}

	b := rangeMap(k, uint32(a.capacity))
	var remapped bool

	for a.A[b] != 0 {
		s := fastHash(b, k)
		h := rangeMap(s, uint32(a.A[b]))

		for a.A[h] >= a.A[b] {
			remapped = true
			h = uint32(a.K[h])
		}

		b = h
	}

	return Outcome{Bucket: uint16(b), Remapped: remapped}
}

// AddBucket reclaims the most recently removed bucket and marks it
// working, returning its id. It returns ok == false if every bucket is
// already working (the Anchor is at capacity).
func (a *Anchor) AddBucket() (b uint16, ok bool) {
	if len(a.R) == 0 {
		return 0, false
	}

	b = a.R[len(a.R)-1]
	a.R = a.R[:len(a.R)-1]

	a.A[b] = 0
	a.L[a.W[a.N]] = a.N
	a.W[a.L[b]] = b
	a.K[b] = b
	a.N++

	return b, true
}

// RemoveBucket takes bucket b out of service. Keys that mapped to b are
// redistributed uniformly across the remaining working buckets; keys that
// mapped elsewhere are unaffected.
//
// RemoveBucket panics if b is not currently working; that is always a
// programmer error.
func (a *Anchor) RemoveBucket(b uint16) {
	if a.A[b] != 0 {
		panic(fmt.Sprintf("anchor: remove of non-working bucket %d", b))
	}

	a.R = append(a.R, b)
	a.N--
	a.A[b] = a.N

	last := a.W[a.N]
	a.W[a.L[b]] = last
	a.K[b] = last
	a.L[last] = a.L[b]
}

// WorkingBuckets returns the ids of all currently working buckets, in
// unspecified order. It is intended for tests and telemetry, not the hot
// lookup path: it allocates and scans the full capacity.
func (a *Anchor) WorkingBuckets() []uint16 {
	if a.N == 0 {
		return nil
	}
	out := make([]uint16, 0, a.N)
	for b, v := range a.A {
		if v == 0 {
			out = append(out, uint16(b))
		}
	}
	return out
}

// Clone returns a deep copy of a: an independent Anchor that starts out
// with an identical key -> bucket mapping but can be mutated without
// affecting a.
func (a *Anchor) Clone() *Anchor {
	c := &Anchor{
		capacity: a.capacity,
		N:        a.N,
		A:        append([]uint16(nil), a.A...),
		R:        append([]uint16(nil), a.R...),
		W:        append([]uint16(nil), a.W...),
		K:        append([]uint16(nil), a.K...),
		L:        append([]uint16(nil), a.L...),
	}
	return c
}
