// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package rangemap maps a uint32 into [0, max) without the cost of an
// integer division on the hot lookup path.
package rangemap

// Map maps v into the half-open range [0, max) using Daniel Lemire's
// multiply-shift trick (see "Fast Random Integer Generation in an
// Interval", https://arxiv.org/abs/1805.10941): the 64-bit product of v
// and max has its high 32 bits uniformly distributed over [0, max),
// without the division the exact-modulo form below requires.
//
// The result carries a small bias that is benign for load balancing
// purposes; callers needing an unbiased mapping should use Exact instead.
//
// max must be non-zero; Map panics otherwise.
func Map(v, max uint32) uint32 {
	if max == 0 {
		panic("rangemap: max must be non-zero")
	}
	return uint32((uint64(v) * uint64(max)) >> 32)
}

// Exact maps v into [0, max) by modulo, the unbiased but (on most
// platforms) slightly slower alternative to Map.
//
// max must be non-zero; Exact panics otherwise.
func Exact(v, max uint32) uint32 {
	if max == 0 {
		panic("rangemap: max must be non-zero")
	}
	return v % max
}
