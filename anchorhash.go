// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package anchorhash implements a consistent hashing engine that maps
// arbitrary keys onto a dynamic set of caller-supplied resources, with
// minimal disruption when a resource is added or removed: only a 1/N
// share of keys move when growing from N-1 to N resources, and removing a
// resource redistributes exactly its keys, uniformly, across survivors.
//
// The core bucket-assignment state machine lives in package anchor, which
// implements Algorithm 3 from the AnchorHash paper
// (https://arxiv.org/abs/1812.09674). This package binds opaque bucket ids
// to caller-supplied resource values on top of it.
//
// Construct a binding with Builder or Collect. A binding is single-writer,
// multi-reader: GetResource may run concurrently with other readers, but
// AddResource/RemoveResource require the caller hold exclusive access
// while they run. The package installs no locks of its own.
package anchorhash

import (
	"fmt"

	"github.com/aristanetworks/anchorhash/anchor"
	"github.com/aristanetworks/anchorhash/hashmap"
	"github.com/aristanetworks/anchorhash/logger"
	"github.com/aristanetworks/anchorhash/sliceutils"
)

func bucketHash(k uint16) uint64   { return uint64(k) }
func bucketEqual(a, b uint16) bool { return a == b }

// AnchorHash binds bucket identifiers produced by an anchor.Anchor to
// caller-owned resource values, for keys of type K. R must be comparable
// because RemoveResource locates a resource by value equality (§4.D).
type AnchorHash[K any, R comparable] struct {
	anchor    *anchor.Anchor
	resources *hashmap.Hashmap[uint16, R]
	hasher    Hasher[K]
	log       logger.Logger
	metrics   *metrics
}

// GetResource hashes key, resolves it to a working bucket, and returns the
// resource bound to that bucket. It returns ok == false only when the
// binding currently holds no resources.
//
// GetResource never mutates the binding. It performs no heap allocation of
// its own; the configured Hasher may allocate (the default hasher does, as
// it formats the key with fmt).
func (h *AnchorHash[K, R]) GetResource(key K) (r R, ok bool) {
	hash := h.hasher(key)
	outcome := h.anchor.GetBucket(uint32(hash))
	h.metrics.recordLookup(outcome.Remapped)
	return h.resources.Get(outcome.Bucket)
}

// AddResource reclaims a bucket and binds r to it, returning
// ErrCapacityLimitReached if every bucket is already working.
func (h *AnchorHash[K, R]) AddResource(r R) error {
	b, ok := h.anchor.AddBucket()
	if !ok {
		h.metrics.recordCapacityExhausted()
		h.logResources("anchorhash: capacity limit reached, resources now:")
		return ErrCapacityLimitReached
	}
	if _, exists := h.resources.Get(b); exists {
		panic(fmt.Sprintf("anchorhash: bucket %d reclaimed while still bound", b))
	}
	h.resources.Set(b, r)
	h.metrics.recordAdd()
	h.metrics.setResources(h.resources.Len())
	h.logResources(fmt.Sprintf("anchorhash: bound bucket %d, resources now:", b))
	return nil
}

// RemoveResource finds the bucket bound to a resource equal to r (first
// match wins, by bucket-iteration order, for determinism under duplicate
// inserts) and frees it, returning ErrResourceNotFound if none is found.
func (h *AnchorHash[K, R]) RemoveResource(r R) error {
	var target uint16
	found := false
	h.resources.Range(func(b uint16, v R) bool {
		if v == r {
			target, found = b, true
			return false
		}
		return true
	})
	if !found {
		return ErrResourceNotFound
	}

	h.resources.Delete(target)
	h.anchor.RemoveBucket(target)
	h.metrics.recordRemove()
	h.metrics.setResources(h.resources.Len())
	h.logResources(fmt.Sprintf("anchorhash: freed bucket %d, resources now:", target))
	return nil
}

// logResources logs msg followed by the current resource set, converted
// via sliceutils.ToAnySlice so []R can be spread into Logger's
// variadic interface{} signature regardless of what R is.
func (h *AnchorHash[K, R]) logResources(msg string) {
	if h.log == nil {
		return
	}
	args := append([]interface{}{msg}, sliceutils.ToAnySlice(h.Resources())...)
	h.log.Info(args...)
}

// Resources returns every bound resource, in unspecified but
// iteration-stable order.
func (h *AnchorHash[K, R]) Resources() []R {
	out := make([]R, 0, h.resources.Len())
	h.resources.Range(func(_ uint16, v R) bool {
		out = append(out, v)
		return true
	})
	return out
}

// ResourcesMut calls fn once for every bound resource, letting fn mutate
// it in place. fn must not call AddResource/RemoveResource on h.
func (h *AnchorHash[K, R]) ResourcesMut(fn func(r *R)) {
	h.resources.RangeRef(func(_ uint16, v *R) bool {
		fn(v)
		return true
	})
}

// Len returns the number of resources currently bound.
func (h *AnchorHash[K, R]) Len() int {
	return h.resources.Len()
}

// Capacity returns the maximum number of resources this binding can hold.
func (h *AnchorHash[K, R]) Capacity() uint16 {
	return h.anchor.Capacity()
}

// Clone returns a deep copy: a new anchor, a new resource mapping, and the
// same hasher, logger and metrics configuration. The clone has an
// identical key-to-resource mapping for every key at the moment of the
// call, and can be mutated without affecting the original.
func (h *AnchorHash[K, R]) Clone() *AnchorHash[K, R] {
	clone := &AnchorHash[K, R]{
		anchor:    h.anchor.Clone(),
		resources: hashmap.New[uint16, R](uint(h.resources.Len()), bucketHash, bucketEqual),
		hasher:    h.hasher,
		log:       h.log,
		metrics:   h.metrics,
	}
	h.resources.Range(func(b uint16, v R) bool {
		clone.resources.Set(b, v)
		return true
	})
	return clone
}
