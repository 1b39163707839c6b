// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package anchorhash

import (
	"fmt"

	"github.com/aristanetworks/anchorhash/anchor"
	glogadapter "github.com/aristanetworks/anchorhash/glog"
	"github.com/aristanetworks/anchorhash/hashmap"
	"github.com/aristanetworks/anchorhash/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// Builder accumulates configuration for an AnchorHash binding: an initial
// resource set, the key hasher, and optional observability hooks.
type Builder[K any, R comparable] struct {
	resources []R
	hasher    Hasher[K]
	registry  prometheus.Registerer
	log       logger.Logger
}

// NewBuilder returns an empty Builder.
func NewBuilder[K any, R comparable]() *Builder[K, R] {
	return &Builder[K, R]{}
}

// WithHasher sets the key hasher. Without a call to WithHasher, Build uses
// a process-randomized default that works for any K at some performance
// cost; NewStringHasher and NewBytesHasher are faster ready-made hashers
// for the common cases.
func (b *Builder[K, R]) WithHasher(h Hasher[K]) *Builder[K, R] {
	b.hasher = h
	return b
}

// WithResources appends resources to the initial resource set added by
// Build, in the order given.
func (b *Builder[K, R]) WithResources(resources ...R) *Builder[K, R] {
	b.resources = append(b.resources, resources...)
	return b
}

// WithMetrics registers the binding's counters and gauge against reg.
// Without a call to WithMetrics, the binding records nothing.
func (b *Builder[K, R]) WithMetrics(reg prometheus.Registerer) *Builder[K, R] {
	b.registry = reg
	return b
}

// WithLogger sets the logger used to report bucket reclaim/free and
// capacity exhaustion. Without a call to WithLogger, Build defaults to a
// glog-backed logger.Logger.
func (b *Builder[K, R]) WithLogger(log logger.Logger) *Builder[K, R] {
	b.log = log
	return b
}

// Build constructs a binding with the given capacity and initially_working
// = 0 (§4.E), then adds each accumulated resource in order.
//
// Build panics if the accumulated resource set exceeds capacity; that is
// always a programmer error.
func (b *Builder[K, R]) Build(capacity uint16) *AnchorHash[K, R] {
	if len(b.resources) > int(capacity) {
		panic(fmt.Sprintf("anchorhash: %d initial resources exceed capacity %d", len(b.resources), capacity))
	}

	hasher := b.hasher
	if hasher == nil {
		hasher = defaultHasher[K]()
	}
	log := b.log
	if log == nil {
		log = &glogadapter.Glog{}
	}

	h := &AnchorHash[K, R]{
		anchor:    anchor.New(capacity, 0),
		resources: hashmap.New[uint16, R](uint(capacity), bucketHash, bucketEqual),
		hasher:    hasher,
		log:       log,
		metrics:   newMetrics(b.registry),
	}

	for _, r := range b.resources {
		if err := h.AddResource(r); err != nil {
			// Unreachable: the length check above guarantees capacity.
			panic(fmt.Sprintf("anchorhash: %v", err))
		}
	}
	return h
}

// Collect is a shortcut for NewBuilder[K, R]().WithResources(resources...).Build(len(resources)),
// sized to fit the given resources exactly with no room to grow.
func Collect[K any, R comparable](resources []R) *AnchorHash[K, R] {
	return NewBuilder[K, R]().WithResources(resources...).Build(uint16(len(resources)))
}
