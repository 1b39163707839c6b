// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package anchorhash

import "errors"

// ErrCapacityLimitReached is returned by AddResource when the binding has
// no removed buckets left to reclaim (its anchor is at capacity). Callers
// may retry after removing a resource.
var ErrCapacityLimitReached = errors.New("anchorhash: capacity limit reached")

// ErrResourceNotFound is returned by RemoveResource when no stored
// resource compares equal to the argument. The binding is left unchanged.
var ErrResourceNotFound = errors.New("anchorhash: resource not found")
