// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package anchorhash

import "github.com/prometheus/client_golang/prometheus"

// metrics is nil-safe: every method is a no-op on a nil *metrics, which is
// what a binding built without Builder.WithMetrics gets, keeping the hot
// lookup path allocation-free.
type metrics struct {
	lookupsOriginal   prometheus.Counter
	lookupsRemapped   prometheus.Counter
	resourcesAdded    prometheus.Counter
	resourcesRemoved  prometheus.Counter
	capacityExhausted prometheus.Counter
	resources         prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		lookupsOriginal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "anchorhash_lookups_total",
			Help:        "Total number of GetResource calls, by whether the lookup had to walk a successor chain.",
			ConstLabels: prometheus.Labels{"remapped": "false"},
		}),
		lookupsRemapped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "anchorhash_lookups_total",
			Help:        "Total number of GetResource calls, by whether the lookup had to walk a successor chain.",
			ConstLabels: prometheus.Labels{"remapped": "true"},
		}),
		resourcesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anchorhash_resources_added_total",
			Help: "Total number of successful AddResource calls.",
		}),
		resourcesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anchorhash_resources_removed_total",
			Help: "Total number of successful RemoveResource calls.",
		}),
		capacityExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anchorhash_capacity_exhausted_total",
			Help: "Total number of AddResource calls that failed with ErrCapacityLimitReached.",
		}),
		resources: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "anchorhash_resources",
			Help: "Current number of resources bound in the binding.",
		}),
	}
	reg.MustRegister(
		m.lookupsOriginal,
		m.lookupsRemapped,
		m.resourcesAdded,
		m.resourcesRemoved,
		m.capacityExhausted,
		m.resources,
	)
	return m
}

func (m *metrics) recordLookup(remapped bool) {
	if m == nil {
		return
	}
	if remapped {
		m.lookupsRemapped.Inc()
	} else {
		m.lookupsOriginal.Inc()
	}
}

func (m *metrics) recordAdd() {
	if m == nil {
		return
	}
	m.resourcesAdded.Inc()
}

func (m *metrics) recordRemove() {
	if m == nil {
		return
	}
	m.resourcesRemoved.Inc()
}

func (m *metrics) recordCapacityExhausted() {
	if m == nil {
		return
	}
	m.capacityExhausted.Inc()
}

func (m *metrics) setResources(n int) {
	if m == nil {
		return
	}
	m.resources.Set(float64(n))
}
