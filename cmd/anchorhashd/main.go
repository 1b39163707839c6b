// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Command anchorhashd is a small HTTP demonstration service around package
// anchorhash: it exposes a string-keyed, string-resource binding backed by
// a YAML-configured initial resource set, for exercising and observing
// consistent hashing behavior over the wire.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/aristanetworks/anchorhash"
	"github.com/aristanetworks/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	listenAddr := flag.String("listenaddr", ":8080", "Address on which to serve /resource")
	metricsURL := flag.String("metricsurl", "/metrics", "URL where to expose Prometheus metrics")
	configFlag := flag.String("config", "", "Path to a YAML config file listing capacity and initial resources")
	flag.Parse()

	if *configFlag == "" {
		glog.Fatal("you need to specify a config file using -config")
	}
	raw, err := os.ReadFile(*configFlag)
	if err != nil {
		glog.Fatalf("can't read config file %q: %v", *configFlag, err)
	}
	cfg, err := parseConfig(raw)
	if err != nil {
		glog.Fatalf("invalid config %q: %v", *configFlag, err)
	}

	registry := prometheus.NewRegistry()
	binding := anchorhash.NewBuilder[string, string]().
		WithHasher(anchorhash.NewStringHasher()).
		WithResources(cfg.Resources...).
		WithMetrics(registry).
		Build(cfg.Capacity)

	s := &server{binding: binding}
	http.HandleFunc("/resource", s.handleResource)
	http.Handle(*metricsURL, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	glog.Infof("anchorhashd listening on %s (capacity %d, %d initial resources)",
		*listenAddr, cfg.Capacity, len(cfg.Resources))
	glog.Fatal(http.ListenAndServe(*listenAddr, nil))
}

// server guards the binding with a single-writer/multi-reader lock, the
// mutual exclusion package anchorhash itself deliberately omits.
type server struct {
	mu      sync.RWMutex
	binding *anchorhash.AnchorHash[string, string]
}

func (s *server) handleResource(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getResource(w, r)
	case http.MethodPost:
		s.addResource(w, r)
	case http.MethodDelete:
		s.removeResource(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) getResource(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "missing key query parameter", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	resource, ok := s.binding.GetResource(key)
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "no resources bound", http.StatusServiceUnavailable)
		return
	}
	fmt.Fprintln(w, resource)
}

func (s *server) addResource(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	value := string(body)
	if value == "" {
		http.Error(w, "empty resource value", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err = s.binding.AddResource(value)
	s.mu.Unlock()
	if err != nil {
		glog.Errorf("addResource(%q): %v", value, err)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *server) removeResource(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if value == "" {
		http.Error(w, "missing value query parameter", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.binding.RemoveResource(value)
	s.mu.Unlock()
	if err != nil {
		glog.Errorf("removeResource(%q): %v", value, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
