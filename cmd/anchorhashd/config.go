// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// config is the representation of anchorhashd's YAML config file: the
// binding's capacity and its initial backend resource set.
type config struct {
	Capacity  uint16   `yaml:"capacity"`
	Resources []string `yaml:"resources"`
}

func parseConfig(b []byte) (*config, error) {
	cfg := &config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}
	if len(cfg.Resources) > int(cfg.Capacity) {
		return nil, fmt.Errorf("%d initial resources exceed configured capacity %d",
			len(cfg.Resources), cfg.Capacity)
	}
	return cfg, nil
}
