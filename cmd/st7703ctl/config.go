// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config selects the panel and its wiring.
type config struct {
	// Compatible is the devicetree compatible string of the panel.
	Compatible string `yaml:"compatible"`
	// ResetPin is the GPIO name of the panel reset line (RESX).
	ResetPin string `yaml:"reset_pin"`
	// VCCPin and IOVCCPin optionally name GPIOs gating the supply rails.
	// An empty name means the rail is hardwired.
	VCCPin   string `yaml:"vcc_pin"`
	IOVCCPin string `yaml:"iovcc_pin"`
	// HoldSeconds is how long the all-pixels-on pattern is held.
	HoldSeconds int `yaml:"hold_seconds"`
}

func defaultConfig() *config {
	return &config{
		Compatible:  "rocktech,jh057n00900",
		ResetPin:    "GPIO20",
		HoldSeconds: 2,
	}
}

func loadConfig(path string) (*config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if conf.HoldSeconds <= 0 {
		conf.HoldSeconds = 2
	}
	return conf, nil
}
