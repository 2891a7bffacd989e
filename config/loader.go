// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config // import "github.com/go-daq/evsim/config"

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/xerrors"
)

// EnvPrefix is the prefix of environment variables overriding a scenario.
// Nested keys are separated by a double underscore, e.g.
// EVSIM_SAMPLER__SEED=42 sets sampler.seed.
const EnvPrefix = "EVSIM_"

// Load builds a Scenario by layering, from low to high precedence:
//  1. defaults (Default())
//  2. the YAML file at path, if path is not empty
//  3. environment variables prefixed with EnvPrefix
func Load(path string) (Scenario, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil {
			return cfg, xerrors.Errorf("config: could not load %q: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return cfg, xerrors.Errorf("config: could not load environment: %w", err)
	}

	// lists replace the defaults instead of being merged element-wise.
	if k.Exists("sources") {
		cfg.Sources = nil
	}
	if k.Exists("observation.start") {
		cfg.Observation.Start = nil
	}
	if k.Exists("observation.stop") {
		cfg.Observation.Stop = nil
	}

	err = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"})
	if err != nil {
		return cfg, xerrors.Errorf("config: could not decode scenario: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the scenario is usable.
func (cfg Scenario) Validate() error {
	switch {
	case cfg.Dataset.Name == "":
		return xerrors.Errorf("config: dataset name must not be empty")
	case cfg.Dataset.BinSz <= 0:
		return xerrors.Errorf("config: invalid pixel size %v", cfg.Dataset.BinSz)
	case cfg.Dataset.NBin < 1:
		return xerrors.Errorf("config: invalid number of energy bins %d", cfg.Dataset.NBin)
	case len(cfg.Observation.Start) != len(cfg.Observation.Stop):
		return xerrors.Errorf(
			"config: good time intervals length mismatch (%d != %d)",
			len(cfg.Observation.Start), len(cfg.Observation.Stop),
		)
	case cfg.Sampler.TDelta < 0:
		return xerrors.Errorf("config: invalid time step %v", cfg.Sampler.TDelta)
	case cfg.Batch.NObs < 0 || cfg.Batch.Workers < 0:
		return xerrors.Errorf("config: invalid batch (nobs=%d, workers=%d)", cfg.Batch.NObs, cfg.Batch.Workers)
	}
	names := make(map[string]struct{}, len(cfg.Sources))
	for i, src := range cfg.Sources {
		if src.Name == "" {
			return xerrors.Errorf("config: source #%d has no name", i)
		}
		if _, dup := names[src.Name]; dup {
			return xerrors.Errorf("config: duplicate source %q", src.Name)
		}
		names[src.Name] = struct{}{}
	}
	return nil
}
