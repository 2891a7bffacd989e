// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flags provides an easy creation of standard evsim flag parameters
// for simulation commands.
package flags // import "github.com/go-daq/evsim/flags"

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-daq/evsim/config"
	"github.com/go-daq/evsim/log"
)

// Cmd holds the standard flags of evsim commands.
type Cmd struct {
	Scenario string // path to the YAML scenario file
	Level    string // msgstream level
	Seed     int64  // seed override; negative keeps the scenario seed
	TDelta   float64
}

// Register registers the standard flags on fs.
func (cmd *Cmd) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.Scenario, "cfg", "", "path to a YAML scenario file")
	fs.StringVar(&cmd.Level, "lvl", "", "msgstream level (dbg, info, warn, err)")
	fs.Int64Var(&cmd.Seed, "seed", -1, "seed of the random number generator")
	fs.Float64Var(&cmd.TDelta, "tdelta", 0, "time step (s) of time-resolved predictions")
}

// Apply loads the scenario and applies the flag overrides.
func (cmd Cmd) Apply(args []string) (config.Scenario, error) {
	cfg, err := config.Load(cmd.Scenario)
	if err != nil {
		return cfg, err
	}
	if cmd.Level != "" {
		lvl, err := log.ParseLevel(cmd.Level)
		if err != nil {
			return cfg, err
		}
		cfg.Sampler.Level = lvl
	}
	if cmd.Seed >= 0 {
		cfg.Sampler.Seed = uint64(cmd.Seed)
	}
	if cmd.TDelta > 0 {
		cfg.Sampler.TDelta = cmd.TDelta
	}
	cfg.Sampler.Args = args
	return cfg, nil
}

// New parses the command line and returns the scenario it describes.
func New() config.Scenario {
	var cmd Cmd
	cmd.Register(flag.CommandLine)
	flag.Parse()

	cfg, err := cmd.Apply(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not configure scenario: %+v\n", err)
		flag.Usage()
		os.Exit(1)
	}
	return cfg
}
