// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-daq/evsim/config"
	"github.com/go-daq/evsim/log"
	"github.com/smartystreets/goconvey/convey"
)

const scenarioYAML = `
sampler:
  seed: 42
  lvl: debug
dataset:
  name: crab
  frame: icrs
  lon: 83.63
  lat: 22.01
  nbin: 5
observation:
  obs_id: 23523
  start: [0, 500]
  stop: [300, 800]
  location:
    lon: -17.89
    lat: 28.76
    height: 2200
sources:
  - name: crab
    spatial:
      type: point
      frame: icrs
      lon: 83.63
      lat: 22.01
    spectral:
      type: ecpl
      amplitude: 3.8e-11
      index: 2.4
      reference: 1
      lambda: 0.07
    temporal:
      type: expdecay
      tau: 200
`

func TestLoader(t *testing.T) {
	convey.Convey("Given a scenario loader", t, func() {
		convey.Convey("When loading the defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then it should load the default scenario", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Dataset.Name, convey.ShouldEqual, "test")
				convey.So(cfg.Dataset.NBin, convey.ShouldEqual, 3)
				convey.So(cfg.Observation.ObsID, convey.ShouldEqual, int64(1001))
				convey.So(cfg.Observation.Stop, convey.ShouldResemble, []float64{1000})
				convey.So(cfg.Sources, convey.ShouldHaveLength, 1)
				convey.So(cfg.Sampler.TDelta, convey.ShouldEqual, 1.0)
				convey.So(cfg.Sampler.Level, convey.ShouldEqual, log.LvlInfo)
			})
		})

		convey.Convey("When loading a YAML scenario", func() {
			fname := filepath.Join(t.TempDir(), "scenario.yaml")
			err := os.WriteFile(fname, []byte(scenarioYAML), 0644)
			convey.So(err, convey.ShouldBeNil)

			cfg, err := config.Load(fname)

			convey.Convey("Then file values override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Sampler.Seed, convey.ShouldEqual, uint64(42))
				convey.So(cfg.Sampler.Level, convey.ShouldEqual, log.LvlDebug)
				convey.So(cfg.Dataset.Name, convey.ShouldEqual, "crab")
				convey.So(cfg.Dataset.NBin, convey.ShouldEqual, 5)
				convey.So(cfg.Dataset.BinSz, convey.ShouldEqual, 0.05)
				convey.So(cfg.Observation.Start, convey.ShouldResemble, []float64{0, 500})
				convey.So(cfg.Observation.Stop, convey.ShouldResemble, []float64{300, 800})
				convey.So(cfg.Observation.Location, convey.ShouldNotBeNil)
				convey.So(cfg.Observation.Location.Height, convey.ShouldEqual, 2200.0)
			})

			convey.Convey("Then the source list replaces the default one", func() {
				convey.So(cfg.Sources, convey.ShouldHaveLength, 1)
				src := cfg.Sources[0]
				convey.So(src.Name, convey.ShouldEqual, "crab")
				convey.So(src.Spatial.Type, convey.ShouldEqual, "point")
				convey.So(src.Spatial.Sigma, convey.ShouldEqual, 0.0)
				convey.So(src.Spectral.Lambda, convey.ShouldEqual, 0.07)
				convey.So(src.Temporal.Tau, convey.ShouldEqual, 200.0)
			})
		})

		convey.Convey("When environment variables are set", func() {
			t.Setenv("EVSIM_SAMPLER__SEED", "1234")
			t.Setenv("EVSIM_DATASET__NAME", "env-dataset")

			cfg, err := config.Load("")

			convey.Convey("Then they take precedence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Sampler.Seed, convey.ShouldEqual, uint64(1234))
				convey.So(cfg.Dataset.Name, convey.ShouldEqual, "env-dataset")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then an error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given the default scenario", t, func() {
		cfg := config.Default()
		convey.So(cfg.Validate(), convey.ShouldBeNil)

		convey.Convey("When the GTI lists differ in length", func() {
			cfg.Observation.Stop = append(cfg.Observation.Stop, 2000)
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When two sources share a name", func() {
			cfg.Sources = append(cfg.Sources, cfg.Sources[0])
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the pixel size is not positive", func() {
			cfg.Dataset.BinSz = 0
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
