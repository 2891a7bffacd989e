// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config describes how event samplers and simulation scenarios
// should be configured.
package config // import "github.com/go-daq/evsim/config"

import (
	"github.com/go-daq/evsim/log"
)

// Sampler describes how an event sampler should be configured.
type Sampler struct {
	Name   string    `koanf:"name"`   // name of the sampler
	Level  log.Level `koanf:"lvl"`    // verbosity level of the sampler
	Seed   uint64    `koanf:"seed"`   // seed of the random number generator
	TDelta float64   `koanf:"tdelta"` // time step (s) of time-resolved predictions

	Creator  string `koanf:"creator"`  // CREATOR keyword of event lists
	Observer string `koanf:"observer"` // OBSERVER keyword of event lists
	Origin   string `koanf:"origin"`   // ORIGIN keyword of event lists

	Args []string `koanf:"-"` // additional flag arguments
}

// Scenario describes a complete simulation: one dataset, the sources in
// it and the observation of it.
type Scenario struct {
	Sampler     Sampler     `koanf:"sampler"`
	Dataset     Dataset     `koanf:"dataset"`
	Observation Observation `koanf:"observation"`
	Sources     []Source    `koanf:"sources"`
	Background  Background  `koanf:"background"`
	Output      Output      `koanf:"output"`
	Batch       Batch       `koanf:"batch"`
}

// Dataset describes the binning and the instrument response of a dataset.
type Dataset struct {
	Name  string  `koanf:"name"`
	Frame string  `koanf:"frame"` // "icrs" or "galactic"
	Lon   float64 `koanf:"lon"`   // center of the geometry (deg)
	Lat   float64 `koanf:"lat"`   // center of the geometry (deg)
	BinSz float64 `koanf:"binsz"` // pixel size (deg)
	Width float64 `koanf:"width"` // width of the geometry (deg)

	EMin float64 `koanf:"emin"` // reconstructed energy range (TeV)
	EMax float64 `koanf:"emax"`
	NBin int     `koanf:"nbin"`

	ETrueMin  float64 `koanf:"etrue_min"` // true energy range (TeV); zero means reconstructed range
	ETrueMax  float64 `koanf:"etrue_max"`
	ETrueNBin int     `koanf:"etrue_nbin"`

	AEff       float64 `koanf:"aeff"`        // effective area (cm^2)
	PSFSigma   float64 `koanf:"psf_sigma"`   // Gaussian PSF width (deg); zero disables the PSF
	EDispSigma float64 `koanf:"edisp_sigma"` // relative energy resolution; zero disables the dispersion
	EDispBias  float64 `koanf:"edisp_bias"`
}

// Observation describes the pointing, timing and location of an observation.
type Observation struct {
	ObsID    int64   `koanf:"obs_id"`
	Frame    string  `koanf:"frame"` // frame of the pointing position
	Lon      float64 `koanf:"lon"`   // pointing position (deg)
	Lat      float64 `koanf:"lat"`
	PosAngle float64 `koanf:"pos_angle"` // camera rotation (deg)

	Epoch string    `koanf:"epoch"` // reference time (RFC3339)
	Start []float64 `koanf:"start"` // good time intervals (s since epoch)
	Stop  []float64 `koanf:"stop"`
	DeadC float64   `koanf:"deadc"`

	Location *Location `koanf:"location"`

	Telescope  string `koanf:"telescope"`
	Instrument string `koanf:"instrument"`
}

// Location is the geodetic position of an observatory.
type Location struct {
	Lon    float64 `koanf:"lon"`    // deg, east positive
	Lat    float64 `koanf:"lat"`    // deg
	Height float64 `koanf:"height"` // m
}

// Source describes a sky model.
type Source struct {
	Name     string   `koanf:"name"`
	Spatial  Spatial  `koanf:"spatial"`
	Spectral Spectral `koanf:"spectral"`
	Temporal Temporal `koanf:"temporal"`
}

// Spatial describes a spatial model: "point", "gauss" or "disk".
type Spatial struct {
	Type   string  `koanf:"type"`
	Frame  string  `koanf:"frame"`
	Lon    float64 `koanf:"lon"`
	Lat    float64 `koanf:"lat"`
	Sigma  float64 `koanf:"sigma"`
	Radius float64 `koanf:"radius"`
}

// Spectral describes a spectral model: "pl", "ecpl" or "const".
type Spectral struct {
	Type      string  `koanf:"type"`
	Amplitude float64 `koanf:"amplitude"` // cm^-2 s^-1 TeV^-1
	Index     float64 `koanf:"index"`
	Reference float64 `koanf:"reference"` // TeV
	Lambda    float64 `koanf:"lambda"`    // TeV^-1
}

// Temporal describes a temporal model: "" (none), "const", "expdecay"
// or "lightcurve".
type Temporal struct {
	Type  string    `koanf:"type"`
	T0    float64   `koanf:"t0"`
	Tau   float64   `koanf:"tau"`
	Times []float64 `koanf:"times"`
	Norms []float64 `koanf:"norms"`
}

// Background describes the background of a dataset.
type Background struct {
	Rate float64 `koanf:"rate"` // s^-1 sr^-1 TeV^-1; zero disables the background
	Norm float64 `koanf:"norm"`
	Tilt float64 `koanf:"tilt"`
}

// Output describes where simulated event lists are sent.
type Output struct {
	FITS   string `koanf:"fits"`   // path of the FITS file; a "%d" verb is replaced by the observation id
	Stream string `koanf:"stream"` // address of an event-list stream listener
}

// Batch describes a batch of observations of the same scenario.
type Batch struct {
	NObs    int `koanf:"nobs"`    // number of observations
	Workers int `koanf:"workers"` // number of concurrent samplers; zero means one per CPU
}

// Default returns the default scenario: a Gaussian source with a
// power-law spectrum on top of a flat background, observed for 1000 s.
func Default() Scenario {
	return Scenario{
		Sampler: Sampler{
			Name:    "evsim",
			Level:   log.LvlInfo,
			TDelta:  1,
			Creator: "evsim",
			Origin:  "go-daq",
		},
		Dataset: Dataset{
			Name:  "test",
			Frame: "galactic",
			BinSz: 0.05,
			Width: 5,
			EMin:  1,
			EMax:  10,
			NBin:  3,
			AEff:  1e9,
		},
		Observation: Observation{
			ObsID:      1001,
			Frame:      "galactic",
			Epoch:      "2000-01-01T00:00:00Z",
			Start:      []float64{0},
			Stop:       []float64{1000},
			DeadC:      1,
			Telescope:  "CTA",
			Instrument: "evsim",
		},
		Sources: []Source{{
			Name: "test-source",
			Spatial: Spatial{
				Type:  "gauss",
				Frame: "galactic",
				Sigma: 0.2,
			},
			Spectral: Spectral{
				Type:      "pl",
				Amplitude: 1e-11,
				Index:     2,
				Reference: 1,
			},
		}},
		Background: Background{Rate: 1e-2, Norm: 1},
		Batch:      Batch{NObs: 1},
	}
}
