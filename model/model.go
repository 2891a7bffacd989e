// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model describes the sky and background models from which
// events are simulated.
//
// Sub-models are described by small capability interfaces: consumers
// type-assert the capabilities they need instead of switching on
// concrete types.
package model // import "github.com/go-daq/evsim/model"

import (
	"math"

	"github.com/go-daq/evsim/sky"
	"golang.org/x/exp/rand"
)

// Spatial is the capability set of spatial models.
type Spatial interface {
	// Position returns the ICRS reference position of the model.
	Position() sky.Coord
	// Evaluate returns the surface brightness (sr^-1) at the ICRS position c.
	// The integral over the sphere is 1.
	Evaluate(c sky.Coord) float64
}

// PointLike is implemented by spatial models which concentrate all of
// their flux at their position.
type PointLike interface {
	Spatial
	PointLike() bool
}

// Spectral is the capability set of spectral models.
type Spectral interface {
	// Evaluate returns the differential flux (cm^-2 s^-1 TeV^-1) at energy e (TeV).
	Evaluate(e float64) float64
	// Integral returns the integrated flux (cm^-2 s^-1) between emin and emax.
	Integral(emin, emax float64) float64
}

// Temporal is the capability set of temporal models.
// Times are expressed in seconds since the reference epoch of the
// good time intervals.
type Temporal interface {
	// Norm returns the flux normalisation at time t.
	Norm(t float64) float64
}

// Averager is implemented by temporal models able to compute their mean
// normalisation over a time interval.
type Averager interface {
	Temporal
	AverageNorm(t0, t1 float64) float64
}

// EnergyAverager is implemented by temporal models whose light curve
// depends on energy.
type EnergyAverager interface {
	Temporal
	AverageNormEnergy(t0, t1, energy float64) float64
}

// TimeSampler is implemented by temporal models able to draw event
// times directly.
type TimeSampler interface {
	// SampleTime draws n event times, in seconds since the reference
	// epoch, given the total live time and a function mapping live times
	// to times since the reference epoch.
	SampleTime(rnd *rand.Rand, n int, ontime float64, toTime func(float64) float64) []float64
}

// Component is a named model component.
type Component interface {
	Name() string
}

// SkyModel is a source described by optional spatial, spectral and
// temporal sub-models.
type SkyModel struct {
	Label    string
	Spatial  Spatial
	Spectral Spectral
	Temporal Temporal

	// Datasets restricts the model to the named datasets.
	// An empty list applies the model to all datasets.
	Datasets []string
}

func (m *SkyModel) Name() string { return m.Label }

// AppliesTo returns whether the model contributes to the named dataset.
func (m *SkyModel) AppliesTo(dataset string) bool {
	if len(m.Datasets) == 0 {
		return true
	}
	for _, name := range m.Datasets {
		if name == dataset {
			return true
		}
	}
	return false
}

// Background scales the background cube of a dataset.
type Background struct {
	Label   string
	Dataset string  // name of the dataset this background applies to
	Norm    float64 // zero means 1
	Tilt    float64 // spectral tilt
	ERef    float64 // reference energy of the tilt (TeV); zero means 1 TeV
}

// NewBackground creates the default background model of a dataset.
func NewBackground(dataset string) *Background {
	return &Background{Label: dataset + "-bkg", Dataset: dataset, Norm: 1}
}

func (m *Background) Name() string { return m.Label }

// Factor returns the scaling applied to the background at energy e.
func (m *Background) Factor(e float64) float64 {
	norm := m.Norm
	if norm == 0 {
		norm = 1
	}
	if m.Tilt == 0 {
		return norm
	}
	eref := m.ERef
	if eref == 0 {
		eref = 1
	}
	return norm * math.Pow(e/eref, -m.Tilt)
}

// Models is an ordered list of model components.
type Models []Component

// Sky returns the sky models in list order.
func (ms Models) Sky() []*SkyModel {
	var out []*SkyModel
	for _, m := range ms {
		if sm, ok := m.(*SkyModel); ok {
			out = append(out, sm)
		}
	}
	return out
}

// Background returns the background model of the named dataset, if any.
func (ms Models) Background(dataset string) *Background {
	for _, m := range ms {
		bkg, ok := m.(*Background)
		if !ok {
			continue
		}
		if bkg.Dataset == "" || bkg.Dataset == dataset {
			return bkg
		}
	}
	return nil
}

var (
	_ Component = (*SkyModel)(nil)
	_ Component = (*Background)(nil)
)
