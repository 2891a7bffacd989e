// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model // import "github.com/go-daq/evsim/model"

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// PowerLaw is a power-law spectrum:
//
//	dN/dE = Amplitude * (E/Reference)^-Index
type PowerLaw struct {
	Amplitude float64 // cm^-2 s^-1 TeV^-1
	Index     float64
	Reference float64 // TeV; zero means 1 TeV
}

func (m PowerLaw) ref() float64 {
	if m.Reference == 0 {
		return 1
	}
	return m.Reference
}

func (m PowerLaw) Evaluate(e float64) float64 {
	return m.Amplitude * math.Pow(e/m.ref(), -m.Index)
}

func (m PowerLaw) Integral(emin, emax float64) float64 {
	ref := m.ref()
	if math.Abs(m.Index-1) < 1e-12 {
		return m.Amplitude * ref * math.Log(emax/emin)
	}
	g := 1 - m.Index
	return m.Amplitude * ref / g * (math.Pow(emax/ref, g) - math.Pow(emin/ref, g))
}

// ConstantSpectral is a flat spectrum.
type ConstantSpectral struct {
	Const float64 // cm^-2 s^-1 TeV^-1
}

func (m ConstantSpectral) Evaluate(e float64) float64 { return m.Const }

func (m ConstantSpectral) Integral(emin, emax float64) float64 {
	return m.Const * (emax - emin)
}

// ExpCutoffPowerLaw is a power law with an exponential cutoff:
//
//	dN/dE = Amplitude * (E/Reference)^-Index * exp(-Lambda*E)
type ExpCutoffPowerLaw struct {
	Amplitude float64
	Index     float64
	Reference float64
	Lambda    float64 // TeV^-1
}

func (m ExpCutoffPowerLaw) Evaluate(e float64) float64 {
	pl := PowerLaw{Amplitude: m.Amplitude, Index: m.Index, Reference: m.Reference}
	return pl.Evaluate(e) * math.Exp(-m.Lambda*e)
}

// Integral integrates the spectrum with a fixed-order Gauss-Legendre rule
// in log-energy.
func (m ExpCutoffPowerLaw) Integral(emin, emax float64) float64 {
	f := func(x float64) float64 {
		e := math.Exp(x)
		return m.Evaluate(e) * e
	}
	return quad.Fixed(f, math.Log(emin), math.Log(emax), 64, nil, 0)
}

var (
	_ Spectral = PowerLaw{}
	_ Spectral = ConstantSpectral{}
	_ Spectral = ExpCutoffPowerLaw{}
)
