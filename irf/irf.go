// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package irf provides the instrument response functions used to turn
// true event quantities into reconstructed ones.
//
// Energies are in TeV, angles in degrees.
package irf // import "github.com/go-daq/evsim/irf"

import (
	"golang.org/x/exp/rand"
)

// PSF is a point spread function.
type PSF interface {
	// SampleOffset draws the angular distance between the true and the
	// reconstructed direction of an event, for the given true energy and
	// field-of-view offset.
	SampleOffset(rnd *rand.Rand, energy, offset float64) float64
}

// EDisp is an energy dispersion.
type EDisp interface {
	// SampleEnergy draws a reconstructed energy for the given true energy
	// and field-of-view offset.
	SampleEnergy(rnd *rand.Rand, energy, offset float64) float64
}
