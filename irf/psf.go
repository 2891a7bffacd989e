// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package irf // import "github.com/go-daq/evsim/irf"

import (
	"math"
	"sort"

	"github.com/go-daq/evsim/sampling"
	"golang.org/x/exp/rand"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussPSF is a 2-dim gaussian point spread function whose width
// scales with energy and degrades with the field-of-view offset:
//
//	sigma(E, theta) = Sigma * (E/ERef)^-Index * (1 + Slope*theta)
type GaussPSF struct {
	Sigma float64 // width at the reference energy, on axis (deg)
	ERef  float64 // reference energy (TeV); zero means 1 TeV
	Index float64
	Slope float64 // relative degradation per degree of offset
}

// Width returns the gaussian width at the given energy and offset.
func (psf GaussPSF) Width(energy, offset float64) float64 {
	eref := psf.ERef
	if eref == 0 {
		eref = 1
	}
	return psf.Sigma * math.Pow(energy/eref, -psf.Index) * (1 + psf.Slope*offset)
}

// SampleOffset draws a radial offset from a Rayleigh distribution,
// i.e. a Weibull distribution with shape 2 and scale sigma*sqrt(2).
func (psf GaussPSF) SampleOffset(rnd *rand.Rand, energy, offset float64) float64 {
	sigma := psf.Width(energy, offset)
	if !(sigma > 0) {
		return 0
	}
	dist := distuv.Weibull{K: 2, Lambda: sigma * math.Sqrt2, Src: rnd}
	return dist.Rand()
}

// TablePSF is a tabulated, radially symmetric point spread function.
//
// PDF[i][j] is the surface probability density (sr^-1) at energy
// Energies[i] for radial offsets between Rad[j] and Rad[j+1].
// The nearest tabulated energy (in log) is used, offset dependence is
// neglected.
type TablePSF struct {
	Energies []float64
	Rad      []float64 // radial bin edges (deg)
	PDF      [][]float64

	inv []*sampling.InverseCDF
}

// NewTablePSF creates a tabulated PSF.
func NewTablePSF(energies, rad []float64, pdf [][]float64) (*TablePSF, error) {
	switch {
	case len(energies) == 0:
		return nil, xerrors.Errorf("irf: empty PSF energy table")
	case len(energies) != len(pdf):
		return nil, xerrors.Errorf("irf: PSF energy/pdf length mismatch (%d != %d)", len(energies), len(pdf))
	case len(rad) < 2:
		return nil, xerrors.Errorf("irf: PSF needs at least 2 radial edges")
	case !sort.Float64sAreSorted(energies):
		return nil, xerrors.Errorf("irf: PSF energies are not sorted")
	}

	psf := &TablePSF{
		Energies: energies,
		Rad:      rad,
		PDF:      pdf,
		inv:      make([]*sampling.InverseCDF, len(energies)),
	}
	for i, row := range pdf {
		if len(row) != len(rad)-1 {
			return nil, xerrors.Errorf("irf: PSF row %d has %d bins, want %d", i, len(row), len(rad)-1)
		}
		// probability per ring: pdf * 2pi * r * dr
		w := make([]float64, len(row))
		for j, v := range row {
			r0 := rad[j] * math.Pi / 180
			r1 := rad[j+1] * math.Pi / 180
			w[j] = v * math.Pi * (r1*r1 - r0*r0)
		}
		inv, err := sampling.NewInverseCDF(w)
		if err != nil {
			return nil, xerrors.Errorf("irf: invalid PSF row %d: %w", i, err)
		}
		psf.inv[i] = inv
	}
	return psf, nil
}

func (psf *TablePSF) nearest(energy float64) int {
	return nearestLog(psf.Energies, energy)
}

// SampleOffset draws a ring from the tabulated probabilities, then a
// radius within the ring uniformly in surface.
func (psf *TablePSF) SampleOffset(rnd *rand.Rand, energy, offset float64) float64 {
	i := psf.nearest(energy)
	j := psf.inv[i].Sample(rnd)
	r0, r1 := psf.Rad[j], psf.Rad[j+1]
	u := rnd.Float64()
	return math.Sqrt(r0*r0 + u*(r1*r1-r0*r0))
}

func nearestLog(xs []float64, v float64) int {
	i := sort.SearchFloat64s(xs, v)
	switch {
	case i == 0:
		return 0
	case i >= len(xs):
		return len(xs) - 1
	}
	lv := math.Log(v)
	if math.Abs(math.Log(xs[i-1])-lv) <= math.Abs(math.Log(xs[i])-lv) {
		return i - 1
	}
	return i
}

var (
	_ PSF = GaussPSF{}
	_ PSF = (*TablePSF)(nil)
)
