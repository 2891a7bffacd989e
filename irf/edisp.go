// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package irf // import "github.com/go-daq/evsim/irf"

import (
	"sort"

	"github.com/go-daq/evsim/sampling"
	"golang.org/x/exp/rand"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussEDisp is an energy dispersion with a gaussian migration
// (E_reco / E_true) distribution of mean 1+Bias and width Sigma.
// Non-positive migrations are redrawn.
type GaussEDisp struct {
	Bias  float64
	Sigma float64
}

func (ed GaussEDisp) SampleEnergy(rnd *rand.Rand, energy, offset float64) float64 {
	if !(ed.Sigma > 0) {
		return energy * (1 + ed.Bias)
	}
	dist := distuv.Normal{Mu: 1 + ed.Bias, Sigma: ed.Sigma, Src: rnd}
	for {
		m := dist.Rand()
		if m > 0 {
			return energy * m
		}
	}
}

// MigraEDisp is a tabulated energy dispersion: Prob[i][j] is the
// probability for an event with a true energy in the i-th bin of
// ETrue to have a migration between Migra[j] and Migra[j+1].
type MigraEDisp struct {
	ETrue []float64 // true energy bin edges (TeV)
	Migra []float64 // migration bin edges
	Prob  [][]float64

	inv []*sampling.InverseCDF
}

// NewMigraEDisp creates a tabulated energy dispersion.
func NewMigraEDisp(etrue, migra []float64, prob [][]float64) (*MigraEDisp, error) {
	switch {
	case len(etrue) < 2:
		return nil, xerrors.Errorf("irf: edisp needs at least 2 true energy edges")
	case len(migra) < 2:
		return nil, xerrors.Errorf("irf: edisp needs at least 2 migration edges")
	case len(prob) != len(etrue)-1:
		return nil, xerrors.Errorf("irf: edisp has %d rows, want %d", len(prob), len(etrue)-1)
	case !sort.Float64sAreSorted(etrue) || !sort.Float64sAreSorted(migra):
		return nil, xerrors.Errorf("irf: edisp edges are not sorted")
	}
	ed := &MigraEDisp{
		ETrue: etrue,
		Migra: migra,
		Prob:  prob,
		inv:   make([]*sampling.InverseCDF, len(prob)),
	}
	for i, row := range prob {
		if len(row) != len(migra)-1 {
			return nil, xerrors.Errorf("irf: edisp row %d has %d bins, want %d", i, len(row), len(migra)-1)
		}
		inv, err := sampling.NewInverseCDF(row)
		if err != nil {
			// no migration information: the energy is left untouched.
			continue
		}
		ed.inv[i] = inv
	}
	return ed, nil
}

func (ed *MigraEDisp) SampleEnergy(rnd *rand.Rand, energy, offset float64) float64 {
	i := sort.SearchFloat64s(ed.ETrue, energy) - 1
	switch {
	case i < 0:
		i = 0
	case i >= len(ed.inv):
		i = len(ed.inv) - 1
	}
	inv := ed.inv[i]
	if inv == nil {
		return energy
	}
	j := inv.Sample(rnd)
	m0, m1 := ed.Migra[j], ed.Migra[j+1]
	return energy * (m0 + rnd.Float64()*(m1-m0))
}

var (
	_ EDisp = GaussEDisp{}
	_ EDisp = (*MigraEDisp)(nil)
)
