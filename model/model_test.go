// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model // import "github.com/go-daq/evsim/model"

import (
	"math"
	"testing"

	"github.com/go-daq/evsim/geom"
	"github.com/go-daq/evsim/obs"
	"github.com/go-daq/evsim/sky"
	"golang.org/x/exp/rand"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func TestSpatialNormalisation(t *testing.T) {
	g, err := geom.NewGeom(sky.Coord{Lon: 0, Lat: 0}, sky.Galactic, 0.02, 4, nil)
	if err != nil {
		t.Fatalf("could not create geom: %+v", err)
	}

	for _, tt := range []struct {
		name string
		m    Spatial
	}{
		{"gauss", GaussianSpatial{Lon: 0, Lat: 0, Sigma: 0.2, Frame: sky.Galactic}},
		{"disk", DiskSpatial{Lon: 0.3, Lat: -0.2, Radius: 0.5, Frame: sky.Galactic}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var sum float64
			for iy := 0; iy < g.NY; iy++ {
				omega := g.SolidAngle(iy)
				for ix := 0; ix < g.NX; ix++ {
					c := sky.Transform(g.PixToCoord(float64(ix), float64(iy)), g.Sys, sky.ICRS)
					sum += tt.m.Evaluate(c) * omega
				}
			}
			if !floats.EqualWithinAbs(sum, 1, 0.01) {
				t.Fatalf("invalid spatial normalisation: %v", sum)
			}
		})
	}

	pt := PointSpatial{Lon: 0, Lat: 0, Frame: sky.Galactic}
	pos := pt.Position()
	if !floats.EqualWithinAbs(pos.Lon, 266.404988, 1e-5) || !floats.EqualWithinAbs(pos.Lat, -28.936178, 1e-5) {
		t.Fatalf("invalid point position: %v", pos)
	}
	var sp Spatial = pt
	if _, ok := sp.(PointLike); !ok {
		t.Fatalf("point source should be point-like")
	}
	sp = GaussianSpatial{Sigma: 0.1}
	if _, ok := sp.(PointLike); ok {
		t.Fatalf("gaussian source should not be point-like")
	}
}

func TestSpectral(t *testing.T) {
	pl := PowerLaw{Amplitude: 1e-11, Index: 2}
	if got, want := pl.Integral(1, 10), 1e-11*(1-0.1); !floats.EqualWithinRel(got, want, 1e-12) {
		t.Fatalf("invalid power-law integral: got=%v, want=%v", got, want)
	}
	pl1 := PowerLaw{Amplitude: 2, Index: 1, Reference: 1}
	if got, want := pl1.Integral(1, math.E), 2.0; !floats.EqualWithinRel(got, want, 1e-12) {
		t.Fatalf("invalid index-1 integral: got=%v, want=%v", got, want)
	}

	cst := ConstantSpectral{Const: 3}
	if got, want := cst.Integral(1, 10), 27.0; got != want {
		t.Fatalf("invalid constant integral: got=%v, want=%v", got, want)
	}

	ecpl := ExpCutoffPowerLaw{Amplitude: 1e-11, Index: 2}
	if got, want := ecpl.Integral(1, 10), pl.Integral(1, 10); !floats.EqualWithinRel(got, want, 1e-9) {
		t.Fatalf("cutoff-less integral should match the power law: got=%v, want=%v", got, want)
	}
	ecpl.Lambda = 0.5
	if got, want := ecpl.Integral(1, 10), pl.Integral(1, 10); !(got < want) {
		t.Fatalf("cutoff should reduce the flux: got=%v, pl=%v", got, want)
	}
}

func TestTemporal(t *testing.T) {
	exp := ExpDecay{T0: 0, Tau: 200}
	if got, want := exp.AverageNorm(0, 200), 1-math.Exp(-1); !floats.EqualWithinRel(got, want, 1e-12) {
		t.Fatalf("invalid exp-decay average: got=%v, want=%v", got, want)
	}
	if got := exp.AverageNorm(-100, -50); got != 0 {
		t.Fatalf("invalid pre-T0 average: %v", got)
	}

	lc, err := NewLightCurve([]float64{0, 10, 20}, []float64{0, 1, 1})
	if err != nil {
		t.Fatalf("could not create light curve: %+v", err)
	}
	for _, tt := range []struct {
		t0, t1, want float64
	}{
		{0, 10, 0.5},
		{10, 20, 1},
		{5, 15, 0.875},
		{20, 30, 0},
		{-10, 0, 0},
	} {
		if got := lc.AverageNorm(tt.t0, tt.t1); !floats.EqualWithinAbs(got, tt.want, 1e-12) {
			t.Fatalf("average(%v, %v): got=%v, want=%v", tt.t0, tt.t1, got, tt.want)
		}
	}
	if got := lc.Norm(25); got != 0 {
		t.Fatalf("norm outside of the table should be zero: %v", got)
	}

	elc, err := NewEnergyLightCurve(
		[]float64{1, 10, 100},
		[]float64{0, 10, 20},
		[][]float64{{1, 3}, {2, 0}},
	)
	if err != nil {
		t.Fatalf("could not create energy light curve: %+v", err)
	}
	if got, want := elc.AverageNormEnergy(5, 15, 2), 2.0; got != want {
		t.Fatalf("invalid energy average: got=%v, want=%v", got, want)
	}
	if got, want := elc.AverageNormEnergy(5, 15, 20), 1.0; got != want {
		t.Fatalf("invalid energy average: got=%v, want=%v", got, want)
	}
	if got := elc.AverageNormEnergy(5, 15, 200); got != 0 {
		t.Fatalf("invalid out-of-range energy average: %v", got)
	}
	if got, want := elc.Norm(12), 1.5; got != want {
		t.Fatalf("invalid energy-averaged norm: got=%v, want=%v", got, want)
	}
}

type halfOn struct{}

func (halfOn) Norm(t float64) float64 {
	if t < 500 {
		return 1
	}
	return 0
}

func TestMeanNorm(t *testing.T) {
	gti, err := obs.NewGTI(obs.Epoch{MJDI: 51544}, []float64{0}, []float64{1000})
	if err != nil {
		t.Fatalf("could not create GTI: %+v", err)
	}

	for _, tt := range []struct {
		name string
		m    Temporal
		want float64
	}{
		{"nil", nil, 1},
		{"constant", ConstantTemporal{Value: 2.5}, 2.5},
		{"decay", ExpDecay{T0: 0, Tau: 200}, 200 * (1 - math.Exp(-5)) / 1000},
		{"late-decay", ExpDecay{T0: 5000, Tau: 100}, 0},
		{"step", halfOn{}, 0.5},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MeanNorm(tt.m, gti, 10)
			if err != nil {
				t.Fatalf("could not compute mean norm: %+v", err)
			}
			if !floats.EqualWithinAbsOrRel(got, tt.want, 1e-12, 1e-9) {
				t.Fatalf("invalid mean norm: got=%v, want=%v", got, tt.want)
			}
		})
	}

	_, err = MeanNorm(ConstantTemporal{}, &obs.GTI{}, 10)
	if !xerrors.Is(err, obs.ErrEmptyGTI) {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestSampleTimes(t *testing.T) {
	gti, err := obs.NewGTI(obs.Epoch{MJDI: 51544}, []float64{0, 500}, []float64{300, 700})
	if err != nil {
		t.Fatalf("could not create GTI: %+v", err)
	}
	rnd := rand.New(rand.NewSource(0))

	inside := func(v float64) bool {
		return (v >= 0 && v < 300) || (v >= 500 && v < 700)
	}

	for _, tt := range []struct {
		name string
		m    Temporal
	}{
		{"nil", nil},
		{"constant", ConstantTemporal{Value: 2}},
		{"decay", ExpDecay{T0: 0, Tau: 100}},
		{"lightcurve", &LightCurve{Times: []float64{0, 700}, Norms: []float64{1, 0}}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			times, err := SampleTimes(rnd, tt.m, 5000, gti, 1)
			if err != nil {
				t.Fatalf("could not sample times: %+v", err)
			}
			if len(times) != 5000 {
				t.Fatalf("invalid number of times: %d", len(times))
			}
			for _, v := range times {
				if !inside(v) {
					t.Fatalf("time %v outside of the good time intervals", v)
				}
			}
		})
	}

	// exponential decay: the mean time within the first interval is tau-like.
	times, err := SampleTimes(rnd, ExpDecay{T0: 0, Tau: 20}, 20000, gti, 0.5)
	if err != nil {
		t.Fatalf("could not sample times: %+v", err)
	}
	if got := stat.Mean(times, nil); math.Abs(got-20) > 1 {
		t.Fatalf("invalid mean decay time: %v", got)
	}

	_, err = SampleTimes(rnd, ExpDecay{T0: 1000, Tau: 20}, 10, gti, 1)
	if err == nil {
		t.Fatalf("expected an error for a light curve without flux in the GTIs")
	}

	_, err = SampleTimes(rnd, nil, 10, &obs.GTI{}, 1)
	if !xerrors.Is(err, obs.ErrEmptyGTI) {
		t.Fatalf("invalid error: %+v", err)
	}
}
