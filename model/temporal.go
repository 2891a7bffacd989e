// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model // import "github.com/go-daq/evsim/model"

import (
	"math"
	"sort"

	"github.com/go-daq/evsim/obs"
	"github.com/go-daq/evsim/sampling"
	"golang.org/x/exp/rand"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
)

// ConstantTemporal is a constant light curve.
type ConstantTemporal struct {
	Value float64 // zero means 1
}

func (m ConstantTemporal) Norm(t float64) float64 {
	if m.Value == 0 {
		return 1
	}
	return m.Value
}

func (m ConstantTemporal) AverageNorm(t0, t1 float64) float64 { return m.Norm(t0) }

// SampleTime draws times uniformly in live time.
func (m ConstantTemporal) SampleTime(rnd *rand.Rand, n int, ontime float64, toTime func(float64) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = toTime(rnd.Float64() * ontime)
	}
	return out
}

// ExpDecay is an exponentially decaying light curve starting at T0.
// The norm is 1 at T0 and 0 before.
type ExpDecay struct {
	T0  float64 // s
	Tau float64 // s
}

func (m ExpDecay) Norm(t float64) float64 {
	if t < m.T0 {
		return 0
	}
	return math.Exp(-(t - m.T0) / m.Tau)
}

func (m ExpDecay) AverageNorm(t0, t1 float64) float64 {
	if t1 <= t0 {
		return m.Norm(t0)
	}
	a := math.Max(t0, m.T0)
	if t1 <= a {
		return 0
	}
	integ := m.Tau * (math.Exp(-(a-m.T0)/m.Tau) - math.Exp(-(t1-m.T0)/m.Tau))
	return integ / (t1 - t0)
}

// LightCurve is a tabulated light curve, linearly interpolated between
// its nodes and zero outside of them.
type LightCurve struct {
	Times []float64 // s, sorted
	Norms []float64
}

// NewLightCurve creates a tabulated light curve.
func NewLightCurve(times, norms []float64) (*LightCurve, error) {
	switch {
	case len(times) < 2:
		return nil, xerrors.Errorf("model: light curve needs at least 2 nodes")
	case len(times) != len(norms):
		return nil, xerrors.Errorf("model: light curve length mismatch (%d != %d)", len(times), len(norms))
	case !sort.Float64sAreSorted(times):
		return nil, xerrors.Errorf("model: light curve times are not sorted")
	}
	return &LightCurve{
		Times: append([]float64(nil), times...),
		Norms: append([]float64(nil), norms...),
	}, nil
}

func (m *LightCurve) Norm(t float64) float64 {
	n := len(m.Times)
	if t < m.Times[0] || t > m.Times[n-1] {
		return 0
	}
	i := sort.SearchFloat64s(m.Times, t)
	if i == 0 {
		return m.Norms[0]
	}
	t0, t1 := m.Times[i-1], m.Times[i]
	f := (t - t0) / (t1 - t0)
	return m.Norms[i-1] + f*(m.Norms[i]-m.Norms[i-1])
}

// AverageNorm integrates the piecewise-linear light curve exactly.
func (m *LightCurve) AverageNorm(t0, t1 float64) float64 {
	if t1 <= t0 {
		return m.Norm(t0)
	}
	var sum float64
	for i := 0; i+1 < len(m.Times); i++ {
		a := math.Max(t0, m.Times[i])
		b := math.Min(t1, m.Times[i+1])
		if b <= a {
			continue
		}
		// trapezoid is exact for a linear segment.
		sum += 0.5 * (m.Norm(a) + m.Norm(b)) * (b - a)
	}
	return sum / (t1 - t0)
}

// EnergyLightCurve is a light curve tabulated in energy and time bins.
// Norms[i][j] is the norm for energies between Energies[i] and
// Energies[i+1] and times between Times[j] and Times[j+1].
// The norm is zero outside of the table.
type EnergyLightCurve struct {
	Energies []float64 // TeV, bin edges
	Times    []float64 // s, bin edges
	Norms    [][]float64
}

// NewEnergyLightCurve creates an energy-dependent light curve.
func NewEnergyLightCurve(energies, times []float64, norms [][]float64) (*EnergyLightCurve, error) {
	switch {
	case len(energies) < 2 || len(times) < 2:
		return nil, xerrors.Errorf("model: energy light curve needs at least 2 energy and time edges")
	case len(norms) != len(energies)-1:
		return nil, xerrors.Errorf("model: energy light curve has %d energy rows, want %d", len(norms), len(energies)-1)
	case !sort.Float64sAreSorted(energies) || !sort.Float64sAreSorted(times):
		return nil, xerrors.Errorf("model: energy light curve edges are not sorted")
	}
	for i, row := range norms {
		if len(row) != len(times)-1 {
			return nil, xerrors.Errorf("model: energy light curve row %d has %d bins, want %d", i, len(row), len(times)-1)
		}
	}
	return &EnergyLightCurve{Energies: energies, Times: times, Norms: norms}, nil
}

func bin(edges []float64, v float64) int {
	n := len(edges) - 1
	if v < edges[0] || v > edges[n] {
		return -1
	}
	i := sort.SearchFloat64s(edges, v)
	if i < len(edges) && edges[i] == v {
		if i == n {
			return n - 1
		}
		return i
	}
	return i - 1
}

// NormEnergy returns the norm at time t and energy e.
func (m *EnergyLightCurve) NormEnergy(t, e float64) float64 {
	i := bin(m.Energies, e)
	j := bin(m.Times, t)
	if i < 0 || j < 0 {
		return 0
	}
	return m.Norms[i][j]
}

// Norm returns the norm at time t, averaged over the energy bins.
func (m *EnergyLightCurve) Norm(t float64) float64 {
	j := bin(m.Times, t)
	if j < 0 {
		return 0
	}
	var sum float64
	for _, row := range m.Norms {
		sum += row[j]
	}
	return sum / float64(len(m.Norms))
}

func (m *EnergyLightCurve) AverageNormEnergy(t0, t1, e float64) float64 {
	i := bin(m.Energies, e)
	if i < 0 {
		return 0
	}
	if t1 <= t0 {
		return m.NormEnergy(t0, e)
	}
	var sum float64
	for j, v := range m.Norms[i] {
		a := math.Max(t0, m.Times[j])
		b := math.Min(t1, m.Times[j+1])
		if b > a {
			sum += v * (b - a)
		}
	}
	return sum / (t1 - t0)
}

// SampleTimes draws n event times (seconds since the GTI reference epoch)
// from the light curve of tm, restricted to the good time intervals.
//
// Models implementing TimeSampler draw their own times. Otherwise the
// good time intervals are sliced in steps of at most tdelta seconds and
// a step is drawn by inverse-transform sampling of the norm integrated
// over each step, then a time uniformly within that step.
// A nil model is a constant light curve.
func SampleTimes(rnd *rand.Rand, tm Temporal, n int, gti *obs.GTI, tdelta float64) ([]float64, error) {
	if tm == nil {
		tm = ConstantTemporal{}
	}
	if gti == nil || gti.Len() == 0 {
		return nil, obs.ErrEmptyGTI
	}
	if n == 0 {
		return nil, nil
	}
	if ts, ok := tm.(TimeSampler); ok {
		return ts.SampleTime(rnd, n, gti.Ontime(), gti.MapTime), nil
	}

	edges, w, err := normWeights(tm, gti, tdelta)
	if err != nil {
		return nil, err
	}
	inv, err := sampling.NewInverseCDF(w)
	if err != nil {
		return nil, xerrors.Errorf("model: light curve has no positive norm within the time intervals: %w", err)
	}

	out := make([]float64, n)
	for k := range out {
		i := inv.Sample(rnd)
		dt := edges[i+1] - edges[i]
		out[k] = gti.MapTime(edges[i]) + rnd.Float64()*dt
	}
	return out, nil
}

// MeanNorm returns the norm of tm averaged over the live time of the
// good time intervals, integrated on the same tdelta grid SampleTimes
// draws from. A nil model has a mean norm of 1.
func MeanNorm(tm Temporal, gti *obs.GTI, tdelta float64) (float64, error) {
	if tm == nil {
		return 1, nil
	}
	_, w, err := normWeights(tm, gti, tdelta)
	if err != nil {
		return 0, err
	}
	return floats.Sum(w) / gti.Ontime(), nil
}

// normWeights slices the good time intervals in steps of at most tdelta
// seconds and returns the live-time edges of the steps along with the
// norm integrated over each of them.
func normWeights(tm Temporal, gti *obs.GTI, tdelta float64) ([]float64, []float64, error) {
	edges, err := gti.Split(tdelta)
	if err != nil {
		return nil, nil, xerrors.Errorf("model: could not slice time intervals: %w", err)
	}
	w := make([]float64, len(edges)-1)
	for i := range w {
		dt := edges[i+1] - edges[i]
		t0 := gti.MapTime(edges[i])
		switch avg := tm.(type) {
		case Averager:
			w[i] = avg.AverageNorm(t0, t0+dt) * dt
		default:
			w[i] = tm.Norm(t0+0.5*dt) * dt
		}
	}
	return edges, w, nil
}

var (
	_ Averager       = ConstantTemporal{}
	_ TimeSampler    = ConstantTemporal{}
	_ Averager       = ExpDecay{}
	_ Averager       = (*LightCurve)(nil)
	_ EnergyAverager = (*EnergyLightCurve)(nil)
)
