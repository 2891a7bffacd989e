// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evsim // import "github.com/go-daq/evsim"

import (
	"github.com/go-daq/evsim/dataset"
	"github.com/go-daq/evsim/geom"
	"github.com/go-daq/evsim/model"
	"github.com/go-daq/evsim/obs"
	"github.com/go-daq/evsim/sampling"
	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
)

// EvaluateTimeVar returns the predicted counts of a source with a
// time-varying flux, binned in live time.
//
// The good time intervals are sliced in steps of at most Cfg.TDelta
// seconds. Each time bin holds the static prediction scaled by the
// fraction of live time it covers and by the average norm of the
// temporal model over it, resolved in energy for models implementing
// model.EnergyAverager.
func (s *Sampler) EvaluateTimeVar(ds *dataset.Dataset, ev *dataset.Evaluator) (*geom.Cube, error) {
	sm := ev.Model
	if sm.Spatial == nil || sm.Spectral == nil {
		return nil, xerrors.Errorf(
			"evsim: model %q needs spatial and spectral models for a time-resolved prediction: %w",
			sm.Name(), ErrCapability,
		)
	}

	var avg func(t0, t1, e float64) float64
	switch tm := sm.Temporal.(type) {
	case model.EnergyAverager:
		avg = tm.AverageNormEnergy
	case model.Averager:
		avg = func(t0, t1, _ float64) float64 { return tm.AverageNorm(t0, t1) }
	default:
		return nil, xerrors.Errorf(
			"evsim: temporal model %T of %q can not be averaged over time: %w",
			sm.Temporal, sm.Name(), ErrCapability,
		)
	}

	static, err := ev.ComputeNpred()
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not compute static prediction of %q: %w", sm.Name(), err)
	}

	edges, err := ds.GTI.Split(s.Cfg.TDelta)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not slice time intervals: %w", err)
	}
	tax, err := geom.NewAxis("time", "s", geom.Lin, edges)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not create time axis: %w", err)
	}

	var (
		ontime = ds.GTI.Ontime()
		eax    = static.Energy
		cube   = geom.NewCube(eax, tax, static.Spatial)
		ny, nx = static.Spatial.Shape()
	)
	for it := 0; it < tax.NBin(); it++ {
		lo, hi := tax.Bounds(it)
		dt := hi - lo
		t0 := ds.GTI.MapTime(lo)
		for ie := 0; ie < eax.NBin(); ie++ {
			f := dt / ontime * avg(t0, t0+dt, eax.Center(ie))
			if f == 0 {
				continue
			}
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					cube.Set(ie, it, y, x, static.At(ie, 0, y, x)*f)
				}
			}
		}
	}
	return cube, nil
}

// SampleCube draws n events from the predicted counts cube.
//
// Bins are drawn with probabilities proportional to their content, then
// the energy, position and live time are drawn uniformly within the bin
// (uniformly in log-energy for logarithmic axes). Live times are mapped
// to times since the reference epoch through gti; with a nil gti, event
// times are live times.
// Reconstructed and true quantities are equal.
func (s *Sampler) SampleCube(cube *geom.Cube, n int, gti *obs.GTI) ([]Event, error) {
	return s.sampleCube(cube, n, gti, true)
}

func (s *Sampler) sampleCube(cube *geom.Cube, n int, gti *obs.GTI, withTime bool) ([]Event, error) {
	if n == 0 {
		return nil, nil
	}
	inv, err := sampling.NewInverseCDF(cube.Data)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not sample predicted counts: %w", err)
	}

	var (
		frame = cube.Spatial.Frame()
		evts  = make([]Event, n)
	)
	for i := range evts {
		ie, it, iy, ix := cube.Unravel(inv.Sample(s.rnd))
		energy := cube.Energy.At(ie, s.rnd.Float64())
		x := float64(ix) - 0.5 + s.rnd.Float64()
		y := float64(iy) - 0.5 + s.rnd.Float64()
		pos := sky.Transform(cube.Spatial.PixToCoord(x, y), frame, sky.ICRS)

		evt := &evts[i]
		evt.EnergyTrue, evt.Energy = energy, energy
		evt.RATrue, evt.RA = pos.Lon, pos.Lon
		evt.DecTrue, evt.Dec = pos.Lat, pos.Lat

		if !withTime {
			continue
		}
		live := cube.Time.At(it, s.rnd.Float64())
		evt.Time = live
		if gti != nil {
			evt.Time = gti.MapTime(live)
		}
	}
	return evts, nil
}

// SampleCoordTimeEnergy simulates the events of a source whose
// temporal model is coupled to energy: positions, energies and times
// are drawn jointly from its time-resolved prediction.
func (s *Sampler) SampleCoordTimeEnergy(ds *dataset.Dataset, ev *dataset.Evaluator) (*EventList, error) {
	cube, err := s.EvaluateTimeVar(ds, ev)
	if err != nil {
		return nil, err
	}
	return s.sampleCoordTimeEnergy(cube, ds.GTI)
}

func (s *Sampler) sampleCoordTimeEnergy(cube *geom.Cube, gti *obs.GTI) (*EventList, error) {
	n := s.poisson(cube.Sum())
	evts, err := s.sampleCube(cube, n, gti, true)
	if err != nil {
		return nil, err
	}
	return &EventList{Events: evts}, nil
}

// SampleCoordTime simulates the events of a source from its predicted
// counts: positions and energies are drawn from npred, times from the
// temporal model within the good time intervals.
// The total of npred is the expected number of events: it already
// accounts for the mean norm of the light curve (see model.MeanNorm).
// A nil temporal model is constant.
func (s *Sampler) SampleCoordTime(npred *geom.Cube, temporal model.Temporal, gti *obs.GTI) (*EventList, error) {
	if gti == nil || gti.Len() == 0 {
		return nil, obs.ErrEmptyGTI
	}
	n := s.poisson(npred.Sum())
	evts, err := s.sampleCube(npred, n, gti, false)
	if err != nil {
		return nil, err
	}
	times, err := model.SampleTimes(s.rnd, temporal, n, gti, s.Cfg.TDelta)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not sample event times: %w", err)
	}
	for i := range evts {
		evts[i].Time = times[i]
	}
	return &EventList{Events: evts}, nil
}
