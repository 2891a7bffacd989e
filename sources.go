// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evsim // import "github.com/go-daq/evsim"

import (
	"github.com/go-daq/evsim/dataset"
	"github.com/go-daq/evsim/geom"
	"github.com/go-daq/evsim/model"
	"golang.org/x/xerrors"
)

// BackgroundID is the Monte-Carlo identifier of background events.
const BackgroundID = 0

// Entry describes a model component that was simulated.
type Entry struct {
	Name  string
	ID    int64
	NPred float64 // expected number of events
	N     int     // number of simulated events
}

// Registry lists the simulated model components, in increasing
// identifier order.
type Registry struct {
	Entries []Entry
}

func (reg *Registry) add(e Entry) {
	reg.Entries = append(reg.Entries, e)
}

// Len returns the number of registered components.
func (reg *Registry) Len() int {
	if reg == nil {
		return 0
	}
	return len(reg.Entries)
}

// Lookup returns the entry of the named component.
func (reg *Registry) Lookup(name string) (Entry, bool) {
	if reg == nil {
		return Entry{}, false
	}
	for _, e := range reg.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// SampleSources simulates the events of every sky model of the dataset.
//
// The i-th sky model of the dataset gets the Monte-Carlo identifier i+1.
// Models whose temporal model is coupled to energy are sampled from
// their time-resolved prediction, the others from their static
// prediction scaled by the mean norm of their light curve over the good
// time intervals.
// Models with no expected counts, including sources whose light curve
// vanishes over the good time intervals, are skipped: they get no
// registry entry and consume no random numbers.
func (s *Sampler) SampleSources(ds *dataset.Dataset) (*EventList, *Registry, error) {
	var (
		out = &EventList{}
		reg = &Registry{}
	)
	for i, ev := range ds.Evaluators() {
		var (
			id      = int64(i + 1)
			name    = ev.Model.Name()
			cube    *geom.Cube
			err     error
			_, ecpl = ev.Model.Temporal.(model.EnergyAverager)
		)
		switch {
		case ecpl:
			cube, err = s.EvaluateTimeVar(ds, ev)
		default:
			cube, err = s.npredTime(ds, ev)
		}
		if err != nil {
			return nil, nil, xerrors.Errorf("evsim: could not predict counts of %q: %w", name, err)
		}

		npred := cube.Sum()
		if !(npred > 0) {
			s.Msg.Debugf("skipping %q: no expected counts", name)
			continue
		}

		var evts *EventList
		switch {
		case ecpl:
			evts, err = s.sampleCoordTimeEnergy(cube, ds.GTI)
		default:
			evts, err = s.SampleCoordTime(cube, ev.Model.Temporal, ds.GTI)
		}
		if err != nil {
			return nil, nil, xerrors.Errorf("evsim: could not sample events of %q: %w", name, err)
		}

		for j := range evts.Events {
			evts.Events[j].MCID = id
		}
		reg.add(Entry{Name: name, ID: id, NPred: npred, N: evts.Len()})
		s.Msg.Debugf("sampled %d events for %q (npred=%g, id=%d)", evts.Len(), name, npred, id)

		out.Events = append(out.Events, evts.Events...)
	}
	return out, reg, nil
}

// npredTime returns the static prediction of a source scaled by the
// norm of its light curve averaged over the good time intervals.
func (s *Sampler) npredTime(ds *dataset.Dataset, ev *dataset.Evaluator) (*geom.Cube, error) {
	cube, err := ev.ComputeNpred()
	if err != nil {
		return nil, err
	}
	norm, err := model.MeanNorm(ev.Model.Temporal, ds.GTI, s.Cfg.TDelta)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not average light curve: %w", err)
	}
	if norm != 1 {
		cube.Scale(norm)
	}
	return cube, nil
}

// SampleBackground simulates the background events of the dataset.
// Background events have equal reconstructed and true quantities and
// the BackgroundID identifier.
// A dataset without background yields an empty list.
func (s *Sampler) SampleBackground(ds *dataset.Dataset) (*EventList, error) {
	cube, err := ds.NpredBackground()
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not predict background counts: %w", err)
	}
	if cube == nil {
		return &EventList{}, nil
	}

	npred := cube.Sum()
	n := s.poisson(npred)
	evts, err := s.sampleCube(cube, n, ds.GTI, true)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not sample background events: %w", err)
	}
	for i := range evts {
		evts[i].MCID = BackgroundID
	}
	s.Msg.Debugf("sampled %d background events (npred=%g)", len(evts), npred)
	return &EventList{Events: evts}, nil
}
