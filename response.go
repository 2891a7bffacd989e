// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evsim // import "github.com/go-daq/evsim"

import (
	"math"

	"github.com/go-daq/evsim/irf"
	"github.com/go-daq/evsim/obs"
	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
)

// SamplePSF smears the true positions of the events with the point
// spread function. Offsets are measured from center.
// A nil psf leaves the reconstructed positions equal to the true ones.
func (s *Sampler) SamplePSF(psf irf.PSF, evts *EventList, center sky.Coord) {
	for i := range evts.Events {
		evt := &evts.Events[i]
		if psf == nil {
			evt.RA, evt.Dec = evt.RATrue, evt.DecTrue
			continue
		}
		pos := sky.Coord{Lon: evt.RATrue, Lat: evt.DecTrue}
		theta := sky.Separation(center, pos)
		r := psf.SampleOffset(s.rnd, evt.EnergyTrue, theta)
		pa := 360 * s.rnd.Float64()
		pos = sky.Offset(pos, pa, r)
		evt.RA, evt.Dec = pos.Lon, pos.Lat
	}
}

// SampleEDisp draws the reconstructed energies of the events from the
// energy dispersion. Offsets are measured from center.
// A nil edisp leaves the reconstructed energies equal to the true ones.
func (s *Sampler) SampleEDisp(edisp irf.EDisp, evts *EventList, center sky.Coord) {
	for i := range evts.Events {
		evt := &evts.Events[i]
		if edisp == nil {
			evt.Energy = evt.EnergyTrue
			continue
		}
		pos := sky.Coord{Lon: evt.RATrue, Lat: evt.DecTrue}
		theta := sky.Separation(center, pos)
		evt.Energy = edisp.SampleEnergy(s.rnd, evt.EnergyTrue, theta)
	}
}

// EventDetCoords computes the field-of-view coordinates of the events:
// the offsets of their reconstructed positions in the frame centered on
// the pointing position at the event time, rotated by the position angle
// of the observation.
func (s *Sampler) EventDetCoords(o *obs.Observation, evts *EventList) error {
	if o == nil || o.Pointing == nil {
		return xerrors.Errorf("evsim: observation has no pointing")
	}
	var (
		rot = o.PosAngle * math.Pi / 180
		cos = math.Cos(rot)
		sin = math.Sin(rot)
	)
	for i := range evts.Events {
		evt := &evts.Events[i]
		pnt := o.Pointing.ICRS(evt.Time)
		lon, lat := sky.ToOffset(sky.Coord{Lon: evt.RA, Lat: evt.Dec}, pnt)
		evt.DetX = lon*cos + lat*sin
		evt.DetY = -lon*sin + lat*cos
	}
	return nil
}
