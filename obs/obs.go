// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obs describes observations: pointing, live time, site and
// good time intervals.
package obs // import "github.com/go-daq/evsim/obs"

import (
	"sort"

	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
)

// Pointing gives the ICRS pointing direction of the telescope at time t
// (seconds since the reference epoch).
type Pointing interface {
	ICRS(t float64) sky.Coord
}

// FixedPointing is a pointing that does not move on the sky.
type FixedPointing struct {
	Pos sky.Coord // ICRS
}

func (p FixedPointing) ICRS(t float64) sky.Coord { return p.Pos }

// TrackPointing is a tabulated pointing, linearly interpolated in the
// offset frame of the first entry.
type TrackPointing struct {
	Times []float64
	Pos   []sky.Coord // ICRS
}

// NewTrackPointing creates a tabulated pointing. Times must be sorted.
func NewTrackPointing(times []float64, pos []sky.Coord) (*TrackPointing, error) {
	switch {
	case len(times) == 0:
		return nil, xerrors.Errorf("obs: empty pointing table")
	case len(times) != len(pos):
		return nil, xerrors.Errorf("obs: pointing table length mismatch (%d != %d)", len(times), len(pos))
	case !sort.Float64sAreSorted(times):
		return nil, xerrors.Errorf("obs: pointing table times are not sorted")
	}
	return &TrackPointing{
		Times: append([]float64(nil), times...),
		Pos:   append([]sky.Coord(nil), pos...),
	}, nil
}

func (p *TrackPointing) ICRS(t float64) sky.Coord {
	n := len(p.Times)
	i := sort.SearchFloat64s(p.Times, t)
	switch {
	case i == 0:
		return p.Pos[0]
	case i >= n:
		return p.Pos[n-1]
	}
	t0, t1 := p.Times[i-1], p.Times[i]
	f := (t - t0) / (t1 - t0)
	origin := p.Pos[0]
	lon0, lat0 := sky.ToOffset(p.Pos[i-1], origin)
	lon1, lat1 := sky.ToOffset(p.Pos[i], origin)
	return sky.FromOffset(lon0+f*(lon1-lon0), lat0+f*(lat1-lat0), origin)
}

// Observation describes the conditions under which events are simulated.
type Observation struct {
	ObsID    int64
	Pointing Pointing

	Livetime float64 // live time (s); zero means ontime * DeadC
	DeadC    float64 // dead-time correction factor; zero means 1

	Location *sky.Location
	PosAngle float64 // rotation of the camera frame (deg)

	Telescope  string
	Instrument string
	NTels      string
	TelList    string
}

// DeadTimeFactor returns the dead-time correction factor, defaulting to 1.
func (o *Observation) DeadTimeFactor() float64 {
	if o == nil || o.DeadC == 0 {
		return 1
	}
	return o.DeadC
}

var (
	_ Pointing = FixedPointing{}
	_ Pointing = (*TrackPointing)(nil)
)
