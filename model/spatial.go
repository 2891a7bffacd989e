// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model // import "github.com/go-daq/evsim/model"

import (
	"math"

	"github.com/go-daq/evsim/sky"
)

const deg2rad = math.Pi / 180

// PointSpatial is a point source.
type PointSpatial struct {
	Lon, Lat float64
	Frame    sky.Frame
}

func (m PointSpatial) Position() sky.Coord {
	return sky.Transform(sky.Coord{Lon: m.Lon, Lat: m.Lat}, m.Frame, sky.ICRS)
}

// Evaluate returns zero: the brightness of a point source is a Dirac
// distribution. Use the PointLike capability to integrate it.
func (m PointSpatial) Evaluate(c sky.Coord) float64 { return 0 }

func (m PointSpatial) PointLike() bool { return true }

// GaussianSpatial is a symmetric 2-dim gaussian source.
type GaussianSpatial struct {
	Lon, Lat float64
	Sigma    float64 // deg
	Frame    sky.Frame
}

func (m GaussianSpatial) Position() sky.Coord {
	return sky.Transform(sky.Coord{Lon: m.Lon, Lat: m.Lat}, m.Frame, sky.ICRS)
}

func (m GaussianSpatial) Evaluate(c sky.Coord) float64 {
	sep := sky.Separation(c, m.Position()) * deg2rad
	sigma := m.Sigma * deg2rad
	// small-angle normalisation.
	norm := 1 / (2 * math.Pi * sigma * sigma)
	return norm * math.Exp(-0.5*(sep*sep)/(sigma*sigma))
}

// DiskSpatial is a uniform disk.
type DiskSpatial struct {
	Lon, Lat float64
	Radius   float64 // deg
	Frame    sky.Frame
}

func (m DiskSpatial) Position() sky.Coord {
	return sky.Transform(sky.Coord{Lon: m.Lon, Lat: m.Lat}, m.Frame, sky.ICRS)
}

func (m DiskSpatial) Evaluate(c sky.Coord) float64 {
	if sky.Separation(c, m.Position()) > m.Radius {
		return 0
	}
	// solid angle of a spherical cap.
	omega := 2 * math.Pi * (1 - math.Cos(m.Radius*deg2rad))
	return 1 / omega
}

var (
	_ PointLike = PointSpatial{}
	_ Spatial   = GaussianSpatial{}
	_ Spatial   = DiskSpatial{}
)
