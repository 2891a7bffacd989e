// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom describes binned sky geometries, axes and the count cubes
// defined over them.
package geom // import "github.com/go-daq/evsim/geom"

import (
	"math"

	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
)

// Spatial is the spatial support of a cube.
type Spatial interface {
	// Frame returns the frame of the coordinates returned by PixToCoord.
	Frame() sky.Frame
	// Shape returns the number of pixels along y and x.
	Shape() (ny, nx int)
	// PixToCoord converts continuous pixel coordinates to a sky position.
	// Pixel centers sit on integer values.
	PixToCoord(x, y float64) sky.Coord
}

// Geom is a rectangular sky grid with square pixels laid out in the
// offset frame of its center, plus a reconstructed energy axis.
//
// The x axis runs towards decreasing longitudes, as for sky images.
type Geom struct {
	Center sky.Coord
	Sys    sky.Frame
	BinSz  float64 // pixel size (deg)
	NX, NY int
	Energy *Axis
}

// NewGeom creates a sky grid of the given width (deg) and pixel size.
func NewGeom(center sky.Coord, frame sky.Frame, binsz, width float64, energy *Axis) (*Geom, error) {
	return NewGeomXY(center, frame, binsz, width, width, energy)
}

// NewGeomXY creates a sky grid of the given widths (deg) and pixel size.
func NewGeomXY(center sky.Coord, frame sky.Frame, binsz, wx, wy float64, energy *Axis) (*Geom, error) {
	if binsz <= 0 {
		return nil, xerrors.Errorf("geom: invalid pixel size %v", binsz)
	}
	nx := int(math.Round(wx / binsz))
	ny := int(math.Round(wy / binsz))
	if nx < 1 || ny < 1 {
		return nil, xerrors.Errorf("geom: invalid geometry width (%v, %v) for pixel size %v", wx, wy, binsz)
	}
	return &Geom{
		Center: center,
		Sys:    frame,
		BinSz:  binsz,
		NX:     nx,
		NY:     ny,
		Energy: energy,
	}, nil
}

func (g *Geom) Frame() sky.Frame    { return g.Sys }
func (g *Geom) Shape() (ny, nx int) { return g.NY, g.NX }

func (g *Geom) cx() float64 { return 0.5 * float64(g.NX-1) }
func (g *Geom) cy() float64 { return 0.5 * float64(g.NY-1) }

// Width returns the angular extent of the grid along x and y.
func (g *Geom) Width() (wx, wy float64) {
	return float64(g.NX) * g.BinSz, float64(g.NY) * g.BinSz
}

// CenterICRS returns the grid center in ICRS.
func (g *Geom) CenterICRS() sky.Coord {
	return sky.Transform(g.Center, g.Sys, sky.ICRS)
}

func (g *Geom) PixToCoord(x, y float64) sky.Coord {
	lon := -(x - g.cx()) * g.BinSz
	lat := (y - g.cy()) * g.BinSz
	return sky.FromOffset(lon, lat, g.Center)
}

// CoordToPix converts a position, expressed in the grid frame, to
// continuous pixel coordinates.
func (g *Geom) CoordToPix(c sky.Coord) (x, y float64) {
	lon, lat := sky.ToOffset(c, g.Center)
	return g.cx() - lon/g.BinSz, g.cy() + lat/g.BinSz
}

// Index returns the pixel containing the ICRS position c.
func (g *Geom) Index(c sky.Coord) (ix, iy int, ok bool) {
	x, y := g.CoordToPix(sky.Transform(c, sky.ICRS, g.Sys))
	ix = int(math.Floor(x + 0.5))
	iy = int(math.Floor(y + 0.5))
	ok = ix >= 0 && ix < g.NX && iy >= 0 && iy < g.NY
	return ix, iy, ok
}

// Contains returns whether the ICRS position c falls inside the grid.
func (g *Geom) Contains(c sky.Coord) bool {
	_, _, ok := g.Index(c)
	return ok
}

// SolidAngle returns the solid angle (sr) of the pixels of row iy.
func (g *Geom) SolidAngle(iy int) float64 {
	lo := (float64(iy) - 0.5 - g.cy()) * g.BinSz * math.Pi / 180
	hi := (float64(iy) + 0.5 - g.cy()) * g.BinSz * math.Pi / 180
	return g.BinSz * math.Pi / 180 * (math.Sin(hi) - math.Sin(lo))
}

// PointRegion is the spatial support of a point-like source:
// a single pixel which always maps to the source position.
type PointRegion struct {
	Pos sky.Coord
	Sys sky.Frame
}

func (p PointRegion) Frame() sky.Frame                 { return p.Sys }
func (p PointRegion) Shape() (ny, nx int)              { return 1, 1 }
func (p PointRegion) PixToCoord(x, y float64) sky.Coord { return p.Pos }

var (
	_ Spatial = (*Geom)(nil)
	_ Spatial = PointRegion{}
)
