// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom // import "github.com/go-daq/evsim/geom"

import (
	"gonum.org/v1/gonum/floats"
)

// Map is an (energy, y, x) array defined over a sky grid.
type Map struct {
	Geom *Geom
	Axis *Axis // energy axis of the map (true or reconstructed)
	Data []float64
}

// NewMap creates a zero-valued map.
func NewMap(g *Geom, axis *Axis) *Map {
	return &Map{
		Geom: g,
		Axis: axis,
		Data: make([]float64, axis.NBin()*g.NY*g.NX),
	}
}

func (m *Map) index(e, y, x int) int {
	return (e*m.Geom.NY+y)*m.Geom.NX + x
}

func (m *Map) At(e, y, x int) float64     { return m.Data[m.index(e, y, x)] }
func (m *Map) Set(e, y, x int, v float64) { m.Data[m.index(e, y, x)] = v }

// Fill sets all the elements of the map to v.
func (m *Map) Fill(v float64) {
	for i := range m.Data {
		m.Data[i] = v
	}
}

// Scale multiplies all the elements of the map by f.
func (m *Map) Scale(f float64) {
	floats.Scale(f, m.Data)
}

// Sum returns the sum of all the elements of the map.
func (m *Map) Sum() float64 { return floats.Sum(m.Data) }

// Cube is a predicted-counts cube indexed by (energy, time, y, x).
//
// The time axis is expressed in live time: seconds elapsed since the
// start of the first good time interval, skipping the gaps between
// intervals.
type Cube struct {
	Energy  *Axis
	Time    *Axis
	Spatial Spatial
	Data    []float64
}

// NewCube creates a zero-valued cube.
func NewCube(energy, time *Axis, sp Spatial) *Cube {
	ny, nx := sp.Shape()
	return &Cube{
		Energy:  energy,
		Time:    time,
		Spatial: sp,
		Data:    make([]float64, energy.NBin()*time.NBin()*ny*nx),
	}
}

// Shape returns the number of bins along (energy, time, y, x).
func (c *Cube) Shape() [4]int {
	ny, nx := c.Spatial.Shape()
	return [4]int{c.Energy.NBin(), c.Time.NBin(), ny, nx}
}

// Index returns the flat index of the (e, t, y, x) bin.
func (c *Cube) Index(e, t, y, x int) int {
	s := c.Shape()
	return ((e*s[1]+t)*s[2]+y)*s[3] + x
}

// Unravel is the inverse of Index.
func (c *Cube) Unravel(i int) (e, t, y, x int) {
	s := c.Shape()
	x = i % s[3]
	i /= s[3]
	y = i % s[2]
	i /= s[2]
	t = i % s[1]
	e = i / s[1]
	return e, t, y, x
}

func (c *Cube) At(e, t, y, x int) float64     { return c.Data[c.Index(e, t, y, x)] }
func (c *Cube) Set(e, t, y, x int, v float64) { c.Data[c.Index(e, t, y, x)] = v }

// Sum returns the total number of predicted counts.
func (c *Cube) Sum() float64 { return floats.Sum(c.Data) }

// Scale multiplies all the elements of the cube by f.
func (c *Cube) Scale(f float64) {
	floats.Scale(f, c.Data)
}
