// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom // import "github.com/go-daq/evsim/geom"

import (
	"math"
	"sort"

	"golang.org/x/xerrors"
)

// Interp is the interpolation mode of an axis within its bins.
type Interp uint8

const (
	Lin Interp = iota // linear
	Log               // logarithmic
)

func (i Interp) String() string {
	switch i {
	case Lin:
		return "lin"
	case Log:
		return "log"
	}
	return "invalid"
}

// Axis is a binned, non-spatial axis (energy or time).
type Axis struct {
	Name   string
	Unit   string
	Interp Interp
	Edges  []float64 // bin edges, strictly increasing
}

// NewAxis creates an axis from explicit bin edges.
func NewAxis(name, unit string, interp Interp, edges []float64) (*Axis, error) {
	if len(edges) < 2 {
		return nil, xerrors.Errorf("geom: axis %q needs at least 2 edges (got %d)", name, len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return nil, xerrors.Errorf("geom: axis %q edges are not strictly increasing at index %d", name, i)
		}
	}
	if interp == Log && edges[0] <= 0 {
		return nil, xerrors.Errorf("geom: log axis %q needs positive edges", name)
	}
	return &Axis{
		Name:   name,
		Unit:   unit,
		Interp: interp,
		Edges:  append([]float64(nil), edges...),
	}, nil
}

// NewAxisFromBounds creates an axis with nbin bins between lo and hi,
// equally spaced in the space defined by interp.
func NewAxisFromBounds(name, unit string, interp Interp, lo, hi float64, nbin int) (*Axis, error) {
	if nbin < 1 {
		return nil, xerrors.Errorf("geom: axis %q needs at least one bin", name)
	}
	edges := make([]float64, nbin+1)
	for i := range edges {
		f := float64(i) / float64(nbin)
		switch interp {
		case Log:
			edges[i] = lo * math.Pow(hi/lo, f)
		default:
			edges[i] = lo + f*(hi-lo)
		}
	}
	edges[0] = lo
	edges[nbin] = hi
	return NewAxis(name, unit, interp, edges)
}

// NBin returns the number of bins.
func (ax *Axis) NBin() int { return len(ax.Edges) - 1 }

// Min returns the lower edge of the axis.
func (ax *Axis) Min() float64 { return ax.Edges[0] }

// Max returns the upper edge of the axis.
func (ax *Axis) Max() float64 { return ax.Edges[len(ax.Edges)-1] }

// Bounds returns the edges of bin i.
func (ax *Axis) Bounds(i int) (lo, hi float64) {
	return ax.Edges[i], ax.Edges[i+1]
}

// Width returns the width of bin i.
func (ax *Axis) Width(i int) float64 {
	return ax.Edges[i+1] - ax.Edges[i]
}

// Center returns the center of bin i, geometric for log axes.
func (ax *Axis) Center(i int) float64 {
	lo, hi := ax.Bounds(i)
	if ax.Interp == Log {
		return math.Sqrt(lo * hi)
	}
	return 0.5 * (lo + hi)
}

// At returns the coordinate at fraction f in [0, 1] of bin i,
// interpolating in the axis space.
func (ax *Axis) At(i int, f float64) float64 {
	lo, hi := ax.Bounds(i)
	if ax.Interp == Log {
		return lo * math.Pow(hi/lo, f)
	}
	return lo + f*(hi-lo)
}

// Index returns the bin containing v, or -1 when v is outside the axis.
// Bins are half-open, [lo, hi), except for the last one which is closed.
func (ax *Axis) Index(v float64) int {
	n := ax.NBin()
	if v < ax.Edges[0] || v > ax.Edges[n] || math.IsNaN(v) {
		return -1
	}
	i := sort.SearchFloat64s(ax.Edges, v)
	switch {
	case i < len(ax.Edges) && ax.Edges[i] == v:
		if i == n {
			return n - 1
		}
		return i
	default:
		return i - 1
	}
}

// Contains returns whether v is within the axis range.
func (ax *Axis) Contains(v float64) bool {
	return ax.Index(v) >= 0
}
