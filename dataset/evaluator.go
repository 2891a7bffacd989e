// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset // import "github.com/go-daq/evsim/dataset"

import (
	"github.com/go-daq/evsim/geom"
	"github.com/go-daq/evsim/model"
	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
)

// oversample is the number of sub-pixels per pixel side used to
// integrate extended spatial models.
const oversample = 3

// Evaluator predicts the counts of one sky model in a dataset.
type Evaluator struct {
	Model *model.SkyModel
	ds    *Dataset
}

// Dataset returns the dataset the evaluator is bound to.
func (ev *Evaluator) Dataset() *Dataset { return ev.ds }

// ComputeNpred returns the predicted counts of the model over the whole
// live time of the dataset, ignoring its temporal model.
//
// Point-like sources yield a cube over a geom.PointRegion, using the
// exposure of the pixel containing the source.
func (ev *Evaluator) ComputeNpred() (*geom.Cube, error) {
	var (
		ds = ev.ds
		sm = ev.Model
	)
	switch {
	case sm.Spatial == nil:
		return nil, xerrors.Errorf("dataset: model %q has no spatial model: %w", sm.Name(), ErrIncomplete)
	case sm.Spectral == nil:
		return nil, xerrors.Errorf("dataset: model %q has no spectral model: %w", sm.Name(), ErrIncomplete)
	case ds.Exposure == nil:
		return nil, xerrors.Errorf("dataset: %q: %w", ds.Name, ErrNoExposure)
	}

	tax, err := ds.LiveTimeAxis()
	if err != nil {
		return nil, xerrors.Errorf("dataset: could not build time axis: %w", err)
	}
	axis := ds.TrueAxis()
	if got, want := ds.Exposure.Axis.NBin(), axis.NBin(); got != want {
		return nil, xerrors.Errorf("dataset: exposure has %d energy bins, want %d", got, want)
	}

	flux := make([]float64, axis.NBin())
	for e := range flux {
		lo, hi := axis.Bounds(e)
		flux[e] = sm.Spectral.Integral(lo, hi)
	}

	if pt, ok := sm.Spatial.(model.PointLike); ok && pt.PointLike() {
		pos := pt.Position()
		cube := geom.NewCube(axis, tax, geom.PointRegion{Pos: pos, Sys: sky.ICRS})
		ix, iy, ok := ds.Geom.Index(pos)
		if !ok {
			return cube, nil
		}
		for e, f := range flux {
			cube.Set(e, 0, 0, 0, f*ds.Exposure.At(e, iy, ix))
		}
		return cube, nil
	}

	var (
		g    = ds.Geom
		frac = ev.spatialFractions()
		cube = geom.NewCube(axis, tax, g)
	)
	for e, f := range flux {
		for y := 0; y < g.NY; y++ {
			for x := 0; x < g.NX; x++ {
				v := f * frac[y*g.NX+x] * ds.Exposure.At(e, y, x)
				if v > 0 {
					cube.Set(e, 0, y, x, v)
				}
			}
		}
	}
	return cube, nil
}

// spatialFractions integrates the spatial model over each pixel of the
// dataset geometry.
func (ev *Evaluator) spatialFractions() []float64 {
	var (
		g    = ev.ds.Geom
		sp   = ev.Model.Spatial
		frac = make([]float64, g.NY*g.NX)
		step = 1.0 / oversample
	)
	for y := 0; y < g.NY; y++ {
		omega := g.SolidAngle(y)
		for x := 0; x < g.NX; x++ {
			var sum float64
			for j := 0; j < oversample; j++ {
				yy := float64(y) - 0.5 + (float64(j)+0.5)*step
				for i := 0; i < oversample; i++ {
					xx := float64(x) - 0.5 + (float64(i)+0.5)*step
					c := sky.Transform(g.PixToCoord(xx, yy), g.Sys, sky.ICRS)
					sum += sp.Evaluate(c)
				}
			}
			frac[y*g.NX+x] = sum / (oversample * oversample) * omega
		}
	}
	return frac
}
