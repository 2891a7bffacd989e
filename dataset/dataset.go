// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset binds sky models to an observation-specific set of
// exposure, background and instrument responses, and predicts the
// number of counts they produce.
package dataset // import "github.com/go-daq/evsim/dataset"

import (
	"github.com/go-daq/evsim/geom"
	"github.com/go-daq/evsim/irf"
	"github.com/go-daq/evsim/model"
	"github.com/go-daq/evsim/obs"
	"golang.org/x/xerrors"
)

var (
	ErrIncomplete = xerrors.New("dataset: incomplete sky model")
	ErrNoExposure = xerrors.New("dataset: missing exposure")
)

// Dataset is a binned dataset of a single observation.
type Dataset struct {
	Name string

	Geom       *geom.Geom // reconstructed geometry
	EnergyTrue *geom.Axis // true energy axis; nil means Geom.Energy

	Exposure   *geom.Map // (true energy, y, x) exposure (cm^2 s)
	Background *geom.Map // (energy, y, x) background counts; nil for none

	PSF   irf.PSF   // nil for none
	EDisp irf.EDisp // nil for none

	GTI    *obs.GTI
	Models model.Models
}

// TrueAxis returns the true energy axis.
func (ds *Dataset) TrueAxis() *geom.Axis {
	if ds.EnergyTrue != nil {
		return ds.EnergyTrue
	}
	return ds.Geom.Energy
}

// LiveTimeAxis returns a single-bin time axis spanning the whole live
// time of the dataset.
func (ds *Dataset) LiveTimeAxis() (*geom.Axis, error) {
	if ds.GTI == nil || ds.GTI.Len() == 0 {
		return nil, obs.ErrEmptyGTI
	}
	return geom.NewAxis("time", "s", geom.Lin, []float64{0, ds.GTI.Ontime()})
}

// Evaluators returns one evaluator per sky model applying to the dataset,
// in model list order.
func (ds *Dataset) Evaluators() []*Evaluator {
	var evs []*Evaluator
	for _, m := range ds.Models.Sky() {
		if !m.AppliesTo(ds.Name) {
			continue
		}
		evs = append(evs, &Evaluator{Model: m, ds: ds})
	}
	return evs
}

// Evaluator returns the evaluator of the named sky model.
func (ds *Dataset) Evaluator(name string) (*Evaluator, bool) {
	for _, ev := range ds.Evaluators() {
		if ev.Model.Name() == name {
			return ev, true
		}
	}
	return nil, false
}

// BackgroundModel returns the background model of the dataset, or the
// default one when the model list has none.
func (ds *Dataset) BackgroundModel() *model.Background {
	if bkg := ds.Models.Background(ds.Name); bkg != nil {
		return bkg
	}
	return model.NewBackground(ds.Name)
}

// NpredBackground returns the predicted background counts, or nil when
// the dataset has no background.
func (ds *Dataset) NpredBackground() (*geom.Cube, error) {
	if ds.Background == nil {
		return nil, nil
	}
	tax, err := ds.LiveTimeAxis()
	if err != nil {
		return nil, xerrors.Errorf("dataset: could not build time axis: %w", err)
	}
	var (
		bkg  = ds.BackgroundModel()
		axis = ds.Background.Axis
		cube = geom.NewCube(axis, tax, ds.Geom)
	)
	for e := 0; e < axis.NBin(); e++ {
		f := bkg.Factor(axis.Center(e))
		for y := 0; y < ds.Geom.NY; y++ {
			for x := 0; x < ds.Geom.NX; x++ {
				v := ds.Background.At(e, y, x) * f
				if v > 0 {
					cube.Set(e, 0, y, x, v)
				}
			}
		}
	}
	return cube, nil
}
