// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset // import "github.com/go-daq/evsim/dataset"

import (
	"math"
	"testing"
	"time"

	"github.com/go-daq/evsim/geom"
	"github.com/go-daq/evsim/model"
	"github.com/go-daq/evsim/obs"
	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
)

func newDataset(t *testing.T, models ...model.Component) *Dataset {
	t.Helper()
	eax, err := geom.NewAxisFromBounds("energy", "TeV", geom.Log, 1, 10, 3)
	if err != nil {
		t.Fatalf("could not create energy axis: %+v", err)
	}
	g, err := geom.NewGeom(sky.Coord{}, sky.Galactic, 0.05, 5, eax)
	if err != nil {
		t.Fatalf("could not create geometry: %+v", err)
	}
	ref := obs.NewEpoch(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), "tt")
	gti, err := obs.NewGTI(ref, []float64{0}, []float64{1000})
	if err != nil {
		t.Fatalf("could not create GTI: %+v", err)
	}

	exposure := geom.NewMap(g, eax)
	exposure.Fill(1e13)
	return &Dataset{
		Name:     "test",
		Geom:     g,
		Exposure: exposure,
		GTI:      gti,
		Models:   models,
	}
}

func TestComputeNpred(t *testing.T) {
	pl := model.PowerLaw{Amplitude: 1e-11, Index: 2, Reference: 1}
	for _, tc := range []struct {
		name    string
		spatial model.Spatial
		want    float64
		tol     float64
		point   bool
	}{
		{
			name:    "point",
			spatial: model.PointSpatial{Frame: sky.Galactic},
			want:    90,
			tol:     1e-9,
			point:   true,
		},
		{
			name:    "point-outside",
			spatial: model.PointSpatial{Lon: 10, Frame: sky.Galactic},
			want:    0,
			tol:     1e-12,
			point:   true,
		},
		{
			name:    "gauss",
			spatial: model.GaussianSpatial{Sigma: 0.2, Frame: sky.Galactic},
			want:    90,
			tol:     1,
		},
		{
			name:    "disk",
			spatial: model.DiskSpatial{Lon: 1, Lat: -1, Radius: 0.5, Frame: sky.Galactic},
			want:    90,
			tol:     4,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ds := newDataset(t, &model.SkyModel{Label: tc.name, Spatial: tc.spatial, Spectral: pl})
			ev, ok := ds.Evaluator(tc.name)
			if !ok {
				t.Fatalf("could not find evaluator")
			}
			if ev.Dataset() != ds {
				t.Fatalf("invalid evaluator dataset")
			}

			cube, err := ev.ComputeNpred()
			if err != nil {
				t.Fatalf("could not compute npred: %+v", err)
			}
			if got := cube.Sum(); math.Abs(got-tc.want) > tc.tol {
				t.Fatalf("invalid npred: got=%v, want=%v", got, tc.want)
			}
			if _, ok := cube.Spatial.(geom.PointRegion); ok != tc.point {
				t.Fatalf("invalid spatial support %T", cube.Spatial)
			}
			for _, v := range cube.Data {
				if v < 0 || math.IsNaN(v) {
					t.Fatalf("invalid npred bin value %v", v)
				}
			}
		})
	}
}

func TestComputeNpredErrors(t *testing.T) {
	pl := model.PowerLaw{Amplitude: 1e-11, Index: 2}
	pt := model.PointSpatial{Frame: sky.Galactic}

	ds := newDataset(t,
		&model.SkyModel{Label: "no-spatial", Spectral: pl},
		&model.SkyModel{Label: "no-spectral", Spatial: pt},
	)
	for _, name := range []string{"no-spatial", "no-spectral"} {
		ev, _ := ds.Evaluator(name)
		_, err := ev.ComputeNpred()
		if !xerrors.Is(err, ErrIncomplete) {
			t.Fatalf("%s: expected ErrIncomplete, got: %+v", name, err)
		}
	}

	ds = newDataset(t, &model.SkyModel{Label: "src", Spatial: pt, Spectral: pl})
	ds.Exposure = nil
	ev, _ := ds.Evaluator("src")
	_, err := ev.ComputeNpred()
	if !xerrors.Is(err, ErrNoExposure) {
		t.Fatalf("expected ErrNoExposure, got: %+v", err)
	}

	ds = newDataset(t, &model.SkyModel{Label: "src", Spatial: pt, Spectral: pl})
	ds.GTI = &obs.GTI{}
	ev, _ = ds.Evaluator("src")
	_, err = ev.ComputeNpred()
	if !xerrors.Is(err, obs.ErrEmptyGTI) {
		t.Fatalf("expected ErrEmptyGTI, got: %+v", err)
	}
}

func TestEvaluators(t *testing.T) {
	var (
		pl  = model.PowerLaw{Amplitude: 1e-11, Index: 2}
		pt  = model.PointSpatial{Frame: sky.Galactic}
		bkg = &model.Background{Label: "test-bkg", Dataset: "test", Norm: 2}
	)
	ds := newDataset(t,
		&model.SkyModel{Label: "a", Spatial: pt, Spectral: pl},
		bkg,
		&model.SkyModel{Label: "b", Spatial: pt, Spectral: pl, Datasets: []string{"other"}},
		&model.SkyModel{Label: "c", Spatial: pt, Spectral: pl, Datasets: []string{"other", "test"}},
	)

	evs := ds.Evaluators()
	if got, want := len(evs), 2; got != want {
		t.Fatalf("invalid number of evaluators: got=%d, want=%d", got, want)
	}
	for i, name := range []string{"a", "c"} {
		if got := evs[i].Model.Name(); got != name {
			t.Fatalf("invalid evaluator %d: got=%q, want=%q", i, got, name)
		}
	}
	if _, ok := ds.Evaluator("b"); ok {
		t.Fatalf("model b should not apply to dataset test")
	}
	if got := ds.BackgroundModel(); got != bkg {
		t.Fatalf("invalid background model: %+v", got)
	}

	ds.Models = nil
	if got, want := ds.BackgroundModel().Name(), "test-bkg"; got != want {
		t.Fatalf("invalid default background model: got=%q, want=%q", got, want)
	}
}

func TestNpredBackground(t *testing.T) {
	ds := newDataset(t)

	cube, err := ds.NpredBackground()
	if err != nil {
		t.Fatalf("could not compute background: %+v", err)
	}
	if cube != nil {
		t.Fatalf("expected no background cube")
	}

	ds.Background = geom.NewMap(ds.Geom, ds.Geom.Energy)
	ds.Background.Fill(1e-3)
	ds.Models = model.Models{&model.Background{Label: "test-bkg", Dataset: "test", Norm: 2}}

	cube, err = ds.NpredBackground()
	if err != nil {
		t.Fatalf("could not compute background: %+v", err)
	}
	if got, want := cube.Sum(), 2*ds.Background.Sum(); math.Abs(got-want) > 1e-9*want {
		t.Fatalf("invalid background counts: got=%v, want=%v", got, want)
	}

	ds.Models = model.Models{&model.Background{Label: "test-bkg", Dataset: "test", Norm: 1, Tilt: 1}}
	cube, err = ds.NpredBackground()
	if err != nil {
		t.Fatalf("could not compute background: %+v", err)
	}
	var (
		eax = ds.Geom.Energy
		e0  = cube.At(0, 0, 0, 0)
		e2  = cube.At(2, 0, 0, 0)
	)
	if got, want := e2/e0, eax.Center(0)/eax.Center(2); math.Abs(got-want) > 1e-12 {
		t.Fatalf("invalid background tilt: got=%v, want=%v", got, want)
	}
}

func TestTrueAxis(t *testing.T) {
	ds := newDataset(t)
	if ds.TrueAxis() != ds.Geom.Energy {
		t.Fatalf("true axis should default to the reconstructed one")
	}
	etrue, err := geom.NewAxisFromBounds("energy_true", "TeV", geom.Log, 0.5, 20, 6)
	if err != nil {
		t.Fatalf("could not create axis: %+v", err)
	}
	ds.EnergyTrue = etrue
	if ds.TrueAxis() != etrue {
		t.Fatalf("invalid true axis")
	}

	tax, err := ds.LiveTimeAxis()
	if err != nil {
		t.Fatalf("could not create live time axis: %+v", err)
	}
	if tax.NBin() != 1 || tax.Max() != 1000 {
		t.Fatalf("invalid live time axis: %+v", tax.Edges)
	}
}
