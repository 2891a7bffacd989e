// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scenario builds datasets and observations from a scenario
// configuration.
package scenario // import "github.com/go-daq/evsim/scenario"

import (
	"time"

	"github.com/go-daq/evsim/config"
	"github.com/go-daq/evsim/dataset"
	"github.com/go-daq/evsim/geom"
	"github.com/go-daq/evsim/irf"
	"github.com/go-daq/evsim/model"
	"github.com/go-daq/evsim/obs"
	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
)

// Build creates the dataset and the observation described by cfg.
func Build(cfg config.Scenario) (*dataset.Dataset, *obs.Observation, error) {
	o, gti, err := Observation(cfg.Observation)
	if err != nil {
		return nil, nil, err
	}

	ds, err := Dataset(cfg.Dataset, gti, o.DeadTimeFactor())
	if err != nil {
		return nil, nil, err
	}

	err = fillBackground(ds, cfg.Background, gti.Ontime()*o.DeadTimeFactor())
	if err != nil {
		return nil, nil, err
	}

	for _, src := range cfg.Sources {
		m, err := SkyModel(src)
		if err != nil {
			return nil, nil, err
		}
		ds.Models = append(ds.Models, m)
	}
	ds.Models = append(ds.Models, &model.Background{
		Label:   ds.Name + "-bkg",
		Dataset: ds.Name,
		Norm:    cfg.Background.Norm,
		Tilt:    cfg.Background.Tilt,
	})

	return ds, o, nil
}

// Observation creates the observation and its good time intervals.
func Observation(cfg config.Observation) (*obs.Observation, *obs.GTI, error) {
	t0, err := time.Parse(time.RFC3339, cfg.Epoch)
	if err != nil {
		return nil, nil, xerrors.Errorf("scenario: could not parse epoch %q: %w", cfg.Epoch, err)
	}

	gti, err := obs.NewGTI(obs.NewEpoch(t0, "tt"), cfg.Start, cfg.Stop)
	if err != nil {
		return nil, nil, xerrors.Errorf("scenario: could not create GTI: %w", err)
	}
	if gti.Len() == 0 {
		return nil, nil, xerrors.Errorf("scenario: observation %d: %w", cfg.ObsID, obs.ErrEmptyGTI)
	}

	frame, err := sky.ParseFrame(cfg.Frame)
	if err != nil {
		return nil, nil, xerrors.Errorf("scenario: invalid pointing frame: %w", err)
	}

	o := &obs.Observation{
		ObsID: cfg.ObsID,
		Pointing: obs.FixedPointing{
			Pos: sky.Transform(sky.Coord{Lon: cfg.Lon, Lat: cfg.Lat}, frame, sky.ICRS),
		},
		DeadC:      cfg.DeadC,
		PosAngle:   cfg.PosAngle,
		Telescope:  cfg.Telescope,
		Instrument: cfg.Instrument,
	}
	if loc := cfg.Location; loc != nil {
		o.Location = &sky.Location{Lon: loc.Lon, Lat: loc.Lat, Height: loc.Height}
	}

	return o, gti, nil
}

// Dataset creates a dataset with a flat exposure and, when configured,
// Gaussian instrument responses.
// The dataset has no background nor models yet.
func Dataset(cfg config.Dataset, gti *obs.GTI, deadc float64) (*dataset.Dataset, error) {
	frame, err := sky.ParseFrame(cfg.Frame)
	if err != nil {
		return nil, xerrors.Errorf("scenario: invalid dataset frame: %w", err)
	}

	ereco, err := geom.NewAxisFromBounds("energy", "TeV", geom.Log, cfg.EMin, cfg.EMax, cfg.NBin)
	if err != nil {
		return nil, xerrors.Errorf("scenario: could not create energy axis: %w", err)
	}

	etrue := ereco
	if cfg.ETrueMin > 0 && cfg.ETrueMax > 0 {
		nbin := cfg.ETrueNBin
		if nbin <= 0 {
			nbin = cfg.NBin
		}
		etrue, err = geom.NewAxisFromBounds("energy_true", "TeV", geom.Log, cfg.ETrueMin, cfg.ETrueMax, nbin)
		if err != nil {
			return nil, xerrors.Errorf("scenario: could not create true energy axis: %w", err)
		}
	}

	g, err := geom.NewGeom(sky.Coord{Lon: cfg.Lon, Lat: cfg.Lat}, frame, cfg.BinSz, cfg.Width, ereco)
	if err != nil {
		return nil, xerrors.Errorf("scenario: could not create geometry: %w", err)
	}

	exposure := geom.NewMap(g, etrue)
	exposure.Fill(cfg.AEff * gti.Ontime() * deadc)

	ds := &dataset.Dataset{
		Name:       cfg.Name,
		Geom:       g,
		EnergyTrue: etrue,
		Exposure:   exposure,
		GTI:        gti,
	}
	if cfg.PSFSigma > 0 {
		ds.PSF = irf.GaussPSF{Sigma: cfg.PSFSigma}
	}
	if cfg.EDispSigma > 0 || cfg.EDispBias != 0 {
		ds.EDisp = irf.GaussEDisp{Bias: cfg.EDispBias, Sigma: cfg.EDispSigma}
	}

	return ds, nil
}

// fillBackground sets a flat background of the given rate, integrated
// over the live time, the pixel solid angles and the energy bins.
func fillBackground(ds *dataset.Dataset, cfg config.Background, livetime float64) error {
	switch {
	case cfg.Rate < 0:
		return xerrors.Errorf("scenario: invalid negative background rate %v", cfg.Rate)
	case cfg.Rate == 0:
		return nil
	}

	var (
		axis = ds.Geom.Energy
		bkg  = geom.NewMap(ds.Geom, axis)
	)
	for e := 0; e < axis.NBin(); e++ {
		de := axis.Width(e)
		for y := 0; y < ds.Geom.NY; y++ {
			v := cfg.Rate * livetime * ds.Geom.SolidAngle(y) * de
			for x := 0; x < ds.Geom.NX; x++ {
				bkg.Set(e, y, x, v)
			}
		}
	}
	ds.Background = bkg
	return nil
}

// SkyModel creates the sky model described by cfg.
func SkyModel(cfg config.Source) (*model.SkyModel, error) {
	spatial, err := spatialModel(cfg.Spatial)
	if err != nil {
		return nil, xerrors.Errorf("scenario: source %q: %w", cfg.Name, err)
	}

	spectral, err := spectralModel(cfg.Spectral)
	if err != nil {
		return nil, xerrors.Errorf("scenario: source %q: %w", cfg.Name, err)
	}

	temporal, err := temporalModel(cfg.Temporal)
	if err != nil {
		return nil, xerrors.Errorf("scenario: source %q: %w", cfg.Name, err)
	}

	return &model.SkyModel{
		Label:    cfg.Name,
		Spatial:  spatial,
		Spectral: spectral,
		Temporal: temporal,
	}, nil
}

func spatialModel(cfg config.Spatial) (model.Spatial, error) {
	frame, err := sky.ParseFrame(cfg.Frame)
	if err != nil {
		return nil, xerrors.Errorf("invalid spatial frame: %w", err)
	}

	switch cfg.Type {
	case "point":
		return model.PointSpatial{Lon: cfg.Lon, Lat: cfg.Lat, Frame: frame}, nil
	case "gauss":
		if !(cfg.Sigma > 0) {
			return nil, xerrors.Errorf("invalid gaussian width %v", cfg.Sigma)
		}
		return model.GaussianSpatial{Lon: cfg.Lon, Lat: cfg.Lat, Sigma: cfg.Sigma, Frame: frame}, nil
	case "disk":
		if !(cfg.Radius > 0) {
			return nil, xerrors.Errorf("invalid disk radius %v", cfg.Radius)
		}
		return model.DiskSpatial{Lon: cfg.Lon, Lat: cfg.Lat, Radius: cfg.Radius, Frame: frame}, nil
	default:
		return nil, xerrors.Errorf("unknown spatial model %q", cfg.Type)
	}
}

func spectralModel(cfg config.Spectral) (model.Spectral, error) {
	switch cfg.Type {
	case "pl":
		return model.PowerLaw{Amplitude: cfg.Amplitude, Index: cfg.Index, Reference: cfg.Reference}, nil
	case "ecpl":
		return model.ExpCutoffPowerLaw{
			Amplitude: cfg.Amplitude,
			Index:     cfg.Index,
			Reference: cfg.Reference,
			Lambda:    cfg.Lambda,
		}, nil
	case "const":
		return model.ConstantSpectral{Const: cfg.Amplitude}, nil
	default:
		return nil, xerrors.Errorf("unknown spectral model %q", cfg.Type)
	}
}

func temporalModel(cfg config.Temporal) (model.Temporal, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "const":
		return model.ConstantTemporal{}, nil
	case "expdecay":
		if !(cfg.Tau > 0) {
			return nil, xerrors.Errorf("invalid decay time %v", cfg.Tau)
		}
		return model.ExpDecay{T0: cfg.T0, Tau: cfg.Tau}, nil
	case "lightcurve":
		lc, err := model.NewLightCurve(cfg.Times, cfg.Norms)
		if err != nil {
			return nil, err
		}
		return lc, nil
	default:
		return nil, xerrors.Errorf("unknown temporal model %q", cfg.Type)
	}
}
