// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evsim // import "github.com/go-daq/evsim"

import (
	"fmt"
	"math"

	"github.com/go-daq/evsim/dataset"
	"github.com/go-daq/evsim/obs"
	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
)

const (
	gadfDoc = "https://github.com/open-gamma-ray-astro/gamma-astro-data-formats"

	defaultCreator  = "evsim"
	defaultObserver = "evsim user"
	defaultOrigin   = "evsim"
)

// Run simulates the event list of an observation of a dataset.
//
// Source events are smeared by the instrument responses of the dataset
// and stacked after the background events. Events are then sorted by
// time, numbered from 1, and only those reconstructed inside the dataset
// geometry are kept.
// Without a pointing, the observation points at the geometry center.
func (s *Sampler) Run(ds *dataset.Dataset, o *obs.Observation) (*EventList, error) {
	if ds.GTI == nil || ds.GTI.Len() == 0 {
		return nil, xerrors.Errorf("evsim: dataset %q: %w", ds.Name, obs.ErrEmptyGTI)
	}
	o = withPointing(ds, o)
	tstart, _ := ds.GTI.TStart()

	s.Msg.Infof("simulating obs_id=%d of dataset %q...", o.ObsID, ds.Name)

	src, reg, err := s.SampleSources(ds)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not sample sources: %w", err)
	}

	bkg, err := s.SampleBackground(ds)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not sample background: %w", err)
	}

	center := o.Pointing.ICRS(tstart)
	s.SamplePSF(ds.PSF, src, center)
	s.SampleEDisp(ds.EDisp, src, center)

	evts := Stack(bkg, src)
	evts.SortByTime()
	for i := range evts.Events {
		evts.Events[i].EventID = int64(i + 1)
	}

	err = s.EventDetCoords(o, evts)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not compute field-of-view coordinates: %w", err)
	}

	meta, err := s.EventListMeta(ds, o, reg)
	if err != nil {
		return nil, xerrors.Errorf("evsim: could not build event list metadata: %w", err)
	}
	evts.Meta = *meta

	n := evts.Len()
	evts.Select(func(evt Event) bool {
		return ds.Geom.Contains(sky.Coord{Lon: evt.RA, Lat: evt.Dec}) &&
			(ds.Geom.Energy == nil || ds.Geom.Energy.Contains(evt.Energy))
	})
	s.Msg.Infof(
		"simulated %d events (sources=%d, background=%d, outside geometry=%d)",
		evts.Len(), src.Len(), bkg.Len(), n-evts.Len(),
	)

	return evts, nil
}

func withPointing(ds *dataset.Dataset, o *obs.Observation) *obs.Observation {
	var out obs.Observation
	if o != nil {
		out = *o
	}
	if out.Pointing == nil {
		out.Pointing = obs.FixedPointing{Pos: ds.Geom.CenterICRS()}
	}
	return &out
}

// EventListMeta builds the metadata of the event list of an observation
// of a dataset, following the GADF event list format.
// The Monte-Carlo identifiers of the background and of the components
// in reg are listed in the MID#####/MMN##### keywords.
func (s *Sampler) EventListMeta(ds *dataset.Dataset, o *obs.Observation, reg *Registry) (*Meta, error) {
	gti := ds.GTI
	if gti == nil || gti.Len() == 0 {
		return nil, obs.ErrEmptyGTI
	}
	o = withPointing(ds, o)

	var (
		meta      = new(Meta)
		tstart, _ = gti.TStart()
		tstop, _  = gti.TStop()
		ontime    = gti.Ontime()
		deadc     = o.DeadTimeFactor()
		livetime  = o.Livetime
		ref       = gti.Ref
		pnt       = o.Pointing.ICRS(tstart)
	)
	if livetime <= 0 {
		livetime = ontime * deadc
	}

	meta.Set("HDUCLASS", "GADF")
	meta.Set("HDUDOC", gadfDoc)
	meta.Set("HDUVERS", "0.2")
	meta.Set("HDUCLAS1", "EVENTS")
	meta.Set("EXTNAME", "EVENTS")
	meta.SetCard(Card{Name: "OBS_ID", Value: o.ObsID, Comment: "observation identifier"})

	meta.SetCard(Card{Name: "TSTART", Value: tstart, Comment: "s"})
	meta.SetCard(Card{Name: "TSTOP", Value: tstop, Comment: "s"})
	meta.SetCard(Card{Name: "ONTIME", Value: ontime, Comment: "s"})
	meta.SetCard(Card{Name: "LIVETIME", Value: livetime, Comment: "s"})
	meta.Set("DEADC", deadc)
	meta.SetCard(Card{Name: "TELAPSE", Value: tstop - tstart, Comment: "s"})

	meta.SetCard(Card{Name: "RA_PNT", Value: pnt.Lon, Comment: "deg"})
	meta.SetCard(Card{Name: "DEC_PNT", Value: pnt.Lat, Comment: "deg"})
	if o.Location != nil {
		alt, az := sky.AltAz(pnt, *o.Location, ref.Time(tstart))
		meta.SetCard(Card{Name: "ALT_PNT", Value: alt, Comment: "deg"})
		meta.SetCard(Card{Name: "AZ_PNT", Value: az, Comment: "deg"})
	}
	meta.SetCard(Card{Name: "RA_OBJ", Value: pnt.Lon, Comment: "deg"})
	meta.SetCard(Card{Name: "DEC_OBJ", Value: pnt.Lat, Comment: "deg"})
	meta.Set("EQUINOX", "J2000")
	meta.Set("RADECSYS", "icrs")

	meta.Set("CREATOR", orDefault(s.Cfg.Creator, defaultCreator))
	meta.Set("EUNIT", "TeV")
	meta.Set("EVTVER", "")
	meta.Set("OBSERVER", orDefault(s.Cfg.Observer, defaultObserver))

	meta.Set("DSTYP1", "TIME")
	meta.Set("DSUNI1", "s")
	meta.Set("DSVAL1", "TABLE")
	meta.Set("DSREF1", ":GTI")
	if eax := ds.Geom.Energy; eax != nil {
		meta.Set("DSTYP2", "ENERGY")
		meta.Set("DSUNI2", "TeV")
		meta.Set("DSVAL2", fmt.Sprintf("%v:%v", eax.Min(), eax.Max()))
	}
	var (
		center = ds.Geom.CenterICRS()
		wx, wy = ds.Geom.Width()
	)
	meta.Set("DSTYP3", "POS(RA,DEC)     ")
	meta.Set("DSUNI3", "deg             ")
	meta.Set("DSVAL3", fmt.Sprintf("CIRCLE(%v,%v,%v)", center.Lon, center.Lat, 0.5*math.Max(wx, wy)))
	meta.Set("NDSKEYS", " 3 ")

	meta.Set("MJDREFI", ref.MJDI)
	meta.Set("MJDREFF", ref.MJDF)
	meta.Set("TIMEUNIT", "s")
	meta.Set("TIMESYS", orDefault(ref.Scale, "tt"))
	meta.Set("TIMEREF", "LOCAL")
	var (
		beg = ref.Time(tstart).UTC()
		end = ref.Time(tstop).UTC()
	)
	meta.Set("DATE-OBS", beg.Format("2006-01-02"))
	meta.Set("TIME-OBS", beg.Format("15:04:05"))
	meta.Set("DATE-END", end.Format("2006-01-02"))
	meta.Set("TIME-END", end.Format("15:04:05"))
	meta.Set("CONV_DEP", int64(0))
	meta.Set("CONV_RA", int64(0))
	meta.Set("CONV_DEC", int64(0))

	meta.Set(fmt.Sprintf("MID%05d", BackgroundID), int64(BackgroundID))
	meta.Set(fmt.Sprintf("MMN%05d", BackgroundID), ds.BackgroundModel().Name())
	if reg != nil {
		for _, e := range reg.Entries {
			meta.Set(fmt.Sprintf("MID%05d", e.ID), e.ID)
			meta.Set(fmt.Sprintf("MMN%05d", e.ID), e.Name)
		}
	}
	meta.Set("NMCIDS", int64(1+reg.Len()))

	meta.Set("ORIGIN", orDefault(s.Cfg.Origin, defaultOrigin))
	meta.Set("TELESCOP", o.Telescope)
	meta.Set("INSTRUME", o.Instrument)
	meta.Set("N_TELS", o.NTels)
	meta.Set("TELLIST", o.TelList)

	return meta, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
