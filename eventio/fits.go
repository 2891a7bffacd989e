// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eventio writes simulated event lists to FITS files, following
// the GADF event list format.
package eventio // import "github.com/go-daq/evsim/eventio"

import (
	"io"
	"os"

	"github.com/astrogo/fitsio"
	"github.com/go-daq/evsim"
	"github.com/go-daq/evsim/obs"
	"golang.org/x/xerrors"
)

var eventCols = []fitsio.Column{
	{Name: "EVENT_ID", Format: "K"},
	{Name: "TIME", Format: "D", Unit: "s"},
	{Name: "ENERGY", Format: "D", Unit: "TeV"},
	{Name: "RA", Format: "D", Unit: "deg"},
	{Name: "DEC", Format: "D", Unit: "deg"},
	{Name: "ENERGY_TRUE", Format: "D", Unit: "TeV"},
	{Name: "RA_TRUE", Format: "D", Unit: "deg"},
	{Name: "DEC_TRUE", Format: "D", Unit: "deg"},
	{Name: "DETX", Format: "D", Unit: "deg"},
	{Name: "DETY", Format: "D", Unit: "deg"},
	{Name: "MC_ID", Format: "K"},
}

var gtiCols = []fitsio.Column{
	{Name: "START", Format: "D", Unit: "s"},
	{Name: "STOP", Format: "D", Unit: "s"},
}

// reserved keywords are set by the table itself.
var reserved = map[string]bool{
	"XTENSION": true,
	"BITPIX":   true,
	"NAXIS":    true,
	"NAXIS1":   true,
	"NAXIS2":   true,
	"PCOUNT":   true,
	"GCOUNT":   true,
	"TFIELDS":  true,
	"EXTNAME":  true,
}

// WriteFile writes the event list and its good time intervals to the
// named FITS file.
func WriteFile(fname string, evts *evsim.EventList, gti *obs.GTI) error {
	f, err := os.Create(fname)
	if err != nil {
		return xerrors.Errorf("eventio: could not create file %q: %w", fname, err)
	}
	defer f.Close()

	err = WriteFITS(f, evts, gti)
	if err != nil {
		return err
	}

	err = f.Close()
	if err != nil {
		return xerrors.Errorf("eventio: could not close file %q: %w", fname, err)
	}
	return nil
}

// WriteFITS writes a FITS stream with an empty primary HDU, an EVENTS
// binary table holding the event list and a GTI binary table.
func WriteFITS(w io.Writer, evts *evsim.EventList, gti *obs.GTI) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return xerrors.Errorf("eventio: could not create FITS stream: %w", err)
	}
	defer f.Close()

	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		return xerrors.Errorf("eventio: could not create primary HDU: %w", err)
	}
	err = f.Write(phdu)
	if err != nil {
		return xerrors.Errorf("eventio: could not write primary HDU: %w", err)
	}

	err = writeEvents(f, evts)
	if err != nil {
		return err
	}

	err = writeGTI(f, gti)
	if err != nil {
		return err
	}

	err = f.Close()
	if err != nil {
		return xerrors.Errorf("eventio: could not close FITS stream: %w", err)
	}
	return nil
}

func writeEvents(f *fitsio.File, evts *evsim.EventList) error {
	tbl, err := fitsio.NewTable("EVENTS", eventCols, fitsio.BINARY_TBL)
	if err != nil {
		return xerrors.Errorf("eventio: could not create EVENTS table: %w", err)
	}
	defer tbl.Close()

	cards := make([]fitsio.Card, 0, evts.Meta.Len())
	for _, c := range evts.Meta.Cards() {
		if reserved[c.Name] {
			continue
		}
		cards = append(cards, card(c))
	}
	err = tbl.Header().Append(cards...)
	if err != nil {
		return xerrors.Errorf("eventio: could not append EVENTS header: %w", err)
	}

	for _, evt := range evts.Events {
		err = tbl.Write(
			&evt.EventID, &evt.Time,
			&evt.Energy, &evt.RA, &evt.Dec,
			&evt.EnergyTrue, &evt.RATrue, &evt.DecTrue,
			&evt.DetX, &evt.DetY,
			&evt.MCID,
		)
		if err != nil {
			return xerrors.Errorf("eventio: could not write event %d: %w", evt.EventID, err)
		}
	}

	err = f.Write(tbl)
	if err != nil {
		return xerrors.Errorf("eventio: could not write EVENTS table: %w", err)
	}
	return nil
}

func writeGTI(f *fitsio.File, gti *obs.GTI) error {
	tbl, err := fitsio.NewTable("GTI", gtiCols, fitsio.BINARY_TBL)
	if err != nil {
		return xerrors.Errorf("eventio: could not create GTI table: %w", err)
	}
	defer tbl.Close()

	if gti != nil {
		err = tbl.Header().Append(
			fitsio.Card{Name: "HDUCLASS", Value: "GADF"},
			fitsio.Card{Name: "HDUCLAS1", Value: "GTI"},
			fitsio.Card{Name: "MJDREFI", Value: int(gti.Ref.MJDI)},
			fitsio.Card{Name: "MJDREFF", Value: gti.Ref.MJDF},
			fitsio.Card{Name: "TIMEUNIT", Value: "s"},
			fitsio.Card{Name: "TIMESYS", Value: gti.Ref.Scale},
			fitsio.Card{Name: "TIMEREF", Value: "LOCAL"},
		)
		if err != nil {
			return xerrors.Errorf("eventio: could not append GTI header: %w", err)
		}

		for i := range gti.Start {
			err = tbl.Write(&gti.Start[i], &gti.Stop[i])
			if err != nil {
				return xerrors.Errorf("eventio: could not write GTI %d: %w", i, err)
			}
		}
	}

	err = f.Write(tbl)
	if err != nil {
		return xerrors.Errorf("eventio: could not write GTI table: %w", err)
	}
	return nil
}

func card(c evsim.Card) fitsio.Card {
	v := c.Value
	if i, ok := v.(int64); ok {
		v = int(i)
	}
	return fitsio.Card{Name: c.Name, Value: v, Comment: c.Comment}
}
