// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obs // import "github.com/go-daq/evsim/obs"

import (
	"reflect"
	"testing"
	"time"

	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
)

func TestEpoch(t *testing.T) {
	ep := NewEpoch(time.Date(2000, 1, 1, 0, 1, 4, 184000000, time.UTC), "tt")
	if ep.MJDI != 51544 {
		t.Fatalf("invalid MJDREFI: %d", ep.MJDI)
	}
	if !floats.EqualWithinAbs(ep.MJDF, 0.0007428703684126958, 1e-9) {
		t.Fatalf("invalid MJDREFF: %v", ep.MJDF)
	}
	if got, want := ep.Time(3600).Format("2006-01-02T15:04:05"), "2000-01-01T01:01:04"; got != want {
		t.Fatalf("invalid time: got=%q, want=%q", got, want)
	}
}

func TestGTI(t *testing.T) {
	ref := Epoch{MJDI: 51544, Scale: "tt"}
	gti, err := NewGTI(ref, []float64{0, 200, 500}, []float64{100, 300, 550})
	if err != nil {
		t.Fatalf("could not create GTI: %+v", err)
	}
	if got, want := gti.Ontime(), 250.0; got != want {
		t.Fatalf("invalid ontime: got=%v, want=%v", got, want)
	}
	tstart, _ := gti.TStart()
	tstop, _ := gti.TStop()
	if tstart != 0 || tstop != 550 {
		t.Fatalf("invalid range: [%v, %v]", tstart, tstop)
	}

	for _, tt := range []struct {
		live, want float64
	}{
		{0, 0}, {50, 50}, {100, 200}, {150, 250}, {199.5, 299.5}, {200, 500}, {249, 549}, {250, 550},
	} {
		if got := gti.MapTime(tt.live); got != tt.want {
			t.Fatalf("map(%v): got=%v, want=%v", tt.live, got, tt.want)
		}
	}

	edges, err := gti.Split(40)
	if err != nil {
		t.Fatalf("could not split GTI: %+v", err)
	}
	want := []float64{0, 100.0 / 3, 200.0 / 3, 100, 100 + 100.0/3, 100 + 200.0/3, 200, 225, 250}
	if !floats.EqualApprox(edges, want, 1e-12) {
		t.Fatalf("invalid split:\ngot= %v\nwant=%v", edges, want)
	}

	for _, tt := range []struct {
		start, stop []float64
	}{
		{[]float64{0}, []float64{}},
		{[]float64{10}, []float64{10}},
		{[]float64{0, 50}, []float64{100, 150}},
	} {
		if _, err := NewGTI(ref, tt.start, tt.stop); err == nil {
			t.Fatalf("expected an error for %v %v", tt.start, tt.stop)
		}
	}

	empty := &GTI{Ref: ref}
	if _, err := empty.TStart(); !xerrors.Is(err, ErrEmptyGTI) {
		t.Fatalf("invalid error: %+v", err)
	}
	if _, err := empty.Split(1); !xerrors.Is(err, ErrEmptyGTI) {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestPointing(t *testing.T) {
	fixed := FixedPointing{Pos: sky.Coord{Lon: 83.63, Lat: 22.01}}
	if got := fixed.ICRS(1e6); got != fixed.Pos {
		t.Fatalf("invalid fixed pointing: %v", got)
	}

	track, err := NewTrackPointing(
		[]float64{0, 100},
		[]sky.Coord{{Lon: 10, Lat: 0}, {Lon: 12, Lat: 0}},
	)
	if err != nil {
		t.Fatalf("could not create track: %+v", err)
	}
	mid := track.ICRS(50)
	if !floats.EqualWithinAbs(mid.Lon, 11, 1e-9) || !floats.EqualWithinAbs(mid.Lat, 0, 1e-9) {
		t.Fatalf("invalid mid-track pointing: %v", mid)
	}
	if got := track.ICRS(-5); !reflect.DeepEqual(got, sky.Coord{Lon: 10, Lat: 0}) {
		t.Fatalf("invalid pre-track pointing: %v", got)
	}
	if got := track.ICRS(500); !reflect.DeepEqual(got, sky.Coord{Lon: 12, Lat: 0}) {
		t.Fatalf("invalid post-track pointing: %v", got)
	}

	if _, err := NewTrackPointing([]float64{1, 0}, []sky.Coord{{}, {}}); err == nil {
		t.Fatalf("expected an error for unsorted track")
	}

	var o *Observation
	if got := o.DeadTimeFactor(); got != 1 {
		t.Fatalf("invalid default dead-time factor: %v", got)
	}
}
