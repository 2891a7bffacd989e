// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obs // import "github.com/go-daq/evsim/obs"

import (
	"math"
	"time"

	"github.com/go-daq/evsim/sky"
	"golang.org/x/xerrors"
)

var (
	ErrEmptyGTI = xerrors.New("obs: empty good time intervals")
)

// Epoch is a reference time, split in integer and fractional MJD parts
// as in the MJDREFI/MJDREFF FITS keywords.
type Epoch struct {
	MJDI  int64
	MJDF  float64
	Scale string // time scale (tt, utc, ...)
}

// NewEpoch creates an epoch from a time value.
func NewEpoch(t time.Time, scale string) Epoch {
	mjd := sky.MJD(t)
	i := math.Floor(mjd)
	return Epoch{MJDI: int64(i), MJDF: mjd - i, Scale: scale}
}

// MJD returns the epoch as a modified julian date.
func (ep Epoch) MJD() float64 { return float64(ep.MJDI) + ep.MJDF }

// Time returns the time value t seconds after the epoch.
func (ep Epoch) Time(t float64) time.Time {
	base := sky.TimeFromMJD(float64(ep.MJDI))
	off := ep.MJDF*86400 + t
	return base.Add(time.Duration(math.Round(off * 1e9)))
}

// GTI is a list of disjoint good time intervals, expressed in seconds
// since the reference epoch and sorted in time.
type GTI struct {
	Start []float64
	Stop  []float64
	Ref   Epoch
}

// NewGTI creates a list of good time intervals.
func NewGTI(ref Epoch, start, stop []float64) (*GTI, error) {
	if len(start) != len(stop) {
		return nil, xerrors.Errorf("obs: GTI start/stop length mismatch (%d != %d)", len(start), len(stop))
	}
	for i := range start {
		if !(stop[i] > start[i]) {
			return nil, xerrors.Errorf("obs: GTI interval %d is empty or reversed [%v, %v]", i, start[i], stop[i])
		}
		if i > 0 && start[i] < stop[i-1] {
			return nil, xerrors.Errorf("obs: GTI intervals %d and %d overlap or are not sorted", i-1, i)
		}
	}
	return &GTI{
		Start: append([]float64(nil), start...),
		Stop:  append([]float64(nil), stop...),
		Ref:   ref,
	}, nil
}

// Len returns the number of intervals.
func (gti *GTI) Len() int { return len(gti.Start) }

// TStart returns the start of the first interval.
func (gti *GTI) TStart() (float64, error) {
	if gti == nil || len(gti.Start) == 0 {
		return 0, ErrEmptyGTI
	}
	return gti.Start[0], nil
}

// TStop returns the end of the last interval.
func (gti *GTI) TStop() (float64, error) {
	if gti == nil || len(gti.Stop) == 0 {
		return 0, ErrEmptyGTI
	}
	return gti.Stop[len(gti.Stop)-1], nil
}

// Ontime returns the summed duration of all intervals.
func (gti *GTI) Ontime() float64 {
	if gti == nil {
		return 0
	}
	var sum float64
	for i := range gti.Start {
		sum += gti.Stop[i] - gti.Start[i]
	}
	return sum
}

// MapTime converts a live time (seconds elapsed since the start of the
// first interval, not counting the gaps) to a time relative to the
// reference epoch.
// Live times beyond the total ontime are extrapolated from the last
// interval.
func (gti *GTI) MapTime(live float64) float64 {
	n := len(gti.Start)
	acc := 0.0
	for i := 0; i < n; i++ {
		d := gti.Stop[i] - gti.Start[i]
		if live < acc+d || i == n-1 {
			return gti.Start[i] + (live - acc)
		}
		acc += d
	}
	panic(ErrEmptyGTI)
}

// Intervals returns the live-time bounds of each interval.
func (gti *GTI) Intervals() [][2]float64 {
	out := make([][2]float64, len(gti.Start))
	acc := 0.0
	for i := range gti.Start {
		d := gti.Stop[i] - gti.Start[i]
		out[i] = [2]float64{acc, acc + d}
		acc += d
	}
	return out
}

// Split slices every interval into sub-intervals of at most dt seconds
// and returns their edges in live time.
// No sub-interval spans the gap between two intervals.
func (gti *GTI) Split(dt float64) ([]float64, error) {
	if gti == nil || len(gti.Start) == 0 {
		return nil, ErrEmptyGTI
	}
	if !(dt > 0) {
		return nil, xerrors.Errorf("obs: invalid time resolution %v", dt)
	}
	edges := []float64{0}
	for _, iv := range gti.Intervals() {
		d := iv[1] - iv[0]
		n := int(math.Ceil(d/dt - 1e-9))
		if n < 1 {
			n = 1
		}
		for j := 1; j <= n; j++ {
			v := iv[0] + d*float64(j)/float64(n)
			if j == n {
				v = iv[1]
			}
			edges = append(edges, v)
		}
	}
	return edges, nil
}
