// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sky provides spherical sky coordinates, frame conversions and
// the horizontal and field-of-view frames used by event simulations.
//
// All angles are expressed in degrees.
package sky // import "github.com/go-daq/evsim/sky"

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/xerrors"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// Frame identifies a celestial reference frame.
type Frame uint8

const (
	ICRS Frame = iota
	Galactic
)

func (f Frame) String() string {
	switch f {
	case ICRS:
		return "icrs"
	case Galactic:
		return "galactic"
	default:
		panic(fmt.Errorf("sky: invalid frame value %d", uint8(f)))
	}
}

// ParseFrame decodes a frame name.
func ParseFrame(s string) (Frame, error) {
	switch strings.ToLower(s) {
	case "icrs", "fk5", "radec", "":
		return ICRS, nil
	case "galactic", "gal":
		return Galactic, nil
	}
	return 0, xerrors.Errorf("sky: unknown frame %q", s)
}

// Coord is a position on the sphere.
type Coord struct {
	Lon float64 // longitude (RA or l), in [0, 360)
	Lat float64 // latitude (Dec or b), in [-90, 90]
}

func (c Coord) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Lon, c.Lat)
}

// ICRS to galactic rotation matrix (J2000).
var icrs2gal = [3][3]float64{
	{-0.0548755604162154, -0.8734370902348850, -0.4838350155487132},
	{+0.4941094278755837, -0.4448296299600112, +0.7469822444972189},
	{-0.8676661490190047, -0.1980763734312015, +0.4559837761750669},
}

type vec [3]float64

func (c Coord) vec() vec {
	lon := c.Lon * deg2rad
	lat := c.Lat * deg2rad
	return vec{
		math.Cos(lat) * math.Cos(lon),
		math.Cos(lat) * math.Sin(lon),
		math.Sin(lat),
	}
}

func (v vec) coord() Coord {
	lon := math.Atan2(v[1], v[0]) * rad2deg
	lat := math.Atan2(v[2], math.Hypot(v[0], v[1])) * rad2deg
	return Coord{Lon: wrap360(lon), Lat: lat}
}

func wrap360(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	if lon >= 360 {
		lon = 0
	}
	return lon
}

func wrap180(lon float64) float64 {
	lon = wrap360(lon)
	if lon >= 180 {
		lon -= 360
	}
	return lon
}

// Transform converts c from frame src to frame dst.
func Transform(c Coord, src, dst Frame) Coord {
	if src == dst {
		return c
	}
	v := c.vec()
	var o vec
	switch {
	case src == ICRS && dst == Galactic:
		for i := range o {
			o[i] = icrs2gal[i][0]*v[0] + icrs2gal[i][1]*v[1] + icrs2gal[i][2]*v[2]
		}
	case src == Galactic && dst == ICRS:
		for i := range o {
			o[i] = icrs2gal[0][i]*v[0] + icrs2gal[1][i]*v[1] + icrs2gal[2][i]*v[2]
		}
	default:
		panic(xerrors.Errorf("sky: invalid frame transform %v -> %v", src, dst))
	}
	return o.coord()
}

// Separation returns the angular distance between a and b.
func Separation(a, b Coord) float64 {
	// Vincenty formula, stable for small and antipodal separations.
	dlon := (b.Lon - a.Lon) * deg2rad
	sa, ca := math.Sincos(a.Lat * deg2rad)
	sb, cb := math.Sincos(b.Lat * deg2rad)
	sd, cd := math.Sincos(dlon)

	num1 := cb * sd
	num2 := ca*sb - sa*cb*cd
	den := sa*sb + ca*cb*cd
	return math.Atan2(math.Hypot(num1, num2), den) * rad2deg
}

// PositionAngle returns the position angle of b with respect to a,
// measured from north through east.
func PositionAngle(a, b Coord) float64 {
	dlon := (b.Lon - a.Lon) * deg2rad
	sa, ca := math.Sincos(a.Lat * deg2rad)
	sb, cb := math.Sincos(b.Lat * deg2rad)
	y := math.Sin(dlon) * cb
	x := ca*sb - sa*cb*math.Cos(dlon)
	return wrap360(math.Atan2(y, x) * rad2deg)
}

// Offset returns the position reached from c when moving by sep degrees
// along the position angle pa.
func Offset(c Coord, pa, sep float64) Coord {
	lat1 := c.Lat * deg2rad
	r := sep * deg2rad
	p := pa * deg2rad

	sl, cl := math.Sincos(lat1)
	sr, cr := math.Sincos(r)
	sp, cp := math.Sincos(p)

	lat2 := math.Asin(clamp(sl*cr+cl*sr*cp, -1, 1))
	dlon := math.Atan2(sp*sr*cl, cr-sl*math.Sin(lat2))
	return Coord{
		Lon: wrap360(c.Lon + dlon*rad2deg),
		Lat: lat2 * rad2deg,
	}
}

// ToOffset expresses c in the offset frame centred on origin: the
// origin maps to (0, 0), longitudes are wrapped to [-180, 180).
func ToOffset(c, origin Coord) (lon, lat float64) {
	v := c.vec()
	a := origin.Lon * deg2rad
	d := origin.Lat * deg2rad
	sa, ca := math.Sincos(a)
	sd, cd := math.Sincos(d)

	x := ca*v[0] + sa*v[1]
	y := -sa*v[0] + ca*v[1]
	z := v[2]

	xx := cd*x + sd*z
	zz := -sd*x + cd*z

	o := vec{xx, y, zz}.coord()
	return wrap180(o.Lon), o.Lat
}

// FromOffset is the inverse of ToOffset.
func FromOffset(lon, lat float64, origin Coord) Coord {
	v := Coord{Lon: wrap360(lon), Lat: lat}.vec()
	a := origin.Lon * deg2rad
	d := origin.Lat * deg2rad
	sa, ca := math.Sincos(a)
	sd, cd := math.Sincos(d)

	x := cd*v[0] - sd*v[2]
	y := v[1]
	z := sd*v[0] + cd*v[2]

	return vec{
		ca*x - sa*y,
		sa*x + ca*y,
		z,
	}.coord()
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
