// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sky // import "github.com/go-daq/evsim/sky"

import (
	"math"
	"time"
)

// Location is a site on Earth.
type Location struct {
	Lon    float64 // geodetic longitude, east positive (deg)
	Lat    float64 // geodetic latitude (deg)
	Height float64 // height above the ellipsoid (m)
}

const (
	unixMJD = 40587.0 // MJD of 1970-01-01T00:00:00
	j2000JD = 2451545.0
)

// MJD returns the modified julian date of t.
func MJD(t time.Time) float64 {
	return unixMJD + float64(t.UnixNano())/86400e9
}

// TimeFromMJD converts a modified julian date to a time value in UTC.
func TimeFromMJD(mjd float64) time.Time {
	days := mjd - unixMJD
	sec := math.Floor(days * 86400)
	nsec := math.Round((days*86400 - sec) * 1e9)
	return time.Unix(int64(sec), int64(nsec)).UTC()
}

// GMST returns the Greenwich mean sidereal time of t, in degrees.
func GMST(t time.Time) float64 {
	jd := MJD(t) + 2400000.5
	d := jd - j2000JD
	tc := d / 36525
	gmst := 280.46061837 + 360.98564736629*d + 0.000387933*tc*tc - tc*tc*tc/38710000
	return wrap360(gmst)
}

// AltAz returns the altitude and azimuth (north through east) of the ICRS
// position c seen from loc at time t.
//
// Precession, nutation and refraction are neglected.
func AltAz(c Coord, loc Location, t time.Time) (alt, az float64) {
	lst := GMST(t) + loc.Lon
	ha := (lst - c.Lon) * deg2rad

	sd, cd := math.Sincos(c.Lat * deg2rad)
	sp, cp := math.Sincos(loc.Lat * deg2rad)
	sh, ch := math.Sincos(ha)

	salt := clamp(sp*sd+cp*cd*ch, -1, 1)
	alt = math.Asin(salt) * rad2deg
	az = math.Atan2(-sh*cd, cp*sd-sp*cd*ch) * rad2deg
	return alt, wrap360(az)
}
