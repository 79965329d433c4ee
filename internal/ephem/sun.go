// Package ephem provides a low-precision solar ephemeris.
//
// The formulae are the Astronomical Almanac's low-precision Sun: about 0.01°
// in direction and 1e-4 AU in distance over 1950-2050. They are smooth in time,
// which is what finite differencing needs; they are not meant for astrometry.
package ephem

import (
	"math"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/units"
)

// SunGeocentric returns the geocentric position of the Sun (km) in
// equatorial axes at t seconds since J2000.
func SunGeocentric(t float64) coord.Vec3 {
	n := t / units.Day

	L := (280.460 + 0.9856474*n) * units.Degree
	g := (357.528 + 0.9856003*n) * units.Degree
	lambda := L + (1.915*math.Sin(g)+0.020*math.Sin(2*g))*units.Degree
	r := (1.00014 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g)) * units.AU
	eps := (23.439 - 0.0000004*n) * units.Degree

	sinL, cosL := math.Sincos(lambda)
	sinE, cosE := math.Sincos(eps)
	return coord.Vec3{r * cosL, r * cosE * sinL, r * sinE * sinL}
}

// EarthBarycentric returns the position of the geocenter (km) relative to
// the solar-system barycenter at t seconds since J2000. The Sun's own
// barycentric motion is neglected.
func EarthBarycentric(t float64) coord.Vec3 {
	return SunGeocentric(t).Scale(-1)
}
