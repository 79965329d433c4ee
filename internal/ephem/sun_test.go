package ephem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/framevel/internal/units"
)

func TestSunGeocentric_Distance(t *testing.T) {
	for day := 0.0; day < 366; day += 15 {
		r := SunGeocentric(day*units.Day).Norm() / units.AU
		assert.InDelta(t, 1.0, r, 0.0175, "day %v", day)
	}
}

func TestSunGeocentric_J2000(t *testing.T) {
	// Near the December solstice: ecliptic longitude about 280°, declination
	// close to -23°.
	sun := SunGeocentric(0)
	ra := math.Atan2(sun[1], sun[0]) / units.Degree
	dec := math.Asin(sun[2]/sun.Norm()) / units.Degree

	assert.InDelta(t, -78.7, ra, 0.5)
	assert.InDelta(t, -23.0, dec, 0.2)
}

func TestEarthBarycentric_OppositeSun(t *testing.T) {
	tt := 17.25 * units.JulianYear
	assert.Equal(t, SunGeocentric(tt).Scale(-1), EarthBarycentric(tt))
}

func TestEarthBarycentric_OrbitalSpeed(t *testing.T) {
	const h = 60.0
	for _, day := range []float64{0, 91, 182, 273} {
		tt := day * units.Day
		v := EarthBarycentric(tt + h/2).Sub(EarthBarycentric(tt - h/2)).Scale(1 / h)
		assert.InDelta(t, 29.8, v.Norm(), 0.6, "day %v", day)
	}
}
