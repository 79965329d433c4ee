package builtin

import (
	"fmt"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/frame"
	"github.com/roach88/framevel/internal/units"
)

// North Galactic pole and the Galactic longitude of the north celestial pole,
// FK5 J2000.
const (
	ngpRA     = 192.85948 * units.Degree
	ngpDec    = 27.12825 * units.Degree
	ncpGalLon = 122.932 * units.Degree
)

// GalacticMatrix rotates FK5 J2000 positions into Galactic axes.
func GalacticMatrix() coord.Matrix3 {
	m1 := coord.RotationZ(180*units.Degree - ncpGalLon)
	m2 := coord.RotationY(90*units.Degree - ngpDec)
	m3 := coord.RotationZ(ngpRA)
	return m1.Mul(m2).Mul(m3)
}

// Precession returns the IAU 1976 precession matrix taking positions
// referred to the J2000 mean equator and equinox to those of the epoch
// (seconds since J2000).
func Precession(epoch float64) coord.Matrix3 {
	t := epoch / units.JulianCentury
	t2, t3 := t*t, t*t*t

	zeta := (2306.2181*t + 0.30188*t2 + 0.017998*t3) * units.Arcsecond
	z := (2306.2181*t + 1.09468*t2 + 0.018203*t3) * units.Arcsecond
	theta := (2004.3109*t - 0.42665*t2 - 0.041833*t3) * units.Arcsecond

	return coord.RotationZ(-z).Mul(coord.RotationY(theta)).Mul(coord.RotationZ(-zeta))
}

// fk5ToICRS precesses from the FK5 equinox back to J2000. The FK5/ICRS frame
// bias (tens of mas) is neglected.
func fk5ToICRS(from, _ frame.Frame) (coord.Matrix3, error) {
	eq, err := scalarEpoch(from, AttrEquinox)
	if err != nil {
		return coord.Matrix3{}, err
	}
	return Precession(eq).Transpose(), nil
}

// fk5ToGalactic precesses to J2000 and rotates into Galactic axes.
func fk5ToGalactic(from, _ frame.Frame) (coord.Matrix3, error) {
	eq, err := scalarEpoch(from, AttrEquinox)
	if err != nil {
		return coord.Matrix3{}, err
	}
	return GalacticMatrix().Mul(Precession(eq).Transpose()), nil
}

func scalarEpoch(f frame.Frame, name string) (float64, error) {
	e, err := f.Epoch(name)
	if err != nil {
		return 0, err
	}
	if e.Len() != 1 {
		return 0, fmt.Errorf("%s %s must be a scalar epoch, got %d values", f.Name(), name, e.Len())
	}
	return e.At(0), nil
}
