package builtin

import (
	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/frame"
	"github.com/roach88/framevel/internal/units"
)

// Attribute names used by the builtin frames.
const (
	AttrObstime = "obstime"
	AttrEquinox = "equinox"
	AttrVBary   = "v_bary"
)

// VBarySchoenrich2010 is the solar motion relative to the local standard of
// rest (Schönrich, Binney & Dehnen 2010) in Galactic Cartesian components,
// km/s.
var VBarySchoenrich2010 = coord.Vec3{11.1, 12.24, 7.25}

// Builtin frame classes.
var (
	// ICRS is the barycentric inertial frame. It has no attributes.
	ICRS = frame.MustClass("ICRS")

	// FK5 is the equatorial frame of a given equinox.
	FK5 = frame.MustClass("FK5",
		frame.AttrSpec{Name: AttrEquinox, Default: frame.NewEpoch(units.J2000)},
	)

	// Galactic is the IAU 1958 Galactic frame.
	Galactic = frame.MustClass("Galactic")

	// GCRS is the geocentric frame at a given observation time.
	GCRS = frame.MustClass("GCRS",
		frame.AttrSpec{Name: AttrObstime, Default: frame.NewEpoch(units.J2000)},
	)

	// LSR is a frame whose origin drifts from the barycenter at v_bary
	// (Galactic components) since J2000, evaluated at obstime.
	LSR = frame.MustClass("LSR",
		frame.AttrSpec{Name: AttrObstime, Default: frame.NewEpoch(units.J2000)},
		frame.AttrSpec{Name: AttrVBary, Default: frame.NewVectorAttr(VBarySchoenrich2010)},
	)
)

// Classes returns the builtin classes in registration order.
func Classes() []*frame.Class {
	return []*frame.Class{ICRS, FK5, Galactic, GCRS, LSR}
}
