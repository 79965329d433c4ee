// Package builtin declares the stock frame classes and registers the
// transforms between them.
//
//	FK5 <-> ICRS, FK5 <-> Galactic   exact matrix edges (IAU 1976 precession)
//	ICRS <-> GCRS                    finite-difference edges, rate on obstime
//	ICRS <-> LSR                     finite-difference edges, rate on obstime
//
// The GCRS and LSR transforms are written as position-only functions; their
// velocities come from findiff. The GCRS model is a pure origin shift to the
// geocenter using the low-precision ephemeris in package ephem, which is
// enough to reproduce the ~30 km/s reflex of Earth's orbit.
package builtin
