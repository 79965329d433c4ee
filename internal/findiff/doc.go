// Package findiff synthesizes the velocity part of a frame transform from a
// position-only transform by finite differences.
//
// A transform author writes only the position mapping T between two frames.
// Wrapping it in a Differentiator yields a transform that also maps
// velocities, by combining two independent effects:
//
//   - transport: an input velocity moves the position before mapping, so the
//     output velocity is T's local linearization applied to it;
//   - rate: T may depend explicitly on a frame attribute (usually an
//     observation time), which induces an output velocity even for a
//     stationary input.
//
// Both terms are evaluated from a fixed set of probes (see Probes) that are
// independent of each other and run concurrently.
//
// # Modes
//
// Symmetric (central) differences are second-order accurate and the default.
// Forward differences reuse the nominal evaluation, saving one call per term,
// at first-order accuracy. Forward mode is the one to use when the attribute
// cannot be moved backwards (a domain boundary).
//
// # Known instability
//
// The step is fixed and never adapted. Output velocities lose precision when
// position magnitudes dwarf the per-step displacement, because the probe
// outputs differ in their last few significant digits. This is documented
// behavior, not a detected fault: no error is returned. Keep positions small
// (choose an origin near the object) or restrict use to moderate distances.
package findiff
