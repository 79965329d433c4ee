package findiff

import (
	"fmt"

	"github.com/roach88/framevel/internal/coord"
)

// ProbeKind identifies one auxiliary evaluation of the position function.
type ProbeKind int

const (
	// ProbeTransportForward displaces the position forward along the input
	// velocity: p + v*h/2 (symmetric) or p + v*h (forward).
	ProbeTransportForward ProbeKind = iota

	// ProbeTransportBack displaces the position backward: p - v*h/2.
	// Symmetric mode only.
	ProbeTransportBack

	// ProbeRateForward keeps the position and advances the perturbed
	// attribute by h/2 (symmetric) or h (forward).
	ProbeRateForward

	// ProbeRateBack keeps the position and moves the attribute back by h/2.
	// Symmetric mode only.
	ProbeRateBack

	// ProbeNominal is the unperturbed evaluation. It is not part of the probe
	// fan-out but labels errors from the nominal call.
	ProbeNominal
)

func (k ProbeKind) String() string {
	switch k {
	case ProbeTransportForward:
		return "transport+"
	case ProbeTransportBack:
		return "transport-"
	case ProbeRateForward:
		return "rate+"
	case ProbeRateBack:
		return "rate-"
	case ProbeNominal:
		return "nominal"
	default:
		return fmt.Sprintf("probe(%d)", int(k))
	}
}

// Probe is one synthetic, position-only input for the position function.
type Probe struct {
	Kind ProbeKind

	// Rep is the probe position. Transport probes displace it; rate probes
	// carry the unperturbed position.
	Rep coord.Representation

	// Offset is added to the perturbed attribute. Zero for transport probes.
	Offset float64
}

// Probes fans a representation out into the finite-difference probes for the
// given step and mode. It is a pure function of its inputs.
//
// Symmetric mode yields [transport+, transport-] and, with rate set,
// [rate+, rate-]. Forward mode yields [transport+] and optionally [rate+];
// the nominal evaluation stands in for the missing backward samples.
func Probes(rep coord.Representation, step float64, symmetric, rate bool) []Probe {
	pos := rep.WithoutDifferentials()
	if !symmetric {
		probes := []Probe{{Kind: ProbeTransportForward, Rep: displace(rep, step)}}
		if rate {
			probes = append(probes, Probe{Kind: ProbeRateForward, Rep: pos, Offset: step})
		}
		return probes
	}

	half := step / 2
	probes := []Probe{
		{Kind: ProbeTransportForward, Rep: displace(rep, half)},
		{Kind: ProbeTransportBack, Rep: displace(rep, -half)},
	}
	if rate {
		probes = append(probes,
			Probe{Kind: ProbeRateForward, Rep: pos, Offset: half},
			Probe{Kind: ProbeRateBack, Rep: pos, Offset: -half},
		)
	}
	return probes
}

// displace returns the position-only representation p + v*dt.
func displace(rep coord.Representation, dt float64) coord.Representation {
	moved := rep.Map(func(p, v coord.Vec3) (coord.Vec3, coord.Vec3) {
		return p.Add(v.Scale(dt)), v
	})
	return moved.WithoutDifferentials()
}

// difference returns (fwd - back) / step elementwise, broadcasting the two
// position batches.
func difference(fwd, back coord.Representation, step float64) ([]coord.Vec3, error) {
	n, err := coord.Broadcast("finite difference", fwd.Len(), back.Len())
	if err != nil {
		return nil, err
	}
	out := make([]coord.Vec3, n)
	for i := range out {
		out[i] = fwd.Position(i).Sub(back.Position(i)).Scale(1 / step)
	}
	return out, nil
}

// sum adds two velocity batches elementwise with broadcasting.
func sum(a, b []coord.Vec3) ([]coord.Vec3, error) {
	n, err := coord.Broadcast("velocity sum", len(a), len(b))
	if err != nil {
		return nil, err
	}
	out := make([]coord.Vec3, n)
	for i := range out {
		out[i] = pick(a, i).Add(pick(b, i))
	}
	return out, nil
}

func pick(vs []coord.Vec3, i int) coord.Vec3 {
	if len(vs) == 1 {
		return vs[0]
	}
	return vs[i]
}
