package transform

import (
	"fmt"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/findiff"
	"github.com/roach88/framevel/internal/frame"
)

// EdgeKind tags the variant held by an Edge.
type EdgeKind int

const (
	// EdgeFunction is a plain transform function, applied as is.
	EdgeFunction EdgeKind = iota

	// EdgeMatrix applies an exact rotation to positions and velocities.
	EdgeMatrix

	// EdgeFiniteDifference wraps a position-only function in a
	// findiff.Differentiator.
	EdgeFiniteDifference
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeFunction:
		return "function"
	case EdgeMatrix:
		return "matrix"
	case EdgeFiniteDifference:
		return "finite-difference"
	default:
		return fmt.Sprintf("edge(%d)", int(k))
	}
}

// Edge is one registered transform between an ordered pair of frame classes.
// Exactly one of the variant fields is set, as selected by Kind.
type Edge struct {
	Kind EdgeKind
	From *frame.Class
	To   *frame.Class

	fn     findiff.PositionFunc
	matrix MatrixFunc
	diff   *findiff.Differentiator
}

// Apply runs the edge on in, producing a frame of class To parameterized by
// the attributes of to.
func (e *Edge) Apply(in, to frame.Frame) (frame.Frame, error) {
	switch e.Kind {
	case EdgeFunction:
		return e.fn(in, to)
	case EdgeMatrix:
		return applyMatrix(e.matrix, in, to, true)
	case EdgeFiniteDifference:
		return e.diff.Transform(in, to)
	default:
		return frame.Frame{}, fmt.Errorf("unknown edge kind %v", e.Kind)
	}
}

// Spec returns the finite-difference settings of an EdgeFiniteDifference
// edge.
func (e *Edge) Spec() (findiff.Spec, bool) {
	if e.Kind != EdgeFiniteDifference {
		return findiff.Spec{}, false
	}
	return e.diff.Spec(), true
}

func (e *Edge) String() string {
	s := fmt.Sprintf("%s -> %s [%s", e.From.Name(), e.To.Name(), e.Kind)
	if spec, ok := e.Spec(); ok {
		mode := "forward"
		if spec.Symmetric {
			mode = "symmetric"
		}
		step := fmt.Sprintf("%gs", spec.Step)
		if spec.StepFunc != nil {
			step = "dynamic"
		}
		attr := spec.Attribute
		if attr == "" {
			attr = "none"
		}
		s += fmt.Sprintf(" step=%s %s attribute=%s", step, mode, attr)
	}
	return s + "]"
}

// rotate applies m to every position, and to every velocity when velocities
// is set.
func rotate(rep coord.Representation, m coord.Matrix3, velocities bool) coord.Representation {
	out := rep.Map(func(p, v coord.Vec3) (coord.Vec3, coord.Vec3) {
		return m.Apply(p), m.Apply(v)
	})
	if !velocities {
		return out.WithoutDifferentials()
	}
	return out
}
