package transform

import (
	"fmt"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/findiff"
	"github.com/roach88/framevel/internal/frame"
)

// MatrixFunc computes the exact rotation taking positions in from into the
// destination frame to. It may depend on any attribute of either frame
// (e.g. a precession matrix parameterized by an equinox); such attributes
// must be scalars.
type MatrixFunc func(from, to frame.Frame) (coord.Matrix3, error)

// Static returns a MatrixFunc that always yields m.
func Static(m coord.Matrix3) MatrixFunc {
	return func(frame.Frame, frame.Frame) (coord.Matrix3, error) {
		return m, nil
	}
}

// MatrixTransform adapts a MatrixFunc into a position-only transform. The
// output position is exactly M·p; input velocities are discarded, which makes
// the result suitable for wrapping in a findiff.Differentiator whose rate
// term perturbs the matrix's parameter.
func MatrixTransform(mf MatrixFunc) findiff.PositionFunc {
	return func(from, to frame.Frame) (frame.Frame, error) {
		return applyMatrix(mf, from, to, false)
	}
}

// Inverse returns the MatrixFunc of the reverse transform, for registering
// both directions from one rotation. The from/to roles are swapped when
// calling mf so that attributes are read from the frames mf expects.
func Inverse(mf MatrixFunc) MatrixFunc {
	return func(from, to frame.Frame) (coord.Matrix3, error) {
		m, err := mf(to, from)
		if err != nil {
			return coord.Matrix3{}, err
		}
		return m.Transpose(), nil
	}
}

func applyMatrix(mf MatrixFunc, in, to frame.Frame, velocities bool) (frame.Frame, error) {
	m, err := mf(in, to)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("%s->%s matrix: %w", in.Name(), to.Name(), err)
	}
	return to.Realize(rotate(in.Data(), m, velocities)), nil
}
