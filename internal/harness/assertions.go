package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/frame"
)

// AssertionContext carries the frames assertions are evaluated against.
type AssertionContext struct {
	Input  frame.Frame
	Output frame.Frame

	// Roundtrip is nil when no assertion asked for it.
	Roundtrip *frame.Frame
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Index    int    // Batch element that failed, -1 for whole-batch checks
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Index >= 0 {
		fmt.Fprintf(&buf, " (element %d)", e.Index)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns one message per
// failure.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(a Assertion, actx *AssertionContext) error {
	subject := actx.Output
	if a.Of == OfRoundtrip {
		if actx.Roundtrip == nil {
			return fmt.Errorf("%s: roundtrip frame not available", a.Type)
		}
		subject = *actx.Roundtrip
	}

	switch a.Type {
	case AssertPositionRoundtrip:
		if actx.Roundtrip == nil {
			return fmt.Errorf("%s: roundtrip frame not available", a.Type)
		}
		return assertPositionRoundtrip(actx.Input.Data(), actx.Roundtrip.Data(), a)
	case AssertSpeed:
		return assertSpeed(subject.Data(), a)
	case AssertRadialVelocity:
		return assertRadialVelocity(subject.Data(), a)
	case AssertVelocityMax:
		return assertVelocityMax(subject.Data(), a)
	case AssertRVSpread:
		return assertRVSpread(subject.Data(), a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertPositionRoundtrip checks |p_back - p_in| <= tolerance*|p_in| for
// every element.
func assertPositionRoundtrip(in, back coord.Representation, a Assertion) error {
	n, err := coord.Broadcast("roundtrip", in.Len(), back.Len())
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		want, got := in.Position(i), back.Position(i)
		diff := got.Sub(want).Norm()
		if diff > a.Tolerance*want.Norm() {
			return &AssertionError{
				Type:     a.Type,
				Index:    i,
				Expected: fmt.Sprintf("%v within relative %g", want, a.Tolerance),
				Actual:   fmt.Sprintf("%v (off by %g km)", got, diff),
			}
		}
	}
	return nil
}

func assertSpeed(rep coord.Representation, a Assertion) error {
	if !rep.HasDifferential() {
		return missingVelocity(a)
	}
	for i := 0; i < rep.Len(); i++ {
		if err := inRange(a, i, rep.Velocity(i).Norm(), "km/s"); err != nil {
			return err
		}
	}
	return nil
}

func assertRadialVelocity(rep coord.Representation, a Assertion) error {
	sd, ok := rep.SphericalDifferential()
	if !ok {
		return missingVelocity(a)
	}
	for i, rv := range sd.RadialVelocity {
		if a.Abs {
			rv = math.Abs(rv)
		}
		if err := inRange(a, i, rv, "km/s"); err != nil {
			return err
		}
	}
	return nil
}

func assertVelocityMax(rep coord.Representation, a Assertion) error {
	if !rep.HasDifferential() {
		return missingVelocity(a)
	}
	for i := 0; i < rep.Len(); i++ {
		v := rep.Velocity(i)
		for _, c := range v {
			if math.Abs(c) > *a.Max || math.IsNaN(c) {
				return &AssertionError{
					Type:     a.Type,
					Index:    i,
					Expected: fmt.Sprintf("every component within ±%g km/s", *a.Max),
					Actual:   v.String(),
				}
			}
		}
	}
	return nil
}

func assertRVSpread(rep coord.Representation, a Assertion) error {
	sd, ok := rep.SphericalDifferential()
	if !ok {
		return missingVelocity(a)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, rv := range sd.RadialVelocity {
		lo, hi = math.Min(lo, rv), math.Max(hi, rv)
	}
	if spread := hi - lo; !(spread < *a.Max) {
		return &AssertionError{
			Type:     a.Type,
			Index:    -1,
			Expected: fmt.Sprintf("spread < %g km/s", *a.Max),
			Actual:   fmt.Sprintf("%g km/s over %d elements", spread, len(sd.RadialVelocity)),
		}
	}
	return nil
}

func inRange(a Assertion, i int, v float64, unit string) error {
	ok := !math.IsNaN(v)
	if a.Min != nil && v < *a.Min {
		ok = false
	}
	if a.Max != nil && v >= *a.Max {
		ok = false
	}
	if ok {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Index:    i,
		Expected: describeRange(a, unit),
		Actual:   fmt.Sprintf("%g %s", v, unit),
	}
}

func describeRange(a Assertion, unit string) string {
	switch {
	case a.Min != nil && a.Max != nil:
		return fmt.Sprintf("in [%g, %g) %s", *a.Min, *a.Max, unit)
	case a.Min != nil:
		return fmt.Sprintf(">= %g %s", *a.Min, unit)
	default:
		return fmt.Sprintf("< %g %s", *a.Max, unit)
	}
}

func missingVelocity(a Assertion) error {
	return &AssertionError{Type: a.Type, Index: -1, Expected: "a velocity", Actual: "position only"}
}
