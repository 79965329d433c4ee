package findiff

import (
	"errors"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/framevel/internal/frame"
)

// Defaults applied by DefaultSpec.
const (
	// DefaultStep is the finite-difference step in seconds.
	DefaultStep = 1.0

	// DefaultAttribute is the frame attribute perturbed for the rate term.
	DefaultAttribute = "obstime"
)

// StepFunc computes the step (seconds) for one invocation from the input
// coordinate and the destination frame.
type StepFunc func(from, to frame.Frame) float64

// Spec configures a finite-difference transform.
type Spec struct {
	// Step is the finite-difference step in seconds. Its sign is honoured.
	// Required unless StepFunc is set.
	Step float64 `validate:"required_without=StepFunc"`

	// StepFunc, when set, overrides Step per invocation.
	StepFunc StepFunc

	// Symmetric selects central differences (second order). Forward
	// differences reuse the nominal evaluation and are first order.
	Symmetric bool

	// Attribute names the frame attribute whose rate is differenced.
	// Empty disables the rate term.
	Attribute string `validate:"omitempty,printascii,max=64"`
}

// DefaultSpec returns the recommended settings: a symmetric 1 s step on
// "obstime".
func DefaultSpec() Spec {
	return Spec{
		Step:      DefaultStep,
		Symmetric: true,
		Attribute: DefaultAttribute,
	}
}

// WithoutAttribute returns a copy of s with the rate term disabled.
func (s Spec) WithoutAttribute() Spec {
	s.Attribute = ""
	return s
}

var validate = validator.New()

// Validate checks the spec on its own, without reference to frame classes.
func (s Spec) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Step" {
					return &ConfigError{Code: ErrCodeZeroStep, Message: "step must be nonzero", Err: err}
				}
			}
		}
		return &ConfigError{Code: ErrCodeInvalidSpec, Message: "invalid finite-difference spec", Err: err}
	}
	if s.StepFunc == nil && !usableStep(s.Step) {
		return &ConfigError{Code: ErrCodeZeroStep, Message: "step must be finite"}
	}
	return nil
}

func usableStep(h float64) bool {
	return h != 0 && !math.IsNaN(h) && !math.IsInf(h, 0)
}
