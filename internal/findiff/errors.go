package findiff

import (
	"errors"
	"fmt"
)

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeZeroStep indicates a zero, NaN or infinite finite-difference step.
	ErrCodeZeroStep ConfigErrorCode = "ZERO_STEP"

	// ErrCodeInvalidSpec indicates a Spec that fails struct validation.
	ErrCodeInvalidSpec ConfigErrorCode = "INVALID_SPEC"

	// ErrCodeUnknownAttribute indicates the perturbed attribute is declared by
	// neither the source nor the destination frame class.
	ErrCodeUnknownAttribute ConfigErrorCode = "UNKNOWN_ATTRIBUTE"

	// ErrCodeNotSteppable indicates the perturbed attribute does not
	// implement frame.Steppable.
	ErrCodeNotSteppable ConfigErrorCode = "NOT_STEPPABLE"

	// ErrCodeMissingFunc indicates a nil position function.
	ErrCodeMissingFunc ConfigErrorCode = "MISSING_FUNC"
)

// ConfigError is a registration-time error: the differentiator cannot be
// built from the given function, spec and frame classes. It is never retried.
//
// ErrCodeZeroStep may also surface at call time when a StepFunc yields an
// unusable step.
type ConfigError struct {
	Code      ConfigErrorCode
	Message   string
	From      string
	To        string
	Attribute string
	Err       error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.From != "" || e.To != "" {
		msg = fmt.Sprintf("%s (%s->%s)", msg, e.From, e.To)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsZeroStep reports whether err is a ConfigError for an unusable step.
func IsZeroStep(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeZeroStep
	}
	return false
}

// ProbeError wraps an error returned by the position-only function while
// evaluating one probe. The wrapped error is preserved for errors.Is/As.
type ProbeError struct {
	Probe ProbeKind
	From  string
	To    string
	Err   error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s->%s: %s probe: %v", e.From, e.To, e.Probe, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }
