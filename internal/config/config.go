// Package config loads framevel configuration from CUE.
//
// A configuration file overrides the finite-difference settings of
// individual edges:
//
//	finite_difference: {
//		"ICRS->GCRS": {step: "1s", symmetric: true, attribute: "obstime"}
//		"ICRS->LSR":  {step: "1yr", symmetric: false}
//		"GCRS->ICRS": {attribute: null}
//	}
//	serial: false
//
// Omitted fields keep findiff.DefaultSpec values. Files are checked against
// the embedded schema; unknown fields are errors.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/framevel/internal/findiff"
	"github.com/roach88/framevel/internal/units"
)

//go:embed schema.cue
var schemaSource string

// Config is a decoded configuration file.
type Config struct {
	// FiniteDifference holds per-edge overrides keyed "FROM->TO".
	FiniteDifference map[string]findiff.Spec

	// Serial evaluates finite-difference probes one at a time.
	Serial bool
}

// Edges returns the override keys in sorted order.
func (c *Config) Edges() []string {
	keys := make([]string, 0, len(c.FiniteDifference))
	for k := range c.FiniteDifference {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Error is a configuration error with a source position when one is known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
	Err     error
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads and decodes the CUE file at path.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, src)
}

// Parse decodes CUE source. filename is used only in error positions.
func Parse(filename string, src []byte) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v = schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	cfg := &Config{FiniteDifference: map[string]findiff.Spec{}}

	if serial := v.LookupPath(cue.ParsePath("serial")); serial.Exists() {
		b, err := serial.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		cfg.Serial = b
	}

	fd := v.LookupPath(cue.ParsePath("finite_difference"))
	if !fd.Exists() {
		return cfg, nil
	}
	iter, err := fd.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		edge := iter.Label()
		spec, err := parseSpec(edge, iter.Value())
		if err != nil {
			return nil, err
		}
		cfg.FiniteDifference[edge] = spec
	}
	return cfg, nil
}

func parseSpec(edge string, v cue.Value) (findiff.Spec, error) {
	spec := findiff.DefaultSpec()

	if stepVal := v.LookupPath(cue.ParsePath("step")); stepVal.Exists() {
		step, err := parseStep(stepVal)
		if err != nil {
			return findiff.Spec{}, &Error{Field: edge + ".step", Message: err.Error(), Pos: stepVal.Pos()}
		}
		spec.Step = step
	}

	if symVal := v.LookupPath(cue.ParsePath("symmetric")); symVal.Exists() {
		b, err := symVal.Bool()
		if err != nil {
			return findiff.Spec{}, formatCUEError(err)
		}
		spec.Symmetric = b
	}

	if attrVal := v.LookupPath(cue.ParsePath("attribute")); attrVal.Exists() {
		if attrVal.IsNull() {
			spec.Attribute = ""
		} else {
			s, err := attrVal.String()
			if err != nil {
				return findiff.Spec{}, formatCUEError(err)
			}
			spec.Attribute = s
		}
	}

	if err := spec.Validate(); err != nil {
		return findiff.Spec{}, &Error{Field: edge, Message: err.Error(), Pos: v.Pos(), Err: err}
	}
	return spec, nil
}

func parseStep(v cue.Value) (float64, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return 0, err
		}
		return units.ParseDuration(s)
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		return v.Float64()
	default:
		return 0, fmt.Errorf("step must be a duration string or number of seconds, got %v", v.Kind())
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &Error{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
