package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/frame"
	"github.com/roach88/framevel/internal/transform"
	"github.com/roach88/framevel/internal/units"
)

// Scenario takes one coordinate through a chain of frames and checks the
// result.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name" validate:"required"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" validate:"required"`

	// Config is an optional CUE file with finite-difference overrides.
	// Relative paths are resolved against the scenario file's directory.
	Config string `yaml:"config,omitempty"`

	// Input is the starting coordinate.
	Input Coordinate `yaml:"input"`

	// Steps are applied in order, each starting from the previous output.
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`

	// Assertions validate the final output.
	Assertions []Assertion `yaml:"assertions" validate:"required,min=1,dive"`
}

// Coordinate describes a coordinate in spherical components.
type Coordinate struct {
	// Frame names a registered frame class.
	Frame string `yaml:"frame" json:"frame" validate:"required"`

	// Attrs holds frame attribute values in text form ("J2017", "2017-01-01").
	Attrs map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`

	RA       float64 `yaml:"ra" json:"ra" validate:"gte=-360,lte=360"`
	Dec      float64 `yaml:"dec" json:"dec" validate:"gte=-90,lte=90"`
	Distance string  `yaml:"distance" json:"distance" validate:"required"`

	PMRACosDec     float64 `yaml:"pm_ra_cosdec" json:"pm_ra_cosdec"`
	PMDec          float64 `yaml:"pm_dec" json:"pm_dec"`
	RadialVelocity float64 `yaml:"radial_velocity" json:"radial_velocity"`

	// PositionOnly omits the differential entirely.
	PositionOnly bool `yaml:"position_only,omitempty" json:"position_only,omitempty"`
}

// Step transforms into a frame.
type Step struct {
	To    string            `yaml:"to" validate:"required"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
}

// Assertion validates the output of a scenario.
type Assertion struct {
	// Type selects the check, see the Assert* constants.
	Type string `yaml:"type" validate:"required"`

	// Of selects what is checked: "output" (default) or "roundtrip".
	Of string `yaml:"of,omitempty" validate:"omitempty,oneof=output roundtrip"`

	// Min and Max bound the checked quantity.
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`

	// Abs compares magnitudes (radial_velocity).
	Abs bool `yaml:"abs,omitempty"`

	// Tolerance is relative (position_roundtrip).
	Tolerance float64 `yaml:"tolerance,omitempty" validate:"gte=0"`
}

// Assertion type constants.
const (
	AssertPositionRoundtrip = "position_roundtrip"
	AssertSpeed             = "speed"
	AssertRadialVelocity    = "radial_velocity"
	AssertVelocityMax       = "velocity_max"
	AssertRVSpread          = "rv_spread"
)

// Values of Assertion.Of.
const (
	OfOutput    = "output"
	OfRoundtrip = "roundtrip"
)

var validate = validator.New()

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if s.Config != "" && !filepath.IsAbs(s.Config) {
		s.Config = filepath.Join(filepath.Dir(path), s.Config)
	}
	return s, nil
}

// ParseScenario parses scenario YAML. Config paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	if _, err := units.ParseLength(s.Input.Distance); err != nil {
		return fmt.Errorf("input.distance: %w", err)
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertPositionRoundtrip:
		if a.Tolerance == 0 {
			return fmt.Errorf("assertions[%d]: tolerance is required for position_roundtrip", index)
		}
	case AssertSpeed, AssertRadialVelocity:
		if a.Min == nil && a.Max == nil {
			return fmt.Errorf("assertions[%d]: min or max is required for %s", index, a.Type)
		}
		if a.Min != nil && a.Max != nil && *a.Min > *a.Max {
			return fmt.Errorf("assertions[%d]: min %g exceeds max %g", index, *a.Min, *a.Max)
		}
	case AssertVelocityMax, AssertRVSpread:
		if a.Max == nil {
			return fmt.Errorf("assertions[%d]: max is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// Build realizes the coordinate in its frame, looking the class up in g.
func (c Coordinate) Build(g *transform.Graph) (frame.Frame, error) {
	class, err := g.Class(c.Frame)
	if err != nil {
		return frame.Frame{}, err
	}
	attrs, err := class.ParseAttrs(c.Attrs)
	if err != nil {
		return frame.Frame{}, err
	}
	f, err := class.New(attrs)
	if err != nil {
		return frame.Frame{}, err
	}

	distance, err := units.ParseLength(c.Distance)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("distance: %w", err)
	}
	rep, err := coord.FromSpherical(
		[]float64{c.RA * units.Degree},
		[]float64{c.Dec * units.Degree},
		[]float64{distance},
	)
	if err != nil {
		return frame.Frame{}, err
	}
	if !c.PositionOnly {
		rep, err = rep.WithSphericalVelocity(
			[]float64{c.PMRACosDec * units.MasPerYear},
			[]float64{c.PMDec * units.MasPerYear},
			[]float64{c.RadialVelocity},
		)
		if err != nil {
			return frame.Frame{}, err
		}
	}
	return f.Realize(rep), nil
}

// Target builds the data-less destination frame of the step.
func (s Step) Target(g *transform.Graph) (frame.Frame, error) {
	class, err := g.Class(s.To)
	if err != nil {
		return frame.Frame{}, err
	}
	attrs, err := class.ParseAttrs(s.Attrs)
	if err != nil {
		return frame.Frame{}, err
	}
	return class.New(attrs)
}
