package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/framevel/internal/builtin"
)

func loadAndRun(t *testing.T, path string) (*Scenario, *Result) {
	t.Helper()

	s, err := LoadScenario(path)
	require.NoError(t, err)
	g, err := BuildGraph(s)
	require.NoError(t, err)
	result, err := Run(s, g)
	require.NoError(t, err)
	return s, result
}

func TestRun_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".yaml"), func(t *testing.T) {
			_, result := loadAndRun(t, path)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
			assert.NotEmpty(t, result.Outputs)
		})
	}
}

func TestRun_LSRRoundtrip(t *testing.T) {
	_, result := loadAndRun(t, "testdata/scenarios/lsr_roundtrip.yaml")

	assert.Equal(t, []string{"ICRS -> LSR [finite-difference step=1s symmetric attribute=obstime]"}, result.Path)
	require.Len(t, result.Outputs, 1)

	out := result.Outputs[0]
	assert.Equal(t, "LSR", out.Frame)
	assert.Equal(t, []string{"obstime", "v_bary"}, out.AttrNames())
	require.Len(t, out.Velocity, 1)
	require.Len(t, out.RadialVelocity, 1)

	require.NotNil(t, result.Roundtrip)
	assert.Equal(t, "ICRS", result.Roundtrip.Frame)
	assert.InDelta(t, 120.3, result.Roundtrip.Lon[0], 1e-9)
	assert.InDelta(t, 45.6, result.Roundtrip.Lat[0], 1e-9)
	assert.InDelta(t, 1000, result.Roundtrip.RadialVelocity[0], 1e-4)
}

func TestRun_PositionOnly(t *testing.T) {
	_, result := loadAndRun(t, "testdata/scenarios/gcrs_position_only.yaml")

	require.Len(t, result.Outputs, 1)
	out := result.Outputs[0]
	assert.Equal(t, "GCRS", out.Frame)
	assert.True(t, strings.HasPrefix(out.Attrs["obstime"], "J2017.00"), out.Attrs["obstime"])
	assert.Len(t, out.Position, 1)
	assert.Empty(t, out.Velocity)
	assert.Empty(t, out.RadialVelocity)
}

func TestRun_FailingAssertions(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: too_strict
description: bounds no real source meets
input: {frame: FK5, ra: 150, dec: -17, distance: 150pc, radial_velocity: 83}
steps: [{to: Galactic}]
assertions:
  - {type: speed, max: 10}
  - {type: radial_velocity, min: 80, max: 90}
  - {type: rv_spread, max: 1}
  - {type: velocity_max, max: 1}
`))
	require.NoError(t, err)
	g, err := builtin.NewGraph(nil)
	require.NoError(t, err)

	result, err := Run(s, g)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "assertions[0]: Assertion failed: speed (element 0)")
	assert.Contains(t, result.Errors[0], "Expected: < 10 km/s")
	assert.Contains(t, result.Errors[1], "assertions[3]: Assertion failed: velocity_max")
	assert.Nil(t, result.Roundtrip)
}

func TestRun_MissingVelocity(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: no_velocity
description: velocity checks need a differential
input: {frame: ICRS, ra: 10, dec: 20, distance: 1pc, position_only: true}
steps: [{to: LSR}]
assertions: [{type: speed, max: 100}]
`))
	require.NoError(t, err)
	g, err := builtin.NewGraph(nil)
	require.NoError(t, err)

	result, err := Run(s, g)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Actual: position only")
}

func TestRun_ExecutionErrors(t *testing.T) {
	g, err := builtin.NewGraph(nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "unknown input frame",
			content: `
name: x
description: d
input: {frame: Ecliptic, ra: 0, dec: 0, distance: 1pc}
steps: [{to: ICRS}]
assertions: [{type: speed, max: 1}]
`,
			wantErr: "input:",
		},
		{
			name: "unknown step frame",
			content: `
name: x
description: d
input: {frame: ICRS, ra: 0, dec: 0, distance: 1pc}
steps: [{to: Ecliptic}]
assertions: [{type: speed, max: 1}]
`,
			wantErr: "steps[0]:",
		},
		{
			name: "unknown attribute",
			content: `
name: x
description: d
input: {frame: ICRS, ra: 0, dec: 0, distance: 1pc}
steps: [{to: GCRS, attrs: {equinox: J2000}}]
assertions: [{type: speed, max: 1}]
`,
			wantErr: `has no attribute "equinox"`,
		},
		{
			name: "bad epoch",
			content: `
name: x
description: d
input: {frame: ICRS, ra: 0, dec: 0, distance: 1pc}
steps: [{to: GCRS, attrs: {obstime: yesterday}}]
assertions: [{type: speed, max: 1}]
`,
			wantErr: "GCRS.obstime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScenario([]byte(tt.content))
			require.NoError(t, err)

			_, err = Run(s, g)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildGraph_Config(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/gcrs_forward_serial.yaml")
	require.NoError(t, err)

	g, err := BuildGraph(s)
	require.NoError(t, err)
	assert.True(t, g.Frozen())

	e, ok := g.Edge(builtin.ICRS, builtin.GCRS)
	require.True(t, ok)
	spec, ok := e.Spec()
	require.True(t, ok)
	assert.Equal(t, 2.0, spec.Step)
	assert.False(t, spec.Symmetric)

	// Edges the file does not name keep their defaults.
	e, ok = g.Edge(builtin.ICRS, builtin.LSR)
	require.True(t, ok)
	spec, _ = e.Spec()
	assert.Equal(t, 1.0, spec.Step)
	assert.True(t, spec.Symmetric)
}

func TestBuildGraph_MissingConfig(t *testing.T) {
	s := &Scenario{Name: "missing", Config: filepath.Join(t.TempDir(), "nope.cue")}
	_, err := BuildGraph(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario missing:")
}

func TestGolden_BuiltinGraph(t *testing.T) {
	g, err := builtin.NewGraph(nil)
	require.NoError(t, err)
	AssertGraphGolden(t, "builtin_graph", g)
}

func TestGolden_ScenarioPath(t *testing.T) {
	s, result := loadAndRun(t, "testdata/scenarios/gcrs_forward_serial.yaml")
	AssertPathGolden(t, s, result)
}

func TestEvaluateAssertions_RoundtripUnavailable(t *testing.T) {
	g, err := builtin.NewGraph(nil)
	require.NoError(t, err)
	in, err := Coordinate{Frame: "ICRS", Distance: "1pc", RadialVelocity: 3}.Build(g)
	require.NoError(t, err)

	limit := 10.0
	errs := EvaluateAssertions([]Assertion{
		{Type: AssertSpeed, Max: &limit},
		{Type: AssertSpeed, Of: OfRoundtrip, Max: &limit},
		{Type: AssertPositionRoundtrip, Tolerance: 1},
	}, &AssertionContext{Input: in, Output: in})

	require.Len(t, errs, 2)
	assert.Equal(t, "assertions[1]: speed: roundtrip frame not available", errs[0])
	assert.Equal(t, "assertions[2]: position_roundtrip: roundtrip frame not available", errs[1])
}
