package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "test.yaml")

	content := `
name: test_scenario
description: "Test scenario for validation"
config: fd.cue
input:
  frame: ICRS
  ra: 12.3
  dec: 45.6
  distance: 7.8au
  radial_velocity: 10
steps:
  - to: GCRS
    attrs:
      obstime: J2017
assertions:
  - type: speed
    min: 0
    max: 50
`
	require.NoError(t, os.WriteFile(scenarioPath, []byte(content), 0644))

	scenario, err := LoadScenario(scenarioPath)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(dir, "fd.cue"), scenario.Config)
	assert.Equal(t, "ICRS", scenario.Input.Frame)
	assert.Equal(t, "7.8au", scenario.Input.Distance)
	assert.Equal(t, 10.0, scenario.Input.RadialVelocity)
	require.Len(t, scenario.Steps, 1)
	assert.Equal(t, "GCRS", scenario.Steps[0].To)
	assert.Equal(t, "J2017", scenario.Steps[0].Attrs["obstime"])
	require.Len(t, scenario.Assertions, 1)
	require.NotNil(t, scenario.Assertions[0].Max)
	assert.Equal(t, 50.0, *scenario.Assertions[0].Max)
}

func TestLoadScenario_AbsoluteConfigKept(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "test.yaml")
	content := `
name: abs
description: absolute config path
config: /etc/framevel/fd.cue
input: {frame: ICRS, ra: 0, dec: 0, distance: 1pc}
steps: [{to: LSR}]
assertions: [{type: position_roundtrip, tolerance: 1.0e-9}]
`
	require.NoError(t, os.WriteFile(scenarioPath, []byte(content), 0644))

	scenario, err := LoadScenario(scenarioPath)
	require.NoError(t, err)
	assert.Equal(t, "/etc/framevel/fd.cue", scenario.Config)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Errors(t *testing.T) {
	const base = `
description: d
input: {frame: ICRS, ra: 0, dec: 0, distance: 1pc}
steps: [{to: LSR}]
`
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: base + "assertions: [{type: position_roundtrip, tolerance: 1.0e-9}]\n",
			wantErr: "'Name' failed on the 'required' tag",
		},
		{
			name:    "unknown field",
			content: "name: x\n" + base + "assertion: [{type: speed, max: 1}]\n",
			wantErr: "field assertion not found",
		},
		{
			name:    "no assertions",
			content: "name: x\n" + base,
			wantErr: "'Assertions' failed on the 'required' tag",
		},
		{
			name: "no steps",
			content: `
name: x
description: d
input: {frame: ICRS, ra: 0, dec: 0, distance: 1pc}
assertions: [{type: speed, max: 1}]
`,
			wantErr: "'Steps' failed on the 'required' tag",
		},
		{
			name: "dec out of range",
			content: `
name: x
description: d
input: {frame: ICRS, ra: 0, dec: 91, distance: 1pc}
steps: [{to: LSR}]
assertions: [{type: speed, max: 1}]
`,
			wantErr: "'Dec' failed on the 'lte' tag",
		},
		{
			name: "bad distance",
			content: `
name: x
description: d
input: {frame: ICRS, ra: 0, dec: 0, distance: 3 furlongs}
steps: [{to: LSR}]
assertions: [{type: speed, max: 1}]
`,
			wantErr: "input.distance",
		},
		{
			name:    "bad of",
			content: "name: x\n" + base + "assertions: [{type: speed, max: 1, of: input}]\n",
			wantErr: "'Of' failed on the 'oneof' tag",
		},
		{
			name:    "unknown assertion type",
			content: "name: x\n" + base + "assertions: [{type: acceleration, max: 1}]\n",
			wantErr: `unknown assertion type "acceleration"`,
		},
		{
			name:    "roundtrip without tolerance",
			content: "name: x\n" + base + "assertions: [{type: position_roundtrip}]\n",
			wantErr: "tolerance is required",
		},
		{
			name:    "speed without bounds",
			content: "name: x\n" + base + "assertions: [{type: speed}]\n",
			wantErr: "min or max is required for speed",
		},
		{
			name:    "inverted bounds",
			content: "name: x\n" + base + "assertions: [{type: radial_velocity, min: 5, max: 1}]\n",
			wantErr: "min 5 exceeds max 1",
		},
		{
			name:    "spread without max",
			content: "name: x\n" + base + "assertions: [{type: rv_spread, min: 1}]\n",
			wantErr: "max is required for rv_spread",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			require.NoError(t, err)
		})
	}
}
