package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDir = "../harness/testdata/scenarios"

const tooStrictScenario = `name: too_strict
description: A slow source cannot stay under 1 km/s after moving into the LSR.
input:
  frame: ICRS
  ra: 10
  dec: 10
  distance: 10pc
  radial_velocity: 5
steps:
  - to: LSR
assertions:
  - type: speed
    min: 0
    max: 1
`

func TestCheck_TestdataPasses(t *testing.T) {
	out, _, err := execute(t, "check", scenarioDir)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ lsr_roundtrip\n")
	assert.Contains(t, out, "✓ gcrs_forward_serial\n")
	assert.Contains(t, out, "Check Summary: 4 passed, 0 failed, 4 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestCheck_JSON(t *testing.T) {
	out, _, err := execute(t, "check", scenarioDir, "--format", "json")
	require.NoError(t, err)

	resp := decode[CheckResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, 4, resp.Data.Total)
	assert.Equal(t, 4, resp.Data.Passed)
	for _, sr := range resp.Data.Scenarios {
		assert.True(t, sr.Pass, sr.Name)
		assert.NotEmpty(t, sr.Path, sr.Name)
	}
}

func TestCheck_Filter(t *testing.T) {
	out, _, err := execute(t, "check", scenarioDir, "--filter", "gcrs_*", "--format", "json")
	require.NoError(t, err)

	resp := decode[CheckResult](t, out)
	require.Equal(t, 2, resp.Data.Total)
	for _, sr := range resp.Data.Scenarios {
		assert.Contains(t, filepath.Base(sr.File), "gcrs_")
	}
}

func TestCheck_NoMatches(t *testing.T) {
	out, _, err := execute(t, "check", scenarioDir, "--filter", "nothing_*")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestCheck_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "too_strict.yaml", tooStrictScenario)

	out, _, err := execute(t, "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ too_strict\n")
	assert.Contains(t, out, "assertions[0]:")
	assert.Contains(t, out, "Check Summary: 0 passed, 1 failed, 1 total")
}

func TestCheck_FailingScenarioJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "too_strict.yaml", tooStrictScenario)

	out, _, err := execute(t, "check", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decode[CheckResult](t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.False(t, resp.Data.Scenarios[0].Pass)
	require.Len(t, resp.Data.Scenarios[0].Errors, 1)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], "assertions[0]:")
	assert.NotContains(t, resp.Data.Scenarios[0].Errors[0], "failed to load scenario")
}

func TestCheck_MalformedScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yml", "name: [\n")

	out, _, err := execute(t, "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yml\n")
	assert.Contains(t, out, "failed to load scenario")
}

func TestCheck_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "not a scenario")

	out, _, err := execute(t, "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestCheck_CommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing path", []string{"check", "does-not-exist"}},
		{"bad filter", []string{"check", scenarioDir, "--filter", "["}},
		{"no args", []string{"check"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.name != "no args" {
				assert.Equal(t, ExitCommandError, GetExitCode(err))
			}
		})
	}
}
