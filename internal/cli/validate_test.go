package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.cue", `finite_difference: "ICRS->GCRS": {step: "500ms"}`+"\n")
	b := writeFile(t, dir, "b.cue", "serial: true\n")

	out, _, err := execute(t, "validate", a, b)
	require.NoError(t, err)
	assert.Equal(t, "✓ 2 file(s) valid\n", out)
}

func TestValidate_Testdata(t *testing.T) {
	out, _, err := execute(t, "validate", "../harness/testdata/configs/forward_serial.cue")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 1 file(s) valid")
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantCode  string
		wantField string
		wantLine  bool
	}{
		{
			name:     "syntax error",
			content:  "finite_difference: {\n\t\"ICRS->GCRS\": {step: \n",
			wantCode: ErrCodeConfig,
			wantLine: true,
		},
		{
			name:     "unknown field",
			content:  "parallel: true\n",
			wantCode: ErrCodeConfig,
			wantLine: true,
		},
		{
			name:      "zero step",
			content:   "finite_difference: {\n\t\"ICRS->GCRS\": {step: 0}\n}\n",
			wantCode:  "ZERO_STEP",
			wantField: "ICRS->GCRS",
		},
		{
			name:      "bad duration",
			content:   "finite_difference: {\n\t\"ICRS->GCRS\": {step: \"soon\"}\n}\n",
			wantCode:  ErrCodeConfig,
			wantField: "ICRS->GCRS.step",
			wantLine:  true,
		},
		{
			name:      "matrix edge override",
			content:   "finite_difference: {\n\t\"FK5->ICRS\": {step: \"1s\"}\n}\n",
			wantCode:  ErrCodeConfig,
			wantField: "finite_difference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeFile(t, t.TempDir(), "fd.cue", tt.content)

			out, _, err := execute(t, "validate", file, "--format", "json")
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			resp := decode[ValidationResult](t, out)
			assert.Equal(t, "error", resp.Status)
			assert.False(t, resp.Data.Valid)
			require.Len(t, resp.Data.Errors, 1)

			verr := resp.Data.Errors[0]
			assert.Equal(t, file, verr.File)
			assert.Equal(t, tt.wantCode, verr.Code)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, verr.Field)
			}
			if tt.wantLine {
				assert.Positive(t, verr.Line)
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestValidate_InvalidText(t *testing.T) {
	file := writeFile(t, t.TempDir(), "fd.cue", "finite_difference: {\n\t\"FK5->ICRS\": {step: \"1s\"}\n}\n")

	out, _, err := execute(t, "validate", file)
	require.Error(t, err)
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E_CONFIG: finite_difference:")
	assert.Contains(t, out, "not a finite-difference edge")
}

func TestValidate_MixedFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.cue", "serial: false\n")
	bad := writeFile(t, dir, "bad.cue", "serial: 3\n")

	out, _, err := execute(t, "validate", good, bad, "--format", "json")
	require.Error(t, err)

	resp := decode[ValidationResult](t, out)
	assert.Equal(t, 2, resp.Data.Files)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, bad, resp.Data.Errors[0].File)
}

func TestValidate_MissingFile(t *testing.T) {
	_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
