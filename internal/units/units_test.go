package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEpoch(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "J2000", want: 0},
		{input: "J2017.5", want: 17.5 * JulianYear},
		{input: "j1975", want: -25 * JulianYear},
		{input: "2000-01-01T12:00:00", want: 0},
		{input: "2000-01-02T12:00:00Z", want: Day},
		{input: "2000-01-01", want: -Day / 2},
		{input: " J2001 ", want: JulianYear},
		{input: "", wantErr: true},
		{input: "Jnext", wantErr: true},
		{input: "01/01/2000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEpoch(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestFormatEpoch(t *testing.T) {
	assert.Equal(t, "J2000", FormatEpoch(0))
	assert.Equal(t, "J2017.5", FormatEpoch(17.5*JulianYear))
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "7.8au", want: 7.8 * AU},
		{input: "10pc", want: 10 * Parsec},
		{input: "10 kpc", want: 10 * Kiloparsec},
		{input: "150 km", want: 150},
		{input: "42", want: 42},
		{input: "AU", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLength(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, got, 1e-15)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "1s", want: 1},
		{input: "500ms", want: 0.5},
		{input: "1h", want: 3600},
		{input: "1yr", want: JulianYear},
		{input: "2d", want: 2 * Day},
		{input: "-3", want: -3},
		{input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, got, 1e-15)
		})
	}
}

func TestParsec(t *testing.T) {
	assert.InEpsilon(t, 3.0856775814913673e13, Parsec, 1e-12)
}
