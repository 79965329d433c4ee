package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"sorted keys", `{"b": 1, "a": 2}`, `{"a":2,"b":1}`},
		{"nested", `{"z": {"y": [1, {"b": true, "a": null}]}}`, `{"z":{"y":[1,{"a":null,"b":true}]}}`},
		{"numbers kept as written", `[1.0, 1e3, -0.5, 12345678901234567890]`, `[1.0,1e3,-0.5,12345678901234567890]`},
		{"no html escaping", `{"edge": "FK5 -> ICRS <&>"}`, `{"edge":"FK5 -> ICRS <&>"}`},
		{"nfc strings", "\"Scho\u0308nrich\"", "\"Sch\u00f6nrich\""},
		{"nfc keys", "{\"o\u0308\": 1}", "{\"\u00f6\":1}"},
		// U+E000 sorts before U+1F600 in UTF-8 but after its surrogates in UTF-16.
		{"utf16 key order", "{\"\uE000\": 1, \"\U0001F600\": 2}", "{\"\U0001F600\":2,\"\uE000\":1}"},
		{"control characters escaped", `"a\tb"`, `"a\tb"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestCanonicalize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"malformed", `{"a":`, "canonicalize"},
		{"trailing data", `{} {}`, "trailing data"},
		{"keys collide after normalization", "{\"\u00f6\": 1, \"o\u0308\": 2}", "duplicate key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Canonicalize([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMarshalCanonical_Idempotent(t *testing.T) {
	v := map[string]any{"path": []string{"ICRS -> GCRS"}, "batch": 3}
	first, err := MarshalCanonical(v)
	require.NoError(t, err)

	second, err := Canonicalize(first)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, `{"batch":3,"path":["ICRS -> GCRS"]}`, string(first))
}
