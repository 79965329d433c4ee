package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/framevel/internal/builtin"
)

func TestGraph_Text(t *testing.T) {
	g, err := builtin.NewGraph(nil)
	require.NoError(t, err)

	out, _, err := execute(t, "graph")
	require.NoError(t, err)
	assert.Equal(t, g.Describe(), out)
}

func TestGraph_JSON(t *testing.T) {
	out, _, err := execute(t, "graph", "--format", "json")
	require.NoError(t, err)

	resp := decode[GraphResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.ElementsMatch(t, []string{"FK5", "ICRS", "Galactic", "GCRS", "LSR"}, resp.Data.Classes)
	require.Len(t, resp.Data.Edges, 8)

	var matrix, fd int
	for _, e := range resp.Data.Edges {
		switch e.Kind {
		case "matrix":
			matrix++
			assert.Nil(t, e.Step)
		case "finite-difference":
			fd++
			require.NotNil(t, e.Step)
			assert.Equal(t, 1.0, *e.Step)
			require.NotNil(t, e.Symmetric)
			assert.True(t, *e.Symmetric)
			require.NotNil(t, e.Attribute)
			assert.Equal(t, builtin.AttrObstime, *e.Attribute)
		}
	}
	assert.Equal(t, 4, matrix)
	assert.Equal(t, 4, fd)
}

func TestGraph_Config(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "fd.cue", `finite_difference: "GCRS->ICRS": {step: "1d", attribute: null}`+"\n")

	out, _, err := execute(t, "graph", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "GCRS -> ICRS [finite-difference step=86400s symmetric attribute=none]\n")
	assert.Contains(t, out, "ICRS -> GCRS [finite-difference step=1s symmetric attribute=obstime]\n")
}

func TestGraph_UnknownEdgeInConfig(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "fd.cue", `finite_difference: "FK5->ICRS": {step: "1s"}`+"\n")

	out, _, err := execute(t, "graph", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "not a finite-difference edge")
}

func TestGraphPath(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want string
	}{
		{
			name: "two hops",
			from: "FK5",
			to:   "GCRS",
			want: "FK5 -> ICRS [matrix]\n" +
				"ICRS -> GCRS [finite-difference step=1s symmetric attribute=obstime]\n",
		},
		{
			name: "single matrix edge",
			from: "Galactic",
			to:   "FK5",
			want: "Galactic -> FK5 [matrix]\n",
		},
		{
			name: "same frame",
			from: "ICRS",
			to:   "ICRS",
			want: "ICRS and ICRS are the same frame\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "graph", "path", tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestGraphPath_JSON(t *testing.T) {
	out, _, err := execute(t, "graph", "path", "Galactic", "LSR", "--format", "json")
	require.NoError(t, err)

	resp := decode[GraphResult](t, out)
	require.Len(t, resp.Data.Edges, 3)
	assert.Equal(t, "Galactic", resp.Data.Edges[0].From)
	assert.Equal(t, "LSR", resp.Data.Edges[2].To)
	assert.Empty(t, resp.Data.Classes)
}

func TestGraphPath_UnknownFrame(t *testing.T) {
	_, _, err := execute(t, "graph", "path", "ICRS", "Ecliptic")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
