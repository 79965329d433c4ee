package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/framevel/internal/transform"
)

// AssertGraphGolden compares the graph description against a golden file.
// The golden file is stored in testdata/golden/{name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGraphGolden(t *testing.T, name string, g *transform.Graph) {
	t.Helper()

	gld := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gld.Assert(t, name, []byte(g.Describe()))
}

// AssertPathGolden compares the edges a scenario takes against a golden
// file, one edge per line.
func AssertPathGolden(t *testing.T, s *Scenario, result *Result) {
	t.Helper()

	var data []byte
	for _, e := range result.Path {
		data = append(data, e...)
		data = append(data, '\n')
	}

	gld := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gld.Assert(t, s.Name+"_path", data)
}
