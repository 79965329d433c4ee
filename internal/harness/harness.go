package harness

import (
	"fmt"
	"log/slog"

	"github.com/roach88/framevel/internal/builtin"
	"github.com/roach88/framevel/internal/config"
	"github.com/roach88/framevel/internal/findiff"
	"github.com/roach88/framevel/internal/frame"
	"github.com/roach88/framevel/internal/transform"
)

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger for the run and for the graph built by
// BuildGraph. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

func newRunConfig(opts []Option) *runConfig {
	c := &runConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildGraph returns the builtin graph with the scenario's configuration
// applied.
func BuildGraph(s *Scenario, opts ...Option) (*transform.Graph, error) {
	g, err := GraphFromConfig(s.Config, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return g, nil
}

// GraphFromConfig returns the frozen builtin graph with the CUE file at
// path applied. An empty path yields the defaults.
func GraphFromConfig(path string, opts ...Option) (*transform.Graph, error) {
	rc := newRunConfig(opts)
	graphOpts := []transform.GraphOption{transform.WithGraphLogger(rc.logger)}

	var overrides map[string]findiff.Spec
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		overrides = cfg.FiniteDifference
		if cfg.Serial {
			graphOpts = append(graphOpts, transform.WithDifferentiatorOptions(findiff.WithSerial()))
		}
		rc.logger.Debug("config loaded", "path", path, "overrides", len(overrides), "serial", cfg.Serial)
	}
	return builtin.NewGraph(overrides, graphOpts...)
}

// Run executes a scenario on g and returns the result.
//
// Execution errors (unknown frames, unparseable attributes, transform
// failures) are returned as errors. Failed assertions are reported in
// Result.Errors with Pass set to false.
func Run(s *Scenario, g *transform.Graph, opts ...Option) (*Result, error) {
	rc := newRunConfig(opts)
	result := NewResult()

	in, err := s.Input.Build(g)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}

	cur := in
	for i, step := range s.Steps {
		target, err := step.Target(g)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		path, err := g.Path(cur.Class(), target.Class())
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		for _, e := range path {
			result.Path = append(result.Path, e.String())
		}

		out, err := g.TransformTo(cur, target)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		result.Outputs = append(result.Outputs, NewSample(out))
		cur = out

		rc.logger.Debug("scenario step",
			"scenario", s.Name,
			"step", i,
			"to", target.Name(),
			"hops", len(path),
		)
	}

	var back *frame.Frame
	if needsRoundtrip(s.Assertions) {
		b, err := g.TransformTo(cur, in.WithoutData())
		if err != nil {
			return nil, fmt.Errorf("roundtrip: %w", err)
		}
		back = &b
		sample := NewSample(b)
		result.Roundtrip = &sample
	}

	actx := &AssertionContext{Input: in, Output: cur, Roundtrip: back}
	for _, msg := range EvaluateAssertions(s.Assertions, actx) {
		result.AddError(msg)
	}

	rc.logger.Info("scenario finished",
		"scenario", s.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

func needsRoundtrip(assertions []Assertion) bool {
	for _, a := range assertions {
		if a.Type == AssertPositionRoundtrip || a.Of == OfRoundtrip {
			return true
		}
	}
	return false
}
