package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/framevel/internal/builtin"
	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/frame"
	"github.com/roach88/framevel/internal/harness"
	"github.com/roach88/framevel/internal/store"
	"github.com/roach88/framevel/internal/transform"
	"github.com/roach88/framevel/internal/units"
)

// TransformOptions holds flags for the transform command.
type TransformOptions struct {
	*RootOptions
	From      string
	To        string
	FromAttrs map[string]string
	ToAttrs   map[string]string
	Obstime   string // shorthand for obstime on every endpoint that has one
	Equinox   string // shorthand for equinox on every endpoint that has one

	RA         []float64 // degrees
	Dec        []float64 // degrees
	Distance   []string
	PMRACosDec []float64 // mas/yr
	PMDec      []float64 // mas/yr
	RV         []float64 // km/s

	Config   string
	Database string
}

// TransformResult is the output of the transform command.
type TransformResult struct {
	RunID  string         `json:"run_id,omitempty"`
	Path   []string       `json:"path"`
	Input  harness.Sample `json:"input"`
	Output harness.Sample `json:"output"`
}

// NewTransformCommand creates the transform command.
func NewTransformCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransformOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform coordinates between frames",
		Long: `Transform one or more coordinates between frames.

Positions are given as --ra/--dec in degrees and --distance with a unit
suffix (km, au, pc, kpc). Velocities are given as proper motions in mas/yr
and radial velocity in km/s; without any velocity flag the coordinate is
position only. Repeated or comma-separated values form a batch, and a single
value broadcasts against the others.

Exit codes:
  0 - Transform succeeded
  1 - Transform failed (no path, transform error)
  2 - Command error (bad flags, config or database errors)

Examples:
  framevel transform --from ICRS --to GCRS --obstime 2017-01-01 --ra 120.3 --dec 45.6 --distance 100au --rv 0
  framevel transform --from FK5 --equinox J1975 --to Galactic --ra 83.6 --dec 22 --distance 2kpc --pm-ra-cosdec 5,6 --pm-dec -3
  framevel transform --to LSR --ra 0 --dec 10 --distance 10pc --rv 5 --db runs.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.From, "from", "ICRS", "source frame")
	f.StringVar(&opts.To, "to", "", "destination frame (required)")
	_ = cmd.MarkFlagRequired("to")
	f.StringToStringVar(&opts.FromAttrs, "from-attr", nil, "source frame attributes (name=value)")
	f.StringToStringVar(&opts.ToAttrs, "to-attr", nil, "destination frame attributes (name=value)")
	f.StringVar(&opts.Obstime, "obstime", "", "observation time for frames that have one (J2017.5, 2017-01-01)")
	f.StringVar(&opts.Equinox, "equinox", "", "equinox for frames that have one (J1975)")

	f.Float64SliceVar(&opts.RA, "ra", []float64{0}, "right ascension or longitude, degrees")
	f.Float64SliceVar(&opts.Dec, "dec", []float64{0}, "declination or latitude, degrees")
	f.StringSliceVar(&opts.Distance, "distance", []string{"1pc"}, "distance with unit suffix")
	f.Float64SliceVar(&opts.PMRACosDec, "pm-ra-cosdec", nil, "proper motion in longitude times cos(latitude), mas/yr")
	f.Float64SliceVar(&opts.PMDec, "pm-dec", nil, "proper motion in latitude, mas/yr")
	f.Float64SliceVar(&opts.RV, "rv", nil, "radial velocity, km/s")

	f.StringVar(&opts.Config, "config", "", "CUE file with finite-difference overrides")
	f.StringVar(&opts.Database, "db", "", "SQLite run log to append to")

	return cmd
}

func runTransform(opts *TransformOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	g, err := harness.GraphFromConfig(opts.Config, harness.WithLogger(logger))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	in, target, err := opts.endpoints(g, velocityGiven(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, err)
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
		}
		defer st.Close()
	}

	result := TransformResult{Path: []string{}, Input: harness.NewSample(in)}
	out, runErr := transformAndTrace(g, in, target, &result, logger)
	if runErr == nil {
		result.Output = harness.NewSample(out)
	}

	if st != nil {
		id, err := logRun(ctx, st, in, target, result, runErr)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
		}
		result.RunID = id
		formatter.VerboseLog("Logged run %s to %s", id, opts.Database)
	}

	if runErr != nil {
		code := ErrCodeTransform
		if transform.IsNoPath(runErr) {
			code = ErrCodeNoPath
		}
		return formatter.Fail(ExitFailure, code, runErr)
	}

	return formatter.Success(result, func(w io.Writer) {
		writeTransformText(w, result)
	})
}

// velocityGiven reports whether any velocity flag was set.
func velocityGiven(cmd *cobra.Command) bool {
	for _, name := range []string{"pm-ra-cosdec", "pm-dec", "rv"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// endpoints builds the input frame with its data and the data-less target.
func (o *TransformOptions) endpoints(g *transform.Graph, withVelocity bool) (frame.Frame, frame.Frame, error) {
	from, err := g.Class(o.From)
	if err != nil {
		return frame.Frame{}, frame.Frame{}, err
	}
	to, err := g.Class(o.To)
	if err != nil {
		return frame.Frame{}, frame.Frame{}, err
	}

	src, err := o.newFrame(from, o.FromAttrs)
	if err != nil {
		return frame.Frame{}, frame.Frame{}, fmt.Errorf("--from: %w", err)
	}
	target, err := o.newFrame(to, o.ToAttrs)
	if err != nil {
		return frame.Frame{}, frame.Frame{}, fmt.Errorf("--to: %w", err)
	}

	rep, err := o.representation(withVelocity)
	if err != nil {
		return frame.Frame{}, frame.Frame{}, err
	}
	return src.Realize(rep), target, nil
}

func (o *TransformOptions) newFrame(class *frame.Class, explicit map[string]string) (frame.Frame, error) {
	raw := make(map[string]string, len(explicit)+2)
	for k, v := range explicit {
		raw[k] = v
	}
	shorthands := map[string]string{
		builtin.AttrObstime: o.Obstime,
		builtin.AttrEquinox: o.Equinox,
	}
	for name, v := range shorthands {
		if _, set := raw[name]; v != "" && !set && class.Has(name) {
			raw[name] = v
		}
	}

	attrs, err := class.ParseAttrs(raw)
	if err != nil {
		return frame.Frame{}, err
	}
	return class.New(attrs)
}

func (o *TransformOptions) representation(withVelocity bool) (coord.Representation, error) {
	distance := make([]float64, len(o.Distance))
	for i, s := range o.Distance {
		d, err := units.ParseLength(s)
		if err != nil {
			return coord.Representation{}, fmt.Errorf("--distance: %w", err)
		}
		distance[i] = d
	}

	rep, err := coord.FromSpherical(scaled(o.RA, units.Degree), scaled(o.Dec, units.Degree), distance)
	if err != nil {
		return coord.Representation{}, err
	}
	if !withVelocity {
		return rep, nil
	}
	return rep.WithSphericalVelocity(
		scaled(orZero(o.PMRACosDec), units.MasPerYear),
		scaled(orZero(o.PMDec), units.MasPerYear),
		orZero(o.RV),
	)
}

func transformAndTrace(g *transform.Graph, in, target frame.Frame, result *TransformResult, logger *slog.Logger) (frame.Frame, error) {
	path, err := g.Path(in.Class(), target.Class())
	if err != nil {
		return frame.Frame{}, err
	}
	for _, e := range path {
		result.Path = append(result.Path, e.String())
	}
	logger.Debug("transform", "from", in.Name(), "to", target.Name(), "hops", len(path), "batch", in.Data().Len())
	return g.TransformTo(in, target)
}

func logRun(ctx context.Context, st *store.Store, in, target frame.Frame, result TransformResult, runErr error) (string, error) {
	input, err := json.Marshal(result.Input)
	if err != nil {
		return "", err
	}
	run := store.Run{
		From:     in.Name(),
		To:       target.Name(),
		Path:     result.Path,
		BatchLen: in.Data().Len(),
		Input:    input,
		Status:   store.StatusOK,
	}
	if runErr != nil {
		run.Status = store.StatusError
		run.Error = runErr.Error()
	} else {
		run.Output, err = json.Marshal(result.Output)
		if err != nil {
			return "", err
		}
	}

	written, err := st.WriteRun(ctx, run)
	if err != nil {
		return "", err
	}
	return written.ID, nil
}

func writeTransformText(w io.Writer, r TransformResult) {
	fmt.Fprintln(w, "Path:")
	if len(r.Path) == 0 {
		fmt.Fprintln(w, "  (same frame)")
	}
	for _, e := range r.Path {
		fmt.Fprintf(w, "  %s\n", e)
	}
	fmt.Fprintln(w)
	writeSample(w, r.Output)
	if r.RunID != "" {
		fmt.Fprintf(w, "\nRun: %s\n", r.RunID)
	}
}

func writeSample(w io.Writer, s harness.Sample) {
	header := s.Frame
	for _, name := range s.AttrNames() {
		header += fmt.Sprintf(" %s=%s", name, s.Attrs[name])
	}
	fmt.Fprintln(w, header)

	for i := range s.Lon {
		fmt.Fprintf(w, "  [%d] lon=%.9f° lat=%.9f° distance=%.6g km\n", i, s.Lon[i], s.Lat[i], s.Distance[i])
		if i < len(s.RadialVelocity) {
			fmt.Fprintf(w, "      pm_lon_coslat=%.6g mas/yr pm_lat=%.6g mas/yr radial_velocity=%.6g km/s\n",
				s.PMLonCosLat[i], s.PMLat[i], s.RadialVelocity[i])
		}
	}
}

func scaled(xs []float64, f float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * f
	}
	return out
}

func orZero(xs []float64) []float64 {
	if len(xs) == 0 {
		return []float64{0}
	}
	return xs
}
