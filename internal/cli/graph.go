package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/framevel/internal/harness"
	"github.com/roach88/framevel/internal/transform"
)

// GraphOptions holds flags for the graph command and its subcommands.
type GraphOptions struct {
	*RootOptions
	Config string
}

// EdgeInfo describes one graph edge.
type EdgeInfo struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Kind      string   `json:"kind"`
	Step      *float64 `json:"step_seconds,omitempty"`
	Symmetric *bool    `json:"symmetric,omitempty"`
	Attribute *string  `json:"attribute,omitempty"`
}

// GraphResult is the output of the graph command.
type GraphResult struct {
	Classes []string   `json:"classes,omitempty"`
	Edges   []EdgeInfo `json:"edges"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "List the transform graph",
		Long: `List every registered edge of the transform graph, with the
finite-difference settings of finite-difference edges.

Examples:
  framevel graph
  framevel graph --config fd.cue --format json
  framevel graph path FK5 GCRS`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "CUE file with finite-difference overrides")

	cmd.AddCommand(&cobra.Command{
		Use:   "path <from> <to>",
		Short: "Show the edges a transform would take",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraphPath(opts, args[0], args[1], cmd)
		},
	})

	return cmd
}

func runGraph(opts *GraphOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	g, err := harness.GraphFromConfig(opts.Config, harness.WithLogger(opts.logger(cmd.ErrOrStderr())))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	result := GraphResult{Edges: edgeInfos(g.Edges())}
	for _, e := range g.Edges() {
		result.Classes = appendUnique(result.Classes, e.From.Name(), e.To.Name())
	}

	return formatter.Success(result, func(w io.Writer) {
		io.WriteString(w, g.Describe())
	})
}

func runGraphPath(opts *GraphOptions, from, to string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	g, err := harness.GraphFromConfig(opts.Config, harness.WithLogger(opts.logger(cmd.ErrOrStderr())))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	fromClass, err := g.Class(from)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, err)
	}
	toClass, err := g.Class(to)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, err)
	}

	path, err := g.Path(fromClass, toClass)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeNoPath, err)
	}

	result := GraphResult{Edges: edgeInfos(path)}
	return formatter.Success(result, func(w io.Writer) {
		if len(path) == 0 {
			fmt.Fprintf(w, "%s and %s are the same frame\n", from, to)
		}
		for _, e := range path {
			fmt.Fprintln(w, e)
		}
	})
}

func edgeInfos(edges []*transform.Edge) []EdgeInfo {
	infos := make([]EdgeInfo, len(edges))
	for i, e := range edges {
		info := EdgeInfo{From: e.From.Name(), To: e.To.Name(), Kind: e.Kind.String()}
		if spec, ok := e.Spec(); ok {
			step, sym, attr := spec.Step, spec.Symmetric, spec.Attribute
			if spec.StepFunc == nil {
				info.Step = &step
			}
			info.Symmetric = &sym
			info.Attribute = &attr
		}
		infos[i] = info
	}
	return infos
}

func appendUnique(list []string, names ...string) []string {
	for _, n := range names {
		found := false
		for _, have := range list {
			if have == n {
				found = true
				break
			}
		}
		if !found {
			list = append(list, n)
		}
	}
	return list
}
