package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/framevel/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - show a single run
	From     string
	To       string
	Limit    int
}

// TraceResult holds the trace output.
type TraceResult struct {
	Runs  []store.Run `json:"runs"`
	Stats TraceStats  `json:"stats"`
}

// TraceStats holds summary statistics for the listed runs.
type TraceStats struct {
	Total  int `json:"total"`
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "List logged transform runs",
		Long: `List the transform runs logged with "framevel transform --db".

Runs are listed in the order they were logged. With --run a single run is
shown in full, including its input and output.

Examples:
  framevel trace --db ./runs.db
  framevel trace --db ./runs.db --from ICRS --to GCRS --limit 10
  framevel trace --db ./runs.db --run 01890a5d-ac96-774b-bcce-b302099a8057 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run by ID")
	cmd.Flags().StringVar(&opts.From, "from", "", "filter by source frame")
	cmd.Flags().StringVar(&opts.To, "to", "", "filter by destination frame")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the most recent N runs")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitFailure, ErrCodeNotFound, err)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
		}
		runs = []store.Run{run}
	} else {
		runs, err = st.ListRuns(ctx, store.ListOptions{From: opts.From, To: opts.To, Limit: opts.Limit})
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
		}
	}

	result := TraceResult{Runs: runs, Stats: TraceStats{Total: len(runs)}}
	for _, r := range runs {
		if r.Status == store.StatusOK {
			result.Stats.OK++
		} else {
			result.Stats.Failed++
		}
	}

	return formatter.Success(result, func(w io.Writer) {
		writeTraceText(w, result, opts.RunID != "")
	})
}

func writeTraceText(w io.Writer, result TraceResult, detail bool) {
	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No runs logged.")
		return
	}

	for _, r := range result.Runs {
		mark := "✓"
		if r.Status != store.StatusOK {
			mark = "✗"
		}
		fmt.Fprintf(w, "[%d] %s %s %s -> %s (batch %d)\n", r.Seq, mark, r.ID, r.From, r.To, r.BatchLen)
		if r.Error != "" {
			fmt.Fprintf(w, "    error: %s\n", r.Error)
		}
		if !detail {
			continue
		}
		for _, e := range r.Path {
			fmt.Fprintf(w, "    %s\n", e)
		}
		fmt.Fprintf(w, "    input:  %s\n", r.Input)
		if len(r.Output) > 0 {
			fmt.Fprintf(w, "    output: %s\n", r.Output)
		}
	}

	fmt.Fprintf(w, "\n%d run(s): %d ok, %d failed\n", result.Stats.Total, result.Stats.OK, result.Stats.Failed)
}
