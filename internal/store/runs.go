package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by ReadRun for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Status is the outcome of a logged run.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Run is one logged transform.
type Run struct {
	ID       string          `json:"id"`
	Seq      int64           `json:"seq"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Path     []string        `json:"path"`
	BatchLen int             `json:"batch_len"`
	Input    json.RawMessage `json:"input"`
	Output   json.RawMessage `json:"output,omitempty"`
	Status   Status          `json:"status"`
	Error    string          `json:"error,omitempty"`
}

// ListOptions filters ListRuns. Zero values match everything.
type ListOptions struct {
	From  string
	To    string
	Limit int // most recent runs only; 0 means no limit
}

// WriteRun appends run to the log and returns it with ID and Seq filled in.
// An empty ID is assigned by the store's generator. Input and Output are
// stored in canonical form.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	if err := checkRun(run); err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}

	input, err := Canonicalize(run.Input)
	if err != nil {
		return Run{}, fmt.Errorf("write run: input: %w", err)
	}
	run.Input = input

	var output string
	if len(run.Output) > 0 {
		out, err := Canonicalize(run.Output)
		if err != nil {
			return Run{}, fmt.Errorf("write run: output: %w", err)
		}
		run.Output = out
		output = string(out)
	}

	if run.Path == nil {
		run.Path = []string{}
	}
	path, err := MarshalCanonical(run.Path)
	if err != nil {
		return Run{}, fmt.Errorf("write run: path: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, from_frame, to_frame, path, batch_len, input, output, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.From,
		run.To,
		string(path),
		run.BatchLen,
		string(input),
		output,
		string(run.Status),
		run.Error,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	run.Seq, err = res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	return run, nil
}

func checkRun(run Run) error {
	switch {
	case run.From == "" || run.To == "":
		return errors.New("from and to frames are required")
	case run.BatchLen < 0:
		return fmt.Errorf("negative batch length %d", run.BatchLen)
	case len(run.Input) == 0:
		return errors.New("input is required")
	}

	switch run.Status {
	case StatusOK:
		if len(run.Output) == 0 {
			return errors.New("ok run without output")
		}
	case StatusError:
		if run.Error == "" {
			return errors.New("error run without error message")
		}
	default:
		return fmt.Errorf("unknown status %q", run.Status)
	}
	return nil
}

// ReadRun returns the run with the given ID, or an error wrapping
// ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, from_frame, to_frame, path, batch_len, input, output, status, error
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns logged runs in seq order.
//
// Returns an empty slice (not nil) if no runs match.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if opts.From != "" {
		where = append(where, "from_frame = ?")
		args = append(args, opts.From)
	}
	if opts.To != "" {
		where = append(where, "to_frame = ?")
		args = append(args, opts.To)
	}

	query := `SELECT seq, id, from_frame, to_frame, path, batch_len, input, output, status, error FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if opts.Limit > 0 {
		// Take the newest rows, then restore seq order.
		query = "SELECT * FROM (" + query + " ORDER BY seq DESC LIMIT ?)"
		args = append(args, opts.Limit)
	}
	query += " ORDER BY seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                 Run
		path, input, output string
		status              string
	)
	err := row.Scan(&run.Seq, &run.ID, &run.From, &run.To, &path, &run.BatchLen, &input, &output, &status, &run.Error)
	if err != nil {
		return Run{}, err
	}

	if err := json.Unmarshal([]byte(path), &run.Path); err != nil {
		return Run{}, fmt.Errorf("run %s: path: %w", run.ID, err)
	}
	run.Input = json.RawMessage(input)
	if output != "" {
		run.Output = json.RawMessage(output)
	}
	run.Status = Status(status)
	return run, nil
}
