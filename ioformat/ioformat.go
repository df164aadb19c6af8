// Package ioformat implements the workbench's text input and output
// formats: ParseProblem reads a whitespace-delimited problem instance,
// WriteSchedule emits a committed schedule in either of the two
// documented per-operation token formats.
package ioformat

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/jobshop/problem"
	"github.com/katalvlaran/jobshop/schedule"
)

// Sentinel errors for malformed problem input.
var (
	// ErrMalformedHeader indicates the `J M` header line could not be parsed.
	ErrMalformedHeader = errors.New("ioformat: malformed header line")

	// ErrMalformedOperation indicates a `machine duration` pair could not be parsed.
	ErrMalformedOperation = errors.New("ioformat: malformed operation token")
)

// Format selects the per-operation token shape WriteSchedule emits.
type Format int

const (
	// Verbose emits "start,duration,machine" per operation — the format
	// used by the greedy and Shifting Bottleneck selectors.
	Verbose Format = iota
	// StartOnly emits a bare "start" per operation — the format used by
	// the branch-and-bound selectors.
	StartOnly
)

// ParseProblem reads the text problem format from r: a `J M` header,
// then J lines of M whitespace-separated `machine duration` pairs (one
// line per job; operations per job equal M).
func ParseProblem(r io.Reader) (*problem.Problem, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var jobs, machines int
	if !sc.Scan() {
		return nil, ErrMalformedHeader
	}
	if _, err := fmt.Sscanf(sc.Text(), "%d %d", &jobs, &machines); err != nil {
		return nil, ErrMalformedHeader
	}
	if jobs <= 0 || machines <= 0 {
		return nil, ErrMalformedHeader
	}

	plan := make([][]problem.Operation, jobs)
	for j := 0; j < jobs; j++ {
		if !sc.Scan() {
			return nil, ErrMalformedOperation
		}
		row := make([]problem.Operation, machines)
		fields := splitFields(sc.Text())
		if len(fields) != machines*2 {
			return nil, ErrMalformedOperation
		}
		for k := 0; k < machines; k++ {
			var m, d int
			if _, err := fmt.Sscanf(fields[2*k], "%d", &m); err != nil {
				return nil, ErrMalformedOperation
			}
			if _, err := fmt.Sscanf(fields[2*k+1], "%d", &d); err != nil {
				return nil, ErrMalformedOperation
			}
			row[k] = problem.Operation{Machine: m, Duration: d}
		}
		plan[j] = row
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return problem.New(jobs, machines, machines, plan)
}

// splitFields splits on any run of ASCII whitespace, dropping empties.
func splitFields(line string) []string {
	var fields []string
	start := -1
	for i, r := range line {
		if r == ' ' || r == '\t' || r == '\r' {
			if start >= 0 {
				fields = append(fields, line[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, line[start:])
	}

	return fields
}

// WriteSchedule emits s in the documented text format: a first line with
// the makespan, then one line per job with p.OpsPerJob space-separated
// tokens, each shaped per format.
func WriteSchedule(w io.Writer, s *schedule.Schedule, p *problem.Problem, format Format) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, s.Makespan()); err != nil {
		return err
	}

	for j := 0; j < p.Jobs; j++ {
		for k := 0; k < p.OpsPerJob; k++ {
			if k > 0 {
				if _, err := fmt.Fprint(bw, " "); err != nil {
					return err
				}
			}

			start, err := s.Start(j, k)
			if err != nil {
				return err
			}

			switch format {
			case StartOnly:
				if _, err := fmt.Fprintf(bw, "%d", start); err != nil {
					return err
				}
			default:
				op, err := p.Op(j, k)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(bw, "%d,%d,%d", start, op.Duration, op.Machine); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return err
		}
	}

	return bw.Flush()
}
