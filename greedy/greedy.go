// Package greedy implements the sequential and parallel list schedulers
// of earliest-available (EA) and shortest-processing-time
// (SPT) priority rules sharing one driver, plus a statically-partitioned
// parallel variant of EA/SPT.
package greedy

import (
	"errors"

	"github.com/katalvlaran/jobshop/problem"
	"github.com/katalvlaran/jobshop/schedule"
	"github.com/katalvlaran/jobshop/slot"
)

// Rule selects the priority rule the sequential driver uses to pick the
// next operation to commit.
type Rule int

const (
	// EarliestAvailable picks the job with the smallest next_ready time.
	EarliestAvailable Rule = iota
	// ShortestProcessingTime picks the front operation with smallest duration.
	ShortestProcessingTime
)

// ErrUnknownRule indicates an unrecognized Rule value was requested.
var ErrUnknownRule = errors.New("greedy: unknown priority rule")

// jobCursor tracks one job's scheduling progress for the sequential driver.
type jobCursor struct {
	nextOp    int
	nextReady int
}

// Run schedules every operation of p into s using the given priority
// rule, committing each operation via the Slot Finder at
// earliest_start = next_ready[job]. Terminates after
// exactly Jobs*OpsPerJob commits.
func Run(p *problem.Problem, s *schedule.Schedule, rule Rule) error {
	cursors := make([]jobCursor, p.Jobs)
	remaining := p.Jobs * p.OpsPerJob

	for remaining > 0 {
		j, err := pick(p, cursors, rule)
		if err != nil {
			return err
		}

		c := &cursors[j]
		op, err := p.Op(j, c.nextOp)
		if err != nil {
			return err
		}

		start, err := slot.Find(s, op.Machine, op.Duration, c.nextReady)
		if err != nil {
			return err
		}
		if err := s.Commit(j, c.nextOp, op.Machine, start, op.Duration); err != nil {
			return err
		}

		c.nextReady = start + op.Duration
		c.nextOp++
		remaining--
	}

	return nil
}

// pick selects the next job to advance, per rule. Ties are broken by job
// index ascending in both rules.
func pick(p *problem.Problem, cursors []jobCursor, rule Rule) (int, error) {
	best := -1

	switch rule {
	case EarliestAvailable:
		bestReady := 0
		for j, c := range cursors {
			if c.nextOp >= p.OpsPerJob {
				continue
			}
			if best == -1 || c.nextReady < bestReady {
				best = j
				bestReady = c.nextReady
			}
		}
	case ShortestProcessingTime:
		bestDuration := 0
		for j, c := range cursors {
			if c.nextOp >= p.OpsPerJob {
				continue
			}
			op, err := p.Op(j, c.nextOp)
			if err != nil {
				return 0, err
			}
			if best == -1 || op.Duration < bestDuration {
				best = j
				bestDuration = op.Duration
			}
		}
	default:
		return 0, ErrUnknownRule
	}

	return best, nil
}
