package schedule

import (
	"errors"
	"sort"

	"github.com/katalvlaran/jobshop/problem"
)

// Sentinel errors for invariant checking.
var (
	// ErrNotComplete indicates Check was called before every operation was scheduled.
	ErrNotComplete = errors.New("schedule: not every operation is scheduled")

	// ErrPrecedenceViolation indicates an operation started before its predecessor finished.
	ErrPrecedenceViolation = errors.New("schedule: job precedence violated")

	// ErrMachineOverlap indicates two operations on one machine have overlapping intervals.
	ErrMachineOverlap = errors.New("schedule: machine exclusivity violated")

	// ErrMakespanMismatch indicates the recorded makespan disagrees with the entries.
	ErrMakespanMismatch = errors.New("schedule: makespan does not match entries")
)

// Check verifies the universal invariants (coverage, job
// precedence, machine exclusivity, makespan correctness) against p. It is
// the reference validator used by every algorithm's test suite.
func Check(s *Schedule, p *problem.Problem) error {
	if !s.Complete() {
		return ErrNotComplete
	}

	maxEnd := 0
	for j := 0; j < p.Jobs; j++ {
		prevEnd := 0
		for k := 0; k < p.OpsPerJob; k++ {
			start, err := s.Start(j, k)
			if err != nil {
				return err
			}
			if start < 0 {
				return ErrNotComplete
			}
			if start < prevEnd {
				return ErrPrecedenceViolation
			}
			op, err := p.Op(j, k)
			if err != nil {
				return err
			}
			end := start + op.Duration
			prevEnd = end
			if end > maxEnd {
				maxEnd = end
			}
		}
	}

	for m := 1; m <= p.Machines; m++ {
		ivs := s.MachineIntervals(m)
		sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
		for i := 1; i < len(ivs); i++ {
			if ivs[i].Start < ivs[i-1].End() {
				return ErrMachineOverlap
			}
		}
	}

	if s.Makespan() != maxEnd {
		return ErrMakespanMismatch
	}

	return nil
}
