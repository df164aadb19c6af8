// Package scheduler provides the unified entry points over problem,
// greedy, bb, and sb: one Algorithm enum and a single Run dispatcher
// that routes to the requested solver and returns a populated
// schedule.Schedule, the format cmd/jobshop and ioformat share.
package scheduler

import (
	"errors"

	"github.com/katalvlaran/jobshop/bb"
	"github.com/katalvlaran/jobshop/greedy"
	"github.com/katalvlaran/jobshop/problem"
	"github.com/katalvlaran/jobshop/sb"
	"github.com/katalvlaran/jobshop/schedule"
)

// Algorithm selects which solver Run dispatches to.
type Algorithm int

const (
	// SequentialEA is the single-threaded earliest-available greedy.
	SequentialEA Algorithm = iota
	// SequentialSPT is the single-threaded shortest-processing-time greedy.
	SequentialSPT
	// ParallelGreedy is the statically-partitioned parallel greedy (EA rule).
	ParallelGreedy
	// SequentialBB is the sequential branch-and-bound solver.
	SequentialBB
	// ParallelBB is the parallel branch-and-bound solver.
	ParallelBB
	// SequentialSB is the sequential Shifting Bottleneck heuristic.
	SequentialSB
	// ParallelSB is the parallel Shifting Bottleneck heuristic.
	ParallelSB
)

// ErrUnknownAlgorithm indicates an Algorithm value outside the above set.
var ErrUnknownAlgorithm = errors.New("scheduler: unknown algorithm")

// Options carries the selector table's per-algorithm parameters: Workers
// applies to every parallel selector, NodeBudget overrides bb's default
// for the sequential and parallel B&B selectors.
type Options struct {
	Workers    int
	NodeBudget int
}

// Stats carries optional per-run diagnostics surfaced by cmd/jobshop's
// -verbose flag: node count explored for the two B&B selectors, or
// rounds executed for the parallel greedy selector. nil for selectors
// that have nothing to report.
type Stats struct {
	NodesSeen int
	Rounds    int
}

// Result is what Run returns: the committed schedule, and — for the two
// B&B selectors only — whether the node budget was exhausted before the
// search space was exhausted.
type Result struct {
	Schedule  *schedule.Schedule
	Exhausted bool
	Stats     *Stats
}

// Run dispatches p to the solver named by algo, applying opts where the
// selector accepts them (worker counts, node budgets).
func Run(p *problem.Problem, algo Algorithm, opts Options) (Result, error) {
	switch algo {
	case SequentialEA:
		return runGreedy(p, greedy.EarliestAvailable)
	case SequentialSPT:
		return runGreedy(p, greedy.ShortestProcessingTime)
	case ParallelGreedy:
		return runParallelGreedy(p, opts)
	case SequentialBB:
		return runBB(p, opts)
	case ParallelBB:
		return runParallelBB(p, opts)
	case SequentialSB:
		return runSB(p)
	case ParallelSB:
		return runParallelSB(p, opts)
	default:
		return Result{}, ErrUnknownAlgorithm
	}
}

func runGreedy(p *problem.Problem, rule greedy.Rule) (Result, error) {
	s := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	if err := greedy.Run(p, s, rule); err != nil {
		return Result{}, err
	}

	return Result{Schedule: s}, nil
}

func runParallelGreedy(p *problem.Problem, opts Options) (Result, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	s := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	rounds, err := greedy.RunParallel(p, s, greedy.EarliestAvailable, workers)
	if err != nil {
		return Result{}, err
	}

	return Result{Schedule: s, Stats: &Stats{Rounds: rounds}}, nil
}

func runBB(p *problem.Problem, opts Options) (Result, error) {
	var bbOpts []bb.Option
	if opts.NodeBudget > 0 {
		bbOpts = append(bbOpts, bb.WithNodeBudget(opts.NodeBudget))
	}

	res, err := bb.Solve(p, bbOpts...)
	if err != nil {
		return Result{}, err
	}

	s, err := stepsToSchedule(p, res.Steps)
	if err != nil {
		return Result{}, err
	}

	return Result{Schedule: s, Exhausted: res.Exhausted, Stats: &Stats{NodesSeen: res.NodesSeen}}, nil
}

func runParallelBB(p *problem.Problem, opts Options) (Result, error) {
	var bbOpts []bb.Option
	if opts.NodeBudget > 0 {
		bbOpts = append(bbOpts, bb.WithNodeBudget(opts.NodeBudget))
	}
	if opts.Workers > 0 {
		bbOpts = append(bbOpts, bb.WithWorkers(opts.Workers))
	}

	res, err := bb.ParallelSolve(p, bbOpts...)
	if err != nil {
		return Result{}, err
	}

	s, err := stepsToSchedule(p, res.Steps)
	if err != nil {
		return Result{}, err
	}

	return Result{Schedule: s, Exhausted: res.Exhausted, Stats: &Stats{NodesSeen: res.NodesSeen}}, nil
}

func runSB(p *problem.Problem) (Result, error) {
	s, err := sb.Run(p)
	if err != nil {
		return Result{}, err
	}

	return Result{Schedule: s}, nil
}

func runParallelSB(p *problem.Problem, opts Options) (Result, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	s, err := sb.RunParallel(p, workers)
	if err != nil {
		return Result{}, err
	}

	return Result{Schedule: s}, nil
}

// stepsToSchedule replays a bb.Result's committed steps into a fresh
// schedule.Schedule, so every Algorithm shares one output type.
func stepsToSchedule(p *problem.Problem, steps []bb.Step) (*schedule.Schedule, error) {
	s := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	for _, st := range steps {
		if err := s.Commit(st.Job, st.Op, st.Machine, st.Start, st.Duration); err != nil {
			return nil, err
		}
	}

	return s, nil
}
