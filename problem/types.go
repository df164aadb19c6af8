// Package problem defines the immutable job-shop problem instance: jobs,
// machines, and the operations each job must perform in order.
//
// A Problem is built once (via New) and never mutated afterward; every
// downstream algorithm (greedy, bb, sb) treats it as read-only.
package problem

import "errors"

// Sentinel errors for problem construction and lookup.
var (
	// ErrNoJobs indicates a problem with zero jobs.
	ErrNoJobs = errors.New("problem: no jobs")

	// ErrNoMachines indicates a problem with zero machines.
	ErrNoMachines = errors.New("problem: no machines")

	// ErrNoOperations indicates a job with zero operations per job.
	ErrNoOperations = errors.New("problem: ops_per_job must be positive")

	// ErrMachineOutOfRange indicates an operation names a machine outside 1..M.
	ErrMachineOutOfRange = errors.New("problem: machine id out of range")

	// ErrBadDuration indicates a non-positive operation duration.
	ErrBadDuration = errors.New("problem: duration must be positive")

	// ErrJobOutOfRange indicates a job index outside 0..J-1.
	ErrJobOutOfRange = errors.New("problem: job index out of range")

	// ErrOpOutOfRange indicates an op index outside 0..OpsPerJob-1.
	ErrOpOutOfRange = errors.New("problem: op index out of range")
)

// Operation is a single unit of work: it runs on Machine for Duration time
// units. Machine is 1-based (1..M), matching the external text format.
type Operation struct {
	Machine  int
	Duration int
}

// Problem is an immutable job-shop instance: Jobs jobs, each with exactly
// OpsPerJob operations, running across Machines machines.
//
// Plan is indexed Plan[job][opIndex]; operations of a job execute in
// ascending opIndex order (job precedence).
type Problem struct {
	Jobs      int
	Machines  int
	OpsPerJob int
	Plan      [][]Operation
}

// New validates and constructs a Problem from a per-job operation plan.
// plan must have exactly `jobs` rows, each with exactly `opsPerJob`
// operations, every operation's machine in 1..machines and duration > 0.
func New(jobs, machines, opsPerJob int, plan [][]Operation) (*Problem, error) {
	if jobs <= 0 {
		return nil, ErrNoJobs
	}
	if machines <= 0 {
		return nil, ErrNoMachines
	}
	if opsPerJob <= 0 {
		return nil, ErrNoOperations
	}
	if len(plan) != jobs {
		return nil, ErrJobOutOfRange
	}
	for _, row := range plan {
		if len(row) != opsPerJob {
			return nil, ErrOpOutOfRange
		}
		for _, op := range row {
			if op.Machine < 1 || op.Machine > machines {
				return nil, ErrMachineOutOfRange
			}
			if op.Duration <= 0 {
				return nil, ErrBadDuration
			}
		}
	}

	// Defensive copy: the Problem is immutable once constructed, so callers
	// mutating their source slice afterward must not affect it.
	cp := make([][]Operation, jobs)
	for j, row := range plan {
		cp[j] = append([]Operation(nil), row...)
	}

	return &Problem{Jobs: jobs, Machines: machines, OpsPerJob: opsPerJob, Plan: cp}, nil
}

// Op returns the operation at (job, opIndex), or an error if out of range.
func (p *Problem) Op(job, opIndex int) (Operation, error) {
	if job < 0 || job >= p.Jobs {
		return Operation{}, ErrJobOutOfRange
	}
	if opIndex < 0 || opIndex >= p.OpsPerJob {
		return Operation{}, ErrOpOutOfRange
	}

	return p.Plan[job][opIndex], nil
}

// TotalOps returns the total number of operations across all jobs.
func (p *Problem) TotalOps() int {
	return p.Jobs * p.OpsPerJob
}

// JobDuration returns the sum of durations of all operations in job j,
// from opIndex onward (opIndex=0 gives the full job duration).
func (p *Problem) JobDuration(job, fromOpIndex int) int {
	total := 0
	for k := fromOpIndex; k < p.OpsPerJob; k++ {
		total += p.Plan[job][k].Duration
	}

	return total
}
