// Package sb implements the Shifting Bottleneck heuristic: an outer
// loop that repeatedly identifies the machine whose one-machine
// sub-problem has the largest Cmax, fixes that machine's sequence as
// disjunctive arcs on a dag.Graph, and — once every machine is
// sequenced — finalizes a resource-feasible schedule from the DAG's
// earliest-start values.
package sb

import (
	"errors"
	"sort"
	"sync"

	"github.com/katalvlaran/jobshop/dag"
	"github.com/katalvlaran/jobshop/problem"
	"github.com/katalvlaran/jobshop/schedule"
)

// ErrInvariant reports that the disjunctive graph became cyclic in a way
// the engine could not roll back, or that the topological pass failed to
// visit every node during finalization. Unreachable under valid input.
var ErrInvariant = errors.New("sb: invariant violation")

// opRef names one operation's position in the problem and its node in
// the disjunctive graph.
type opRef struct {
	node     int
	job      int
	opIndex  int
	machine  int
	duration int
}

// candidate is one machine's one-machine sub-problem solution: the
// sequence that minimizes the simulated Cmax, and that Cmax itself.
type candidate struct {
	machine  int
	sequence []opRef
	cmax     int
}

// engine holds the state of one Shifting Bottleneck run: the problem,
// its disjunctive graph, and which machines remain unsequenced.
type engine struct {
	p          *problem.Problem
	g          *dag.Graph
	opsByMach  [][]opRef // opsByMach[m-1] = every operation running on machine m
	sequenced  []bool    // sequenced[m-1]
	numWorkers int
}

func newEngine(p *problem.Problem, workers int) *engine {
	g := dag.New(p)
	opsByMach := make([][]opRef, p.Machines)
	for j := 0; j < p.Jobs; j++ {
		for k := 0; k < p.OpsPerJob; k++ {
			op := p.Plan[j][k]
			ref := opRef{
				node:     dag.OpNode(p.OpsPerJob, j, k),
				job:      j,
				opIndex:  k,
				machine:  op.Machine,
				duration: op.Duration,
			}
			opsByMach[op.Machine-1] = append(opsByMach[op.Machine-1], ref)
		}
	}

	return &engine{
		p:          p,
		g:          g,
		opsByMach:  opsByMach,
		sequenced:  make([]bool, p.Machines),
		numWorkers: workers,
	}
}

// oneMachineSubproblem sorts m's operations by (release ascending,
// duration ascending) and simulates the single-machine makespan.
func oneMachineSubproblem(machine int, ops []opRef, est, tails []int) candidate {
	seq := append([]opRef(nil), ops...)
	sort.Slice(seq, func(i, j int) bool {
		ri, rj := est[seq[i].node], est[seq[j].node]
		if ri != rj {
			return ri < rj
		}

		return seq[i].duration < seq[j].duration
	})

	c := 0
	cmax := 0
	for _, op := range seq {
		r := est[op.node]
		if r > c {
			c = r
		}
		c += op.duration
		if c > cmax {
			cmax = c
		}
	}

	return candidate{machine: machine, sequence: seq, cmax: cmax}
}

// evaluateMachine computes est/tails-aware candidate for one unsequenced
// machine. tails is accepted for symmetry with the (p, r, q) tuple
// carried per operation, even though the Cmax simulation itself only
// consumes r and p.
func (e *engine) evaluateMachine(m int, est, tails []int) candidate {
	return oneMachineSubproblem(m+1, e.opsByMach[m], est, tails)
}

// pickBottleneck runs step 3 of the outer loop sequentially: evaluate
// every unsequenced machine and return the one with maximum Cmax.
func (e *engine) pickBottleneck(est, tails []int) (candidate, bool) {
	best := candidate{cmax: -1}
	found := false

	for m := 0; m < e.p.Machines; m++ {
		if e.sequenced[m] {
			continue
		}
		c := e.evaluateMachine(m, est, tails)
		if !found || c.cmax > best.cmax {
			best = c
			found = true
		}
	}

	return best, found
}

// pickBottleneckParallel runs step 3 across a worker pool: each worker
// evaluates a disjoint subset of unsequenced machines and keeps a local
// best; a mutex-guarded reduction after the parallel region selects the
// global maximum.
func (e *engine) pickBottleneckParallel(est, tails []int) (candidate, bool) {
	var unsequenced []int
	for m := 0; m < e.p.Machines; m++ {
		if !e.sequenced[m] {
			unsequenced = append(unsequenced, m)
		}
	}
	if len(unsequenced) == 0 {
		return candidate{}, false
	}

	workers := e.numWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(unsequenced) {
		workers = len(unsequenced)
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		best  = candidate{cmax: -1}
		found bool
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()

			local := candidate{cmax: -1}
			localFound := false
			for i := w; i < len(unsequenced); i += workers {
				c := e.evaluateMachine(unsequenced[i], est, tails)
				if !localFound || c.cmax > local.cmax {
					local = c
					localFound = true
				}
			}
			if !localFound {
				return
			}

			mu.Lock()
			if !found || local.cmax > best.cmax {
				best = local
				found = true
			}
			mu.Unlock()
		}(w)
	}
	wg.Wait()

	return best, found
}

// commit fixes the winning candidate's sequence as disjunctive arcs. If
// the resulting graph is cyclic, the commit is rolled back and
// ErrInvariant is returned — the heuristic's own construction guarantees
// this never happens for a well-formed problem (each machine's sequence
// is a total order over operations that were, by construction, not yet
// mutually constrained).
func (e *engine) commit(c candidate) error {
	nodes := make([]int, len(c.sequence))
	for i, op := range c.sequence {
		nodes[i] = op.node
	}

	snap := e.g.Snapshot()
	if err := e.g.AddDisjunctiveSequence(nodes); err != nil {
		e.g.Rollback(snap)

		return err
	}
	if _, err := e.g.EarliestStarts(); err != nil {
		e.g.Rollback(snap)

		return ErrInvariant
	}

	e.sequenced[c.machine-1] = true

	return nil
}

// run drives the outer loop for up to Machines iterations, using pick
// to select each iteration's bottleneck (sequential or parallel).
func (e *engine) run(pick func(est, tails []int) (candidate, bool)) error {
	for iter := 0; iter < e.p.Machines; iter++ {
		est, err := e.g.EarliestStarts()
		if err != nil {
			return ErrInvariant
		}
		tails, err := e.g.Tails()
		if err != nil {
			return ErrInvariant
		}

		c, found := pick(est, tails)
		if !found {
			break
		}
		if err := e.commit(c); err != nil {
			return err
		}
	}

	return nil
}

// finalize performs the resource-feasible pass: sort every operation by
// (est asc, job asc, op asc) and assign start = max(est,
// prev_op_end_in_same_job, machine_available_time[machine]).
func (e *engine) finalize() (*schedule.Schedule, error) {
	est, err := e.g.EarliestStarts()
	if err != nil {
		return nil, ErrInvariant
	}

	type finalOp struct {
		est      int
		job      int
		opIndex  int
		machine  int
		duration int
	}
	all := make([]finalOp, 0, e.p.TotalOps())
	for j := 0; j < e.p.Jobs; j++ {
		for k := 0; k < e.p.OpsPerJob; k++ {
			node := dag.OpNode(e.p.OpsPerJob, j, k)
			op := e.p.Plan[j][k]
			all = append(all, finalOp{est: est[node], job: j, opIndex: k, machine: op.Machine, duration: op.Duration})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].est != all[j].est {
			return all[i].est < all[j].est
		}
		if all[i].job != all[j].job {
			return all[i].job < all[j].job
		}

		return all[i].opIndex < all[j].opIndex
	})

	jobEnd := make([]int, e.p.Jobs)
	machineAvail := make([]int, e.p.Machines)
	s := schedule.New(e.p.Jobs, e.p.OpsPerJob, e.p.Machines)

	for _, op := range all {
		start := op.est
		if jobEnd[op.job] > start {
			start = jobEnd[op.job]
		}
		if machineAvail[op.machine-1] > start {
			start = machineAvail[op.machine-1]
		}

		if err := s.Commit(op.job, op.opIndex, op.machine, start, op.duration); err != nil {
			return nil, err
		}

		jobEnd[op.job] = start + op.duration
		machineAvail[op.machine-1] = start + op.duration
	}

	return s, nil
}

// Run executes the sequential Shifting Bottleneck heuristic and returns
// a resource-feasible Schedule.
func Run(p *problem.Problem) (*schedule.Schedule, error) {
	e := newEngine(p, 1)
	if err := e.run(e.pickBottleneck); err != nil {
		return nil, err
	}

	return e.finalize()
}

// RunParallel executes the Shifting Bottleneck heuristic with the
// per-machine evaluation step (§4.4.1) parallelized across workers.
// Steps 1, 2, and 4 of the outer loop remain single-threaded.
func RunParallel(p *problem.Problem, workers int) (*schedule.Schedule, error) {
	if workers < 1 {
		workers = 1
	}

	e := newEngine(p, workers)
	if err := e.run(e.pickBottleneckParallel); err != nil {
		return nil, err
	}

	return e.finalize()
}
