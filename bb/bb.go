// Package bb implements sequential and parallel Branch-and-Bound search
// over partial job-shop schedules: a depth-first traversal of a work
// stack with lower-bound pruning against a shared best-known makespan.
// Both solvers are bounded by a node budget and return the best
// schedule found, not a proof of optimality.
package bb

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/jobshop/problem"
)

// ErrNoJobs mirrors problem.ErrNoJobs for solvers invoked directly on a
// degenerate instance.
var ErrNoJobs = errors.New("bb: problem has no jobs")

// ErrInvariant reports a corrupt search node (a node whose depth exceeds
// the problem's total operation count). Unreachable under valid input.
var ErrInvariant = errors.New("bb: invariant violation in search node")

// maxStackCapacity bounds the shared work stack. Pushes beyond it are
// silently discarded: the discarded subtree may still be reached via an
// alternative branch, and the solver is already heuristic under the
// node budget.
const maxStackCapacity = 1 << 20

// DefaultSequentialNodeBudget is the sequential solver's default budget.
const DefaultSequentialNodeBudget = 10000

// DefaultParallelNodeBudget is the parallel solver's default per-worker
// budget.
const DefaultParallelNodeBudget = 2000

// DefaultMaxWorkers bounds the parallel solver's worker pool.
const DefaultMaxWorkers = 8

// Step records one committed operation in the best-known solution's
// construction order, so the schedule can be reconstructed and emitted.
type Step struct {
	Job, Op, Machine, Start, Duration int
}

// Result is what a B&B run returns: the best makespan found, the steps
// that produce it (in commit order), and whether the node budget was
// exhausted before the search space was exhausted (a normal, non-error
// outcome).
type Result struct {
	Makespan  int
	Steps     []Step
	Exhausted bool
	NodesSeen int
}

// node is one partial schedule on the search stack: jobProgress[j] is
// the next unscheduled op index for job j; machineTime[m-1] is the
// earliest free time on machine m.
type node struct {
	jobProgress []int
	machineTime []int
	jobTime     []int // completion time of each job's last committed op
	depth       int
	lowerBound  int
	steps       []Step // committed so far, to reconstruct a full solution
}

// clone deep-copies a node for branching (each child gets its own state).
func (n *node) clone() *node {
	c := &node{
		jobProgress: append([]int(nil), n.jobProgress...),
		machineTime: append([]int(nil), n.machineTime...),
		jobTime:     append([]int(nil), n.jobTime...),
		depth:       n.depth,
		lowerBound:  n.lowerBound,
		steps:       append([]Step(nil), n.steps...),
	}

	return c
}

// lowerBound computes an admissible bound at a node: the max of the
// per-job remaining-duration bound and the per-machine
// already-busy-plus-remaining-demand bound.
func lowerBound(p *problem.Problem, jobProgress, machineTime []int) int {
	best := 0

	for j := 0; j < p.Jobs; j++ {
		rem := p.JobDuration(j, jobProgress[j])
		if rem > best {
			best = rem
		}
	}

	machineDemand := make([]int, p.Machines)
	for j := 0; j < p.Jobs; j++ {
		for k := jobProgress[j]; k < p.OpsPerJob; k++ {
			op := p.Plan[j][k]
			machineDemand[op.Machine-1] += op.Duration
		}
	}
	for m := 0; m < p.Machines; m++ {
		cand := machineTime[m] + machineDemand[m]
		if cand > best {
			best = cand
		}
	}

	return best
}

// rootNode builds the empty partial-schedule root.
func rootNode(p *problem.Problem) *node {
	n := &node{
		jobProgress: make([]int, p.Jobs),
		machineTime: make([]int, p.Machines),
		jobTime:     make([]int, p.Jobs),
	}
	n.lowerBound = lowerBound(p, n.jobProgress, n.machineTime)

	return n
}

// children produces one child per job with unfinished work, scheduling
// that job's next operation at the earliest time satisfying job
// precedence and machine availability (no idle-insertion: semi-active,
// left-shifted schedules).
func children(p *problem.Problem, n *node) []*node {
	out := make([]*node, 0, p.Jobs)

	for j := 0; j < p.Jobs; j++ {
		if n.jobProgress[j] >= p.OpsPerJob {
			continue
		}
		op := p.Plan[j][n.jobProgress[j]]

		c := n.clone()
		start := c.machineTime[op.Machine-1]
		if c.jobTime[j] > start {
			start = c.jobTime[j]
		}

		c.steps = append(c.steps, Step{Job: j, Op: n.jobProgress[j], Machine: op.Machine, Start: start, Duration: op.Duration})
		c.jobProgress[j]++
		c.machineTime[op.Machine-1] = start + op.Duration
		c.jobTime[j] = start + op.Duration
		c.depth++
		c.lowerBound = lowerBound(p, c.jobProgress, c.machineTime)

		out = append(out, c)
	}

	return out
}

func makespanOf(n *node) int {
	end := 0
	for _, s := range n.steps {
		if e := s.Start + s.Duration; e > end {
			end = e
		}
	}

	return end
}

// Option configures a Solve or ParallelSolve call.
type Option func(*config)

type config struct {
	ctx        context.Context
	nodeBudget int
	workers    int
}

func defaultConfig(nodeBudget int) config {
	return config{ctx: context.Background(), nodeBudget: nodeBudget, workers: DefaultMaxWorkers}
}

// WithNodeBudget overrides the default node budget (per-worker, for the
// parallel solver).
func WithNodeBudget(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.nodeBudget = n
		}
	}
}

// WithWorkers bounds the parallel solver's worker pool. Values outside
// 1..DefaultMaxWorkers are clamped.
func WithWorkers(w int) Option {
	return func(c *config) {
		if w < 1 {
			w = 1
		}
		if w > DefaultMaxWorkers {
			w = DefaultMaxWorkers
		}
		c.workers = w
	}
}

// WithCancelContext sets a cancellation context; a cancelled context is
// treated like an exhausted node budget (the best-known schedule found
// so far is returned, Exhausted set to true). Passing nil has no effect.
func WithCancelContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// cancelled reports whether ctx has been cancelled, without blocking.
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// incumbent tracks the best-known schedule across a search, guarded by
// its own mutex, separate from the stack's.
type incumbent struct {
	mu    sync.Mutex
	known bool
	ms    int
	steps []Step
}

// peek returns the current best-known makespan, or -1 if none recorded
// yet. Safe to call without holding any other lock; staleness only
// causes extra exploration, never incorrect pruning.
func (b *incumbent) peek() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.known {
		return -1
	}

	return b.ms
}

// improve records n's makespan as the new best-known if it is strictly
// smaller than the current one (compare-and-keep-minimum semantics).
func (b *incumbent) improve(n *node) {
	ms := makespanOf(n)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.known || ms < b.ms {
		b.known = true
		b.ms = ms
		b.steps = append([]Step(nil), n.steps...)
	}
}

func (b *incumbent) result(nodesSeen int, exhausted bool) Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Result{Makespan: b.ms, Steps: append([]Step(nil), b.steps...), Exhausted: exhausted, NodesSeen: nodesSeen}
}

// Solve runs the sequential Branch-and-Bound search: a depth-first
// traversal of a single work stack (LIFO) with lower-bound pruning
// against a best-known makespan, bounded by a node budget. It returns
// the best schedule found; Exhausted is true if the budget expired (or
// the context was cancelled) before the stack drained.
func Solve(p *problem.Problem, opts ...Option) (Result, error) {
	if p.Jobs == 0 {
		return Result{}, ErrNoJobs
	}

	cfg := defaultConfig(DefaultSequentialNodeBudget)
	for _, o := range opts {
		o(&cfg)
	}

	totalOps := p.TotalOps()
	best := &incumbent{}
	stack := []*node{rootNode(p)}
	nodesSeen := 0

	for len(stack) > 0 && nodesSeen < cfg.nodeBudget {
		if cancelled(cfg.ctx) {
			break
		}

		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodesSeen++

		if n.depth > totalOps {
			return Result{}, ErrInvariant
		}

		if n.depth == totalOps {
			best.improve(n)
			continue
		}

		if bk := best.peek(); bk >= 0 && n.lowerBound >= bk {
			continue
		}

		for _, c := range children(p, n) {
			bk := best.peek()
			if bk >= 0 && c.lowerBound >= bk {
				continue
			}
			if len(stack) >= maxStackCapacity {
				continue
			}
			stack = append(stack, c)
		}
	}

	exhausted := len(stack) > 0

	return best.result(nodesSeen, exhausted), nil
}

// sharedStack is the single LIFO work stack, protected by one mutex
// with push/pop fully inside the critical section.
type sharedStack struct {
	mu    sync.Mutex
	nodes []*node
}

func (s *sharedStack) push(n *node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nodes) >= maxStackCapacity {
		return
	}
	s.nodes = append(s.nodes, n)
}

func (s *sharedStack) pop() (*node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nodes) == 0 {
		return nil, false
	}
	n := s.nodes[len(s.nodes)-1]
	s.nodes = s.nodes[:len(s.nodes)-1]

	return n, true
}

func (s *sharedStack) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.nodes)
}

// ParallelSolve runs a fixed pool of workers sharing one node stack and
// one best-known bound. Each worker repeatedly pops a node under the
// stack mutex; if none remain, it exits without waiting. The
// per-worker node budget is interpreted cumulatively across the pool:
// the pool stops expanding once workers*nodeBudget nodes have been
// popped in total, or the stack drains, or the context is cancelled.
func ParallelSolve(p *problem.Problem, opts ...Option) (Result, error) {
	if p.Jobs == 0 {
		return Result{}, ErrNoJobs
	}

	cfg := defaultConfig(DefaultParallelNodeBudget)
	for _, o := range opts {
		o(&cfg)
	}

	totalOps := p.TotalOps()
	best := &incumbent{}
	stack := &sharedStack{nodes: []*node{rootNode(p)}}

	totalBudget := int64(cfg.workers) * int64(cfg.nodeBudget)
	var nodesSeen int64
	var invariantHit int32

	var wg sync.WaitGroup
	wg.Add(cfg.workers)
	for w := 0; w < cfg.workers; w++ {
		go func() {
			defer wg.Done()

			for {
				if cancelled(cfg.ctx) {
					return
				}
				if atomic.AddInt64(&nodesSeen, 1) > totalBudget {
					atomic.AddInt64(&nodesSeen, -1)
					return
				}

				n, ok := stack.pop()
				if !ok {
					atomic.AddInt64(&nodesSeen, -1)
					return
				}

				if n.depth > totalOps {
					atomic.StoreInt32(&invariantHit, 1)
					return
				}

				if n.depth == totalOps {
					best.improve(n)
					continue
				}

				if bk := best.peek(); bk >= 0 && n.lowerBound >= bk {
					continue
				}

				for _, c := range children(p, n) {
					bk := best.peek()
					if bk >= 0 && c.lowerBound >= bk {
						continue
					}
					stack.push(c)
				}
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&invariantHit) == 1 {
		return Result{}, ErrInvariant
	}

	exhausted := stack.len() > 0

	return best.result(int(nodesSeen), exhausted), nil
}
