package greedy

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/jobshop/problem"
	"github.com/katalvlaran/jobshop/schedule"
	"github.com/katalvlaran/jobshop/slot"
)

// ErrIterationBudgetExceeded indicates the parallel driver exceeded its
// hard iteration bound (10 * total_ops), or ran a round in which no
// worker committed, without completing — a defect, not a normal outcome.
var ErrIterationBudgetExceeded = errors.New("greedy: iteration budget exceeded")

// RunParallel partitions jobs statically across workers
// (worker_of(j) = j mod workers) and runs a round-based driver: each
// round, every worker scans its own jobs and commits the front operation
// of at most one of them through a single shared critical section, in
// worker-index order. Rounds repeat until the schedule is complete. It
// returns the number of rounds actually executed, for diagnostics.
//
// The rule (EA or SPT) selects, among a worker's own incomplete jobs,
// which one to advance this round — the same tie-break as the
// sequential driver (job index ascending).
func RunParallel(p *problem.Problem, s *schedule.Schedule, rule Rule, workers int) (int, error) {
	if workers < 1 {
		workers = 1
	}

	cursors := make([]jobCursor, p.Jobs)
	ownJobs := make([][]int, workers)
	for j := 0; j < p.Jobs; j++ {
		w := j % workers
		ownJobs[w] = append(ownJobs[w], j)
	}

	var mu sync.Mutex // the single critical section covering read + commit
	totalOps := p.Jobs * p.OpsPerJob
	budget := 10 * totalOps

	for iter := 0; iter < budget; iter++ {
		var (
			wg       sync.WaitGroup
			progress int32
			firstErr error
			errMu    sync.Mutex
		)
		// turn[w] is closed once workers 0..w-1 are done with this round, so
		// commits happen in worker-index order regardless of goroutine timing.
		turn := make([]chan struct{}, workers+1)
		for i := range turn {
			turn[i] = make(chan struct{})
		}
		close(turn[0])
		wg.Add(workers)

		for w := 0; w < workers; w++ {
			go func(w int) {
				defer wg.Done()
				defer func() {
					<-turn[w]
					close(turn[w+1])
				}()

				// Picking is lock-free: a worker only ever reads/writes the
				// cursors of jobs in its own static partition, which no
				// other worker touches. Only the commit (which reads and
				// mutates the shared Schedule) needs the critical section.
				j, found := choose(p, cursors, ownJobs[w], rule)
				if !found {
					return
				}

				c := &cursors[j]
				op, err := p.Op(j, c.nextOp)
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					return
				}

				<-turn[w]
				mu.Lock()
				start, err := slot.Find(s, op.Machine, op.Duration, c.nextReady)
				if err == nil {
					err = s.Commit(j, c.nextOp, op.Machine, start, op.Duration)
				}
				mu.Unlock()
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					return
				}

				c.nextReady = start + op.Duration
				c.nextOp++
				atomic.AddInt32(&progress, 1)
			}(w)
		}
		wg.Wait()

		if firstErr != nil {
			return iter + 1, firstErr
		}
		if s.Complete() {
			return iter + 1, nil
		}
		if progress == 0 {
			// No worker found an incomplete job of its own this round, yet
			// the schedule isn't complete: every remaining job belongs to a
			// worker whose partition is already exhausted, which cannot
			// happen with a correct static partition — surface it rather
			// than spin.
			return iter + 1, ErrIterationBudgetExceeded
		}
	}

	return budget, ErrIterationBudgetExceeded
}

// choose selects, among a worker's own job indices, the one `rule`
// prefers (job index ascending on ties), skipping jobs already complete.
func choose(p *problem.Problem, cursors []jobCursor, own []int, rule Rule) (int, bool) {
	best := -1
	bestReady, bestDuration := 0, 0

	for _, j := range own {
		c := &cursors[j]
		if c.nextOp >= p.OpsPerJob {
			continue
		}

		switch rule {
		case EarliestAvailable:
			if best == -1 || c.nextReady < bestReady {
				best, bestReady = j, c.nextReady
			}
		case ShortestProcessingTime:
			op, err := p.Op(j, c.nextOp)
			if err != nil {
				continue
			}
			if best == -1 || op.Duration < bestDuration {
				best, bestDuration = j, op.Duration
			}
		}
	}

	return best, best != -1
}
