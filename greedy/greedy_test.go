package greedy_test

import (
	"testing"

	"github.com/katalvlaran/jobshop/greedy"
	"github.com/katalvlaran/jobshop/problem"
	"github.com/katalvlaran/jobshop/schedule"
	"github.com/stretchr/testify/require"
)

// TestRun_EA_Scenario1 checks the earliest-available driver against a worked two-job example.
func TestRun_EA_Scenario1(t *testing.T) {
	p, err := problem.New(2, 2, 2, [][]problem.Operation{
		{{Machine: 1, Duration: 3}, {Machine: 2, Duration: 2}},
		{{Machine: 2, Duration: 2}, {Machine: 1, Duration: 1}},
	})
	require.NoError(t, err)

	s := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	require.NoError(t, greedy.Run(p, s, greedy.EarliestAvailable))
	require.NoError(t, schedule.Check(s, p))

	j0op0, _ := s.Start(0, 0)
	j0op1, _ := s.Start(0, 1)
	j1op0, _ := s.Start(1, 0)
	j1op1, _ := s.Start(1, 1)
	require.Equal(t, 0, j0op0)
	require.Equal(t, 0, j1op0)
	require.Equal(t, 3, j0op1)
	require.Equal(t, 3, j1op1)
	require.Equal(t, 5, s.Makespan())
}

// TestRun_SPT_Scenario3 checks SPT ordering on a single machine with three jobs.
func TestRun_SPT_Scenario3(t *testing.T) {
	p, err := problem.New(3, 1, 1, [][]problem.Operation{
		{{Machine: 1, Duration: 2}},
		{{Machine: 1, Duration: 3}},
		{{Machine: 1, Duration: 1}},
	})
	require.NoError(t, err)

	s := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	require.NoError(t, greedy.Run(p, s, greedy.ShortestProcessingTime))
	require.NoError(t, schedule.Check(s, p))

	j0, _ := s.Start(0, 0)
	j1, _ := s.Start(1, 0)
	j2, _ := s.Start(2, 0)
	require.Equal(t, 1, j0)
	require.Equal(t, 3, j1)
	require.Equal(t, 0, j2)
	require.Equal(t, 6, s.Makespan())
}

// TestRun_EA_Scenario3 verifies EA's tie-break by job index, same scenario 3 input.
func TestRun_EA_Scenario3(t *testing.T) {
	p, err := problem.New(3, 1, 1, [][]problem.Operation{
		{{Machine: 1, Duration: 2}},
		{{Machine: 1, Duration: 3}},
		{{Machine: 1, Duration: 1}},
	})
	require.NoError(t, err)

	s := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	require.NoError(t, greedy.Run(p, s, greedy.EarliestAvailable))
	require.NoError(t, schedule.Check(s, p))
	require.Equal(t, 6, s.Makespan())
}

func TestRun_SingleJobMultipleMachines(t *testing.T) {
	p, err := problem.New(1, 3, 3, [][]problem.Operation{
		{{Machine: 1, Duration: 4}, {Machine: 2, Duration: 1}, {Machine: 3, Duration: 2}},
	})
	require.NoError(t, err)

	s := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	require.NoError(t, greedy.Run(p, s, greedy.EarliestAvailable))
	require.NoError(t, schedule.Check(s, p))

	s0, _ := s.Start(0, 0)
	s1, _ := s.Start(0, 1)
	s2, _ := s.Start(0, 2)
	require.Equal(t, 0, s0)
	require.Equal(t, 4, s1)
	require.Equal(t, 5, s2)
	require.Equal(t, 7, s.Makespan())
}

func TestRun_Idempotent(t *testing.T) {
	p, err := problem.New(2, 2, 2, [][]problem.Operation{
		{{Machine: 1, Duration: 3}, {Machine: 2, Duration: 2}},
		{{Machine: 2, Duration: 2}, {Machine: 1, Duration: 1}},
	})
	require.NoError(t, err)

	s1 := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	require.NoError(t, greedy.Run(p, s1, greedy.EarliestAvailable))

	s2 := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	require.NoError(t, greedy.Run(p, s2, greedy.EarliestAvailable))

	require.Equal(t, s1.Makespan(), s2.Makespan())
	for j := 0; j < p.Jobs; j++ {
		for k := 0; k < p.OpsPerJob; k++ {
			a, _ := s1.Start(j, k)
			b, _ := s2.Start(j, k)
			require.Equal(t, a, b)
		}
	}
}

// TestRunParallel_Scenario6 checks the parallel driver on a four-job, two-worker partition.
func TestRunParallel_Scenario6(t *testing.T) {
	plan := [][]problem.Operation{
		{{Machine: 1, Duration: 1}, {Machine: 2, Duration: 1}},
		{{Machine: 1, Duration: 1}, {Machine: 2, Duration: 1}},
		{{Machine: 1, Duration: 1}, {Machine: 2, Duration: 1}},
		{{Machine: 1, Duration: 1}, {Machine: 2, Duration: 1}},
	}
	p, err := problem.New(4, 2, 2, plan)
	require.NoError(t, err)

	s := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	rounds, err := greedy.RunParallel(p, s, greedy.EarliestAvailable, 2)
	require.NoError(t, err)
	require.Greater(t, rounds, 0)
	require.NoError(t, schedule.Check(s, p))
	require.Equal(t, 5, s.Makespan())
}

func TestRunParallel_Deterministic(t *testing.T) {
	plan := [][]problem.Operation{
		{{Machine: 1, Duration: 2}, {Machine: 2, Duration: 3}},
		{{Machine: 2, Duration: 1}, {Machine: 1, Duration: 4}},
		{{Machine: 1, Duration: 1}, {Machine: 2, Duration: 1}},
		{{Machine: 2, Duration: 2}, {Machine: 1, Duration: 2}},
	}
	p, err := problem.New(4, 2, 2, plan)
	require.NoError(t, err)

	var makespans []int
	for run := 0; run < 3; run++ {
		s := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
		_, err := greedy.RunParallel(p, s, greedy.ShortestProcessingTime, 2)
		require.NoError(t, err)
		require.NoError(t, schedule.Check(s, p))
		makespans = append(makespans, s.Makespan())
	}
	require.Equal(t, makespans[0], makespans[1])
	require.Equal(t, makespans[0], makespans[2])
}

func TestRunParallel_MatchesSequentialOnOneWorker(t *testing.T) {
	plan := [][]problem.Operation{
		{{Machine: 1, Duration: 3}, {Machine: 2, Duration: 2}},
		{{Machine: 2, Duration: 2}, {Machine: 1, Duration: 1}},
	}
	p, err := problem.New(2, 2, 2, plan)
	require.NoError(t, err)

	seq := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	require.NoError(t, greedy.Run(p, seq, greedy.EarliestAvailable))

	par := schedule.New(p.Jobs, p.OpsPerJob, p.Machines)
	_, err = greedy.RunParallel(p, par, greedy.EarliestAvailable, 1)
	require.NoError(t, err)

	require.Equal(t, seq.Makespan(), par.Makespan())
}
