package sb_test

import (
	"testing"

	"github.com/katalvlaran/jobshop/problem"
	"github.com/katalvlaran/jobshop/sb"
	"github.com/katalvlaran/jobshop/schedule"
	"github.com/stretchr/testify/require"
)

func TestRun_CrossedTwoByTwo_ReachesOptimal(t *testing.T) {
	p, err := problem.New(2, 2, 2, [][]problem.Operation{
		{{Machine: 1, Duration: 2}, {Machine: 2, Duration: 2}},
		{{Machine: 2, Duration: 2}, {Machine: 1, Duration: 2}},
	})
	require.NoError(t, err)

	s, err := sb.Run(p)
	require.NoError(t, err)
	require.NoError(t, schedule.Check(s, p))
	require.Equal(t, 4, s.Makespan())
}

func TestRun_SingleJobMultipleMachines(t *testing.T) {
	p, err := problem.New(1, 3, 3, [][]problem.Operation{
		{{Machine: 1, Duration: 4}, {Machine: 2, Duration: 1}, {Machine: 3, Duration: 2}},
	})
	require.NoError(t, err)

	s, err := sb.Run(p)
	require.NoError(t, err)
	require.NoError(t, schedule.Check(s, p))
	require.Equal(t, 7, s.Makespan())
}

func TestRun_Scenario1_FeasibleAndNotWorseThanGreedy(t *testing.T) {
	p, err := problem.New(2, 2, 2, [][]problem.Operation{
		{{Machine: 1, Duration: 3}, {Machine: 2, Duration: 2}},
		{{Machine: 2, Duration: 2}, {Machine: 1, Duration: 1}},
	})
	require.NoError(t, err)

	s, err := sb.Run(p)
	require.NoError(t, err)
	require.NoError(t, schedule.Check(s, p))
	require.Equal(t, 5, s.Makespan())
}

func TestRunParallel_MatchesSequential(t *testing.T) {
	p, err := problem.New(2, 2, 2, [][]problem.Operation{
		{{Machine: 1, Duration: 2}, {Machine: 2, Duration: 2}},
		{{Machine: 2, Duration: 2}, {Machine: 1, Duration: 2}},
	})
	require.NoError(t, err)

	seq, err := sb.Run(p)
	require.NoError(t, err)

	par, err := sb.RunParallel(p, 4)
	require.NoError(t, err)
	require.NoError(t, schedule.Check(par, p))

	require.Equal(t, seq.Makespan(), par.Makespan())
}

func TestRunParallel_OneWorkerMatchesSequential(t *testing.T) {
	p, err := problem.New(3, 2, 2, [][]problem.Operation{
		{{Machine: 1, Duration: 3}, {Machine: 2, Duration: 2}},
		{{Machine: 2, Duration: 2}, {Machine: 1, Duration: 4}},
		{{Machine: 1, Duration: 1}, {Machine: 2, Duration: 5}},
	})
	require.NoError(t, err)

	seq, err := sb.Run(p)
	require.NoError(t, err)

	par, err := sb.RunParallel(p, 1)
	require.NoError(t, err)

	require.Equal(t, seq.Makespan(), par.Makespan())
}

func TestRun_LargerInstance_Feasible(t *testing.T) {
	p, err := problem.New(4, 3, 3, [][]problem.Operation{
		{{Machine: 1, Duration: 3}, {Machine: 2, Duration: 2}, {Machine: 3, Duration: 2}},
		{{Machine: 2, Duration: 4}, {Machine: 3, Duration: 1}, {Machine: 1, Duration: 3}},
		{{Machine: 3, Duration: 2}, {Machine: 1, Duration: 2}, {Machine: 2, Duration: 3}},
		{{Machine: 1, Duration: 1}, {Machine: 3, Duration: 3}, {Machine: 2, Duration: 2}},
	})
	require.NoError(t, err)

	s, err := sb.Run(p)
	require.NoError(t, err)
	require.NoError(t, schedule.Check(s, p))
	require.True(t, s.Complete())
}
