package slot_test

import (
	"testing"

	"github.com/katalvlaran/jobshop/schedule"
	"github.com/katalvlaran/jobshop/slot"
	"github.com/stretchr/testify/require"
)

func TestFind_EmptyMachine(t *testing.T) {
	s := schedule.New(1, 1, 1)
	start, err := slot.Find(s, 1, 3, 5)
	require.NoError(t, err)
	require.Equal(t, 5, start)
}

func TestFind_JumpsPastConflict(t *testing.T) {
	s := schedule.New(2, 1, 1)
	require.NoError(t, s.Commit(0, 0, 1, 2, 3)) // occupies [2,5)

	start, err := slot.Find(s, 1, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 0, start, "should fit in [0,2) before the conflict")

	start, err = slot.Find(s, 1, 2, 1)
	require.NoError(t, err)
	require.Equal(t, 5, start, "duration 2 starting at 1 would overlap [2,5); must jump to 5")
}

func TestFind_Idempotent(t *testing.T) {
	s := schedule.New(3, 1, 1)
	require.NoError(t, s.Commit(0, 0, 1, 0, 4))
	require.NoError(t, s.Commit(1, 0, 1, 10, 2))

	start, err := slot.Find(s, 1, 3, 4)
	require.NoError(t, err)
	require.Equal(t, 4, start)

	// Probing again at the returned start with the same duration must
	// return that same start (a repeated probe is idempotent).
	again, err := slot.Find(s, 1, 3, start)
	require.NoError(t, err)
	require.Equal(t, start, again)
}

func TestFind_MultipleOverlaps(t *testing.T) {
	s := schedule.New(3, 1, 1)
	require.NoError(t, s.Commit(0, 0, 1, 0, 2))  // [0,2)
	require.NoError(t, s.Commit(1, 0, 1, 3, 2))  // [3,5)
	require.NoError(t, s.Commit(2, 0, 1, 10, 1)) // [10,11)

	start, err := slot.Find(s, 1, 5, 0)
	require.NoError(t, err)
	require.Equal(t, 5, start, "duration 5 from 0 must skip past both [0,2) and [3,5)")
}

func TestFind_Errors(t *testing.T) {
	s := schedule.New(1, 1, 1)
	_, err := slot.Find(s, 1, 0, 0)
	require.ErrorIs(t, err, slot.ErrBadDuration)

	_, err = slot.Find(s, 2, 1, 0)
	require.ErrorIs(t, err, slot.ErrMachineOutOfRange)
}
