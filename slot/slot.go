// Package slot implements the Slot Finder primitive: given a machine, a
// duration, and an earliest-start, it returns the minimum start time at
// which an operation of that duration fits without overlapping any
// already-committed interval on that machine.
package slot

import (
	"errors"

	"github.com/katalvlaran/jobshop/schedule"
)

// Sentinel errors for slot-finding.
var (
	// ErrBadDuration indicates a non-positive duration was requested.
	ErrBadDuration = errors.New("slot: duration must be positive")

	// ErrMachineOutOfRange indicates an unknown machine was requested.
	ErrMachineOutOfRange = errors.New("slot: machine out of range")
)

// Find returns the minimum start >= earliestStart such that
// [start, start+duration) does not overlap any interval already
// committed on machine in s.
//
// Algorithm: starting from earliestStart, scan committed
// intervals; on any overlap, jump the candidate forward to the latest
// conflicting end encountered so far, and rescan. Each non-terminating
// pass strictly increases the candidate, so termination is guaranteed.
func Find(s *schedule.Schedule, machine, duration, earliestStart int) (int, error) {
	if duration <= 0 {
		return 0, ErrBadDuration
	}
	if machine < 1 || machine > s.Machines() {
		return 0, ErrMachineOutOfRange
	}

	ivs := s.MachineIntervals(machine)
	candidate := earliestStart
	if candidate < 0 {
		candidate = 0
	}

	for {
		conflict := false
		next := candidate
		for _, iv := range ivs {
			if candidate < iv.End() && iv.Start < candidate+duration {
				conflict = true
				if iv.End() > next {
					next = iv.End()
				}
			}
		}
		if !conflict {
			return candidate, nil
		}
		candidate = next
	}
}
