// Package greedy provides list-scheduling heuristics: a sequential
// driver (Run) sharing one implementation across the earliest-available
// (EA) and shortest-processing-time (SPT) priority rules, and a
// statically-partitioned parallel variant (RunParallel) of the same
// rules. Every commit goes through package slot, so the invariants of
// schedule.Check hold by construction.
package greedy
