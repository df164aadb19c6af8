// Package schedule provides the mutable Schedule state shared by every
// algorithm in this module, plus Check, the reference validator for the
// universal invariants: coverage, job precedence, machine
// exclusivity, and makespan correctness.
package schedule
