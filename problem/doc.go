// Package problem models the job-shop instance consumed by every
// scheduling algorithm in this module:
//
//   - Jobs: an ordered sequence of Operations, executed in index order.
//   - Machines: numbered 1..Machines; each Operation names the one
//     machine it requires.
//   - OpsPerJob: fixed across all jobs.
//
// Problem is built once via New and never mutated; algorithms read it
// concurrently without locking.
package problem
