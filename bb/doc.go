// Package bb provides exact (bounded) search for the job-shop problem:
// Solve explores a single work stack to completion or budget exhaustion;
// ParallelSolve shares that stack and its best-known bound across a
// fixed worker pool. Neither claims optimality — both return the best
// schedule discovered within their node budget.
package bb
