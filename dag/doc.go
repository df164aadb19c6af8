// Package dag is used only by the Shifting Bottleneck engine (package
// sb). It exposes the disjunctive graph (Graph), the two longest-path
// queries the engine needs each outer-loop iteration (EarliestStarts,
// Tails), and Snapshot/Rollback so a tentative machine sequence that
// would introduce a cycle can be discarded without rebuilding the graph.
package dag
