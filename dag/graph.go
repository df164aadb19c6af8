// Package dag implements the disjunctive graph used by the Shifting
// Bottleneck engine and the Kahn's-algorithm longest-path computation
// it relies on for earliest-start and tail values.
//
// Nodes are {Source, Sink} ∪ {one node per operation}. Rather than a
// linked adjacency list of heap-allocated edge nodes, or a dense
// adjacency matrix, arcs live in flat, index-addressed head/to/next
// arrays, one set per direction — a classic array-backed adjacency list
// ("next-array" form): O(V+E) memory, no per-edge allocation. A
// rollback rebuilds each direction by replaying the arcs it keeps.
package dag

import (
	"errors"

	"github.com/katalvlaran/jobshop/problem"
)

// ErrCycleDetected indicates the graph is no longer acyclic: Kahn's
// algorithm could not visit every node — an internal invariant
// violation the Shifting Bottleneck engine must detect and reject
// (never expected under valid input).
var ErrCycleDetected = errors.New("dag: cycle detected")

// ErrUnknownNode indicates an operation referenced a node outside the graph.
var ErrUnknownNode = errors.New("dag: unknown node")

const (
	// Source and Sink are the two fixed nodes every job chain starts/ends at.
	Source = 0
	Sink   = 1
)

// arcList is an arena-backed adjacency list: head[v] is the index of the
// first arc leaving v (or -1), and next[e] chases the arc chain. to[e] is
// the arc's destination. Appending an arc is O(1).
type arcList struct {
	head []int32
	to   []int32
	next []int32
}

func newArcList(n int) arcList {
	head := make([]int32, n)
	for i := range head {
		head[i] = -1
	}
	return arcList{head: head}
}

func (a *arcList) add(from, to int) {
	idx := int32(len(a.to))
	a.to = append(a.to, int32(to))
	a.next = append(a.next, a.head[from])
	a.head[from] = idx
}

// snapshot returns the current arc count, for later rollback.
func (a *arcList) snapshot() int { return len(a.to) }

// Graph is the disjunctive graph: conjunctive arcs fixed at construction,
// disjunctive arcs added machine-by-machine as the Shifting Bottleneck
// engine sequences each machine.
type Graph struct {
	n      int
	weight []int

	fwd arcFromList
	rev arcFromList

	jobs      int
	opsPerJob int
}

// arcFromList is arcList plus a parallel `from` log, so a rollback can
// rebuild the lists by replaying the first mark arcs (O(V+mark)).
type arcFromList struct {
	arcList
	from []int32
}

func newArcFromList(n int) arcFromList {
	return arcFromList{arcList: newArcList(n), from: nil}
}

func (a *arcFromList) add(from, to int) {
	a.arcList.add(from, to)
	a.from = append(a.from, int32(from))
}

func (a *arcFromList) rollbackTo(n, mark int) {
	froms := append([]int32(nil), a.from[:mark]...)
	tos := append([]int32(nil), a.to[:mark]...)
	*a = newArcFromList(n)
	for i := range froms {
		a.add(int(froms[i]), int(tos[i]))
	}
}

// OpNode returns the node index for operation (job, opIndex).
func OpNode(opsPerJob, job, opIndex int) int {
	return 2 + job*opsPerJob + opIndex
}

// New builds the disjunctive graph for p: Source/Sink plus one node per
// operation, and the fixed conjunctive arcs (Source→first op of each job,
// consecutive ops within a job, last op of each job→Sink).
func New(p *problem.Problem) *Graph {
	n := 2 + p.Jobs*p.OpsPerJob
	weight := make([]int, n)
	for j := 0; j < p.Jobs; j++ {
		for k := 0; k < p.OpsPerJob; k++ {
			weight[OpNode(p.OpsPerJob, j, k)] = p.Plan[j][k].Duration
		}
	}

	g := &Graph{
		n:         n,
		weight:    weight,
		fwd:       newArcFromList(n),
		rev:       newArcFromList(n),
		jobs:      p.Jobs,
		opsPerJob: p.OpsPerJob,
	}

	for j := 0; j < p.Jobs; j++ {
		first := OpNode(p.OpsPerJob, j, 0)
		g.addConjunctive(Source, first)
		for k := 1; k < p.OpsPerJob; k++ {
			g.addConjunctive(OpNode(p.OpsPerJob, j, k-1), OpNode(p.OpsPerJob, j, k))
		}
		last := OpNode(p.OpsPerJob, j, p.OpsPerJob-1)
		g.addConjunctive(last, Sink)
	}

	return g
}

func (g *Graph) addConjunctive(from, to int) {
	g.fwd.add(from, to)
	g.rev.add(to, from)
}

// NumNodes returns the total node count (2 + jobs*opsPerJob).
func (g *Graph) NumNodes() int { return g.n }

// Weight returns the node weight (operation duration; 0 for Source/Sink).
func (g *Graph) Weight(node int) int { return g.weight[node] }

// Snapshot captures the current arc counts, for use with Rollback.
type Snapshot struct {
	fwdMark, revMark int
}

func (g *Graph) Snapshot() Snapshot {
	return Snapshot{fwdMark: g.fwd.snapshot(), revMark: g.rev.snapshot()}
}

// Rollback restores the graph to a prior Snapshot, discarding any arcs
// added since. Used by the Shifting Bottleneck engine when a tentative
// machine sequence would introduce a cycle.
func (g *Graph) Rollback(s Snapshot) {
	g.fwd.rollbackTo(g.n, s.fwdMark)
	g.rev.rollbackTo(g.n, s.revMark)
}

// AddDisjunctiveArc adds a directed arc from→to (e.g. "op A precedes op B
// on this machine"). It does not itself check acyclicity; callers that
// need the guarantee should Snapshot before adding a batch and validate
// with LongestPath afterward, Rollback-ing on ErrCycleDetected.
func (g *Graph) AddDisjunctiveArc(from, to int) error {
	if from < 0 || from >= g.n || to < 0 || to >= g.n {
		return ErrUnknownNode
	}
	g.fwd.add(from, to)
	g.rev.add(to, from)

	return nil
}

// AddDisjunctiveSequence commits disjunctive arcs between consecutive
// operations in seq (in order), representing one machine's fixed
// sequence. It is the batch unit the Shifting Bottleneck engine commits
// per outer-loop iteration.
func (g *Graph) AddDisjunctiveSequence(seq []int) error {
	for i := 1; i < len(seq); i++ {
		if err := g.AddDisjunctiveArc(seq[i-1], seq[i]); err != nil {
			return err
		}
	}

	return nil
}
