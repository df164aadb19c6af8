package dag

// LongestPath computes, for every node, the length of the longest path
// from source, using Kahn's algorithm: dist[source] = 0,
// and dist[v] = max over predecessors u of (dist[u] + weight[u]).
//
// When reverse is true, arcs are traversed in the reverse direction —
// this is how tails (q-values: longest path from a node to Sink,
// inclusive of the node's own weight) are computed, by rooting the
// reverse traversal at Sink.
//
// Returns ErrCycleDetected if Kahn's algorithm cannot drain every node
// (ties in-degree zero to a process queue; a node never reaching
// in-degree zero means a cycle survived disjunctive-arc insertion).
func (g *Graph) LongestPath(source int, reverse bool) ([]int, error) {
	arcs := &g.fwd
	if reverse {
		arcs = &g.rev
	}

	inDegree := make([]int, g.n)
	for v := 0; v < g.n; v++ {
		for e := arcs.head[v]; e != -1; e = arcs.next[e] {
			inDegree[arcs.to[e]]++
		}
	}

	dist := make([]int, g.n)
	for v := range dist {
		dist[v] = minInt
	}
	dist[source] = 0

	queue := make([]int, 0, g.n)
	for v := 0; v < g.n; v++ {
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	processed := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		processed++

		if dist[u] == minInt {
			// Unreachable from source via this direction; contributes no
			// relaxation, but must still be drained to confirm acyclicity.
			dist[u] = 0
		}

		for e := arcs.head[u]; e != -1; e = arcs.next[e] {
			v := int(arcs.to[e])
			cand := dist[u] + g.weight[u]
			if cand > dist[v] {
				dist[v] = cand
			}
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if processed != g.n {
		return nil, ErrCycleDetected
	}

	return dist, nil
}

// minInt is a sentinel "not yet reached" marker distinguishable from any
// real longest-path distance, which is always >= 0 once reached.
const minInt = -1 << 62

// EarliestStarts returns est[v] = longest path from Source to v over the
// forward graph ("release times r_i").
func (g *Graph) EarliestStarts() ([]int, error) {
	return g.LongestPath(Source, false)
}

// Tails returns q[v] = longest path from v to Sink, inclusive of v's own
// weight. Internally this runs the same Kahn's
// algorithm on the reversed graph rooted at Sink, then adds back each
// node's own weight to convert "distance to Sink" into "tail length
// including this operation" per the q_i definition.
func (g *Graph) Tails() ([]int, error) {
	dist, err := g.LongestPath(Sink, true)
	if err != nil {
		return nil, err
	}

	q := make([]int, g.n)
	for v := 0; v < g.n; v++ {
		q[v] = dist[v] + g.weight[v]
	}

	return q, nil
}
