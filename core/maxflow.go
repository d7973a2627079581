package core

// FlowSolution reports the outcome of a max-flow run. The per-edge
// flow assignment lives on the graph's edges.
type FlowSolution struct {
	MaxFlowKbps   int64
	Augmentations int
}

// SolveMaxFlow computes the maximum source→sink flow on g using
// shortest-augmenting-path (Edmonds–Karp) max flow: BFS over positive
// residual capacity, augment by the path bottleneck, repeat until the
// sink is unreachable. BFS picks hop-shortest paths, which bounds the
// number of augmentations by O(V·E).
//
// All arithmetic is in integer Kbps, so each augmentation increases
// the flow by at least 1 and termination is guaranteed. A generous
// augmentation cap guards against bookkeeping bugs; exceeding it
// returns ErrNonTermination and the tick should be discarded.
func SolveMaxFlow(g *FlowGraph) (FlowSolution, error) {
	if g == nil || g.Source < 0 || g.Sink < 0 {
		return FlowSolution{}, nil
	}
	return solveMaxFlow(g, augmentationBound(g))
}

// augmentationBound is the default cap on augmenting paths: the O(V·E)
// Edmonds–Karp bound with slack for tiny graphs.
func augmentationBound(g *FlowGraph) int {
	edgeCount := 0
	for id := range g.Nodes {
		edgeCount += len(g.EdgesFrom(id))
	}
	return len(g.Nodes)*edgeCount + 64
}

func solveMaxFlow(g *FlowGraph, maxAugmentations int) (FlowSolution, error) {
	var sol FlowSolution

	parent := make([]*FlowEdge, len(g.Nodes))
	queue := make([]int, 0, len(g.Nodes))

	for {
		if sol.Augmentations > maxAugmentations {
			return sol, ErrNonTermination
		}

		// BFS from source over edges with positive residual capacity.
		for i := range parent {
			parent[i] = nil
		}
		queue = queue[:0]
		queue = append(queue, g.Source)
		visited := make([]bool, len(g.Nodes))
		visited[g.Source] = true

		found := false
	search:
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, e := range g.EdgesFrom(u) {
				if visited[e.To] || e.ResidualKbps() <= 0 {
					continue
				}
				visited[e.To] = true
				parent[e.To] = e
				if e.To == g.Sink {
					found = true
					break search
				}
				queue = append(queue, e.To)
			}
		}
		if !found {
			break
		}

		// Bottleneck residual capacity along the discovered path.
		bottleneck := int64(0)
		for e := parent[g.Sink]; e != nil; e = parent[e.From] {
			if r := e.ResidualKbps(); bottleneck == 0 || r < bottleneck {
				bottleneck = r
			}
		}

		for e := parent[g.Sink]; e != nil; e = parent[e.From] {
			push(e, bottleneck)
		}
		sol.MaxFlowKbps += bottleneck
		sol.Augmentations++
	}

	return sol, nil
}

// HasAugmentingPath reports whether any source→sink path with positive
// residual capacity remains. After a successful solve it must return
// false (the min-cut certificate of optimality).
func HasAugmentingPath(g *FlowGraph) bool {
	if g == nil || g.Source < 0 || g.Sink < 0 {
		return false
	}
	visited := make([]bool, len(g.Nodes))
	visited[g.Source] = true
	queue := []int{g.Source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range g.EdgesFrom(u) {
			if visited[e.To] || e.ResidualKbps() <= 0 {
				continue
			}
			if e.To == g.Sink {
				return true
			}
			visited[e.To] = true
			queue = append(queue, e.To)
		}
	}
	return false
}
