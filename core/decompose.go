package core

// FlowPath is one decomposed source→sink path. Nodes are physical
// names (endpoint names and relay IDs; the In/Out split is collapsed).
// DistanceKm sums only hops that carry physical distance.
type FlowPath struct {
	Nodes      []string
	FlowKbps   int64
	FlowMbps   float64
	DistanceKm float64
}

// Decomposition is the result of expressing a solved flow as a sum of
// simple path flows, plus the per-physical-pair aggregation the rate
// assigner consumes.
type Decomposition struct {
	Paths []FlowPath

	// PairFlowKbps aggregates path flow per undirected physical pair,
	// keyed by pairKey of the endpoint names.
	PairFlowKbps map[string]int64

	TotalKbps int64
}

// DecomposeFlow extracts concrete paths from the flow assignment left
// on g by SolveMaxFlow. It treats the positive-flow subgraph as its
// own capacity network and repeatedly peels off a BFS path at its
// bottleneck until nothing remains. Flow conservation guarantees the
// peeling exhausts the flow exactly; a remainder would indicate a
// solver defect, which the engine checks via TotalKbps.
func DecomposeFlow(g *FlowGraph) Decomposition {
	dec := Decomposition{PairFlowKbps: make(map[string]int64)}
	if g == nil || g.Source < 0 || g.Sink < 0 {
		return dec
	}

	// Unused positive flow per forward edge.
	remaining := make(map[*FlowEdge]int64)
	for id := range g.Nodes {
		for _, e := range g.EdgesFrom(id) {
			if e.FlowKbps > 0 {
				remaining[e] = e.FlowKbps
			}
		}
	}

	parent := make([]*FlowEdge, len(g.Nodes))
	for {
		for i := range parent {
			parent[i] = nil
		}
		visited := make([]bool, len(g.Nodes))
		visited[g.Source] = true
		queue := []int{g.Source}

		found := false
	search:
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, e := range g.EdgesFrom(u) {
				if visited[e.To] || remaining[e] <= 0 {
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

		// Bottleneck of unused flow along the path.
		bottleneck := int64(0)
		for e := parent[g.Sink]; e != nil; e = parent[e.From] {
			if r := remaining[e]; bottleneck == 0 || r < bottleneck {
				bottleneck = r
			}
		}

		// Walk sink→source collecting edges, then reverse into a path.
		var edges []*FlowEdge
		for e := parent[g.Sink]; e != nil; e = parent[e.From] {
			remaining[e] -= bottleneck
			edges = append(edges, e)
		}
		for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
			edges[i], edges[j] = edges[j], edges[i]
		}

		path := FlowPath{FlowKbps: bottleneck, FlowMbps: kbpsToMbps(bottleneck)}
		path.Nodes = append(path.Nodes, g.Nodes[edges[0].From].PhysName)
		for _, e := range edges {
			name := g.Nodes[e.To].PhysName
			if name != path.Nodes[len(path.Nodes)-1] {
				path.Nodes = append(path.Nodes, name)
			}
			if e.Physical {
				path.DistanceKm += e.DistanceKm
				key := pairKey(g.Nodes[e.From].PhysName, g.Nodes[e.To].PhysName)
				dec.PairFlowKbps[key] += bottleneck
			}
		}

		dec.Paths = append(dec.Paths, path)
		dec.TotalKbps += bottleneck
	}

	return dec
}
