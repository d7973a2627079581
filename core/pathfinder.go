package core

import (
	"container/heap"
	"math"
)

// PathResult is the outcome of a shortest-path query over the
// undirected physical link graph. Reachable is false when no path
// exists; callers display "no link" rather than treating it as an
// error.
type PathResult struct {
	Reachable bool
	Nodes     []string

	// MetricSeconds is the accumulated latency for LatencyPath and the
	// worst single-hop latency for MinimaxPath.
	MetricSeconds float64

	DistanceKm float64
}

// LatencyPath returns the minimum-total-latency route between two
// physical nodes over the candidate links. Weights are one-way hop
// latencies, non-negative by construction, so plain Dijkstra applies.
func LatencyPath(links []CandidateLink, from, to string) PathResult {
	return dijkstra(links, from, to, func(pathMetric, hop float64) float64 {
		return pathMetric + hop
	})
}

// MinimaxPath returns the route whose worst single hop is smallest.
// Same Dijkstra skeleton with max() in place of summation: the metric
// propagated to a neighbour is the larger of the path's worst hop so
// far and the new hop's latency. Characterises bottleneck link quality
// independent of hop count.
func MinimaxPath(links []CandidateLink, from, to string) PathResult {
	return dijkstra(links, from, to, math.Max)
}

type halfEdge struct {
	to     string
	weight float64
	dist   float64
}

func dijkstra(links []CandidateLink, from, to string, combine func(pathMetric, hop float64) float64) PathResult {
	adj := make(map[string][]halfEdge, len(links))
	for _, l := range links {
		adj[l.A] = append(adj[l.A], halfEdge{to: l.B, weight: l.LatencySec, dist: l.DistanceKm})
		adj[l.B] = append(adj[l.B], halfEdge{to: l.A, weight: l.LatencySec, dist: l.DistanceKm})
	}

	dist := map[string]float64{from: 0}
	distKm := map[string]float64{from: 0}
	prev := map[string]string{}
	settled := map[string]bool{}

	pq := &nodeQueue{{name: from, metric: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(nodeItem)
		if settled[cur.name] {
			continue
		}
		settled[cur.name] = true
		if cur.name == to {
			break
		}
		for _, e := range adj[cur.name] {
			if settled[e.to] {
				continue
			}
			cand := combine(cur.metric, e.weight)
			if d, ok := dist[e.to]; !ok || cand < d {
				dist[e.to] = cand
				distKm[e.to] = distKm[cur.name] + e.dist
				prev[e.to] = cur.name
				heap.Push(pq, nodeItem{name: e.to, metric: cand})
			}
		}
	}

	if !settled[to] {
		return PathResult{}
	}

	var nodes []string
	for cur := to; ; {
		nodes = append(nodes, cur)
		if cur == from {
			break
		}
		cur = prev[cur]
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	return PathResult{
		Reachable:     true,
		Nodes:         nodes,
		MetricSeconds: dist[to],
		DistanceKm:    distKm[to],
	}
}

type nodeItem struct {
	name   string
	metric float64
}

type nodeQueue []nodeItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].metric < q[j].metric }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(nodeItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
