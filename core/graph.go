package core

import "math"

// NodeKind classifies nodes of the tick flow graph. Every relay is
// split into an In and an Out terminal joined by a transit edge, which
// is how its port-derived throughput bound is enforced.
type NodeKind int

const (
	NodeSource NodeKind = iota
	NodeSink
	NodeRelayIn
	NodeRelayOut
)

// unboundedKbps stands in for "no capacity limit" on relay transit
// edges. Large enough to never be a bottleneck, small enough that
// summing a path of them cannot overflow int64.
const unboundedKbps int64 = 1 << 50

// FlowNode is one vertex of a tick's flow graph. PhysName is the name
// of the physical node it belongs to (endpoint name or relay ID); the
// two terminals of a split relay share it. IDs are only stable within
// the tick that built the graph.
type FlowNode struct {
	ID       int
	Kind     NodeKind
	PhysName string
}

// FlowEdge is a directed edge with integer-Kbps capacity bookkeeping.
// Every edge is paired with a reverse residual edge of zero nominal
// capacity; pushing flow on one retracts it from the other, so
// FlowKbps(u→v) == -FlowKbps(v→u) holds at all times.
//
// DistanceKm and LatencySec are set only on physical edges. Relay
// transit edges and residual reverses carry none.
type FlowEdge struct {
	From, To     int
	CapacityKbps int64
	FlowKbps     int64

	DistanceKm float64
	LatencySec float64
	Physical   bool

	rev *FlowEdge
}

// ResidualKbps returns the remaining pushable capacity on this edge.
func (e *FlowEdge) ResidualKbps() int64 {
	return e.CapacityKbps - e.FlowKbps
}

// Reverse returns the paired residual edge.
func (e *FlowEdge) Reverse() *FlowEdge {
	return e.rev
}

// FlowGraph is the capacitated directed graph built fresh for each
// tick. It is owned exclusively by the tick's computation and is
// discarded afterwards.
type FlowGraph struct {
	Nodes []FlowNode

	Source int
	Sink   int

	adj [][]*FlowEdge
}

func newFlowGraph() *FlowGraph {
	return &FlowGraph{Source: -1, Sink: -1}
}

// AddNode appends a node and returns its ID.
func (g *FlowGraph) AddNode(kind NodeKind, physName string) int {
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, FlowNode{ID: id, Kind: kind, PhysName: physName})
	g.adj = append(g.adj, nil)
	return id
}

// AddEdge inserts a directed edge plus its zero-capacity reverse
// residual edge and returns the forward edge.
func (g *FlowGraph) AddEdge(from, to int, capacityKbps int64, distanceKm, latencySec float64, physical bool) *FlowEdge {
	fwd := &FlowEdge{
		From:         from,
		To:           to,
		CapacityKbps: capacityKbps,
		DistanceKm:   distanceKm,
		LatencySec:   latencySec,
		Physical:     physical,
	}
	rev := &FlowEdge{From: to, To: from}
	fwd.rev = rev
	rev.rev = fwd
	g.adj[from] = append(g.adj[from], fwd)
	g.adj[to] = append(g.adj[to], rev)
	return fwd
}

// EdgesFrom returns the outgoing edges of a node, residual reverses
// included.
func (g *FlowGraph) EdgesFrom(id int) []*FlowEdge {
	if id < 0 || id >= len(g.adj) {
		return nil
	}
	return g.adj[id]
}

// push moves amount Kbps of flow along e, retracting the same amount
// from its residual pair.
func push(e *FlowEdge, amount int64) {
	e.FlowKbps += amount
	e.rev.FlowKbps -= amount
}

// mbpsToKbps converts an interface-level Mbps value into the integer
// Kbps unit used by all flow arithmetic. The conversion happens exactly
// once, at graph-build time.
func mbpsToKbps(mbps float64) int64 {
	if mbps <= 0 {
		return 0
	}
	return int64(math.Round(mbps * 1000))
}

// kbpsToMbps converts back at the reporting boundary.
func kbpsToMbps(kbps int64) float64 {
	return float64(kbps) / 1000
}
