package core

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// relayCaps describes one relay's uplink/downlink/transit capacities
// in Kbps for randomized two-layer topologies.
type relayCaps struct {
	Up, Down, Transit int64
}

func buildRandomMesh(relays []relayCaps, directKbps int64) *FlowGraph {
	g := newFlowGraph()
	g.Source = g.AddNode(NodeSource, "source")
	g.Sink = g.AddNode(NodeSink, "sink")
	for i, rc := range relays {
		name := "r" + string(rune('a'+i))
		in := g.AddNode(NodeRelayIn, name)
		out := g.AddNode(NodeRelayOut, name)
		g.AddEdge(in, out, rc.Transit, 0, 0, false)
		g.AddEdge(g.Source, in, rc.Up, 100, 0.01, true)
		g.AddEdge(out, g.Sink, rc.Down, 100, 0.01, true)
	}
	if directKbps > 0 {
		g.AddEdge(g.Source, g.Sink, directKbps, 200, 0.02, true)
	}
	return g
}

func genRelayCaps() gopter.Gen {
	return gen.Struct(reflect.TypeOf(relayCaps{}), map[string]gopter.Gen{
		"Up":      gen.Int64Range(0, 500000),
		"Down":    gen.Int64Range(0, 500000),
		"Transit": gen.Int64Range(1, 500000),
	})
}

// TestMaxFlowInvariants checks properties that must hold for every
// solvable topology, not just the hand-picked ones.
func TestMaxFlowInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("flow bounded by the trivial cuts", prop.ForAll(
		func(relays []relayCaps, direct int64) bool {
			g := buildRandomMesh(relays, direct)
			sol, err := SolveMaxFlow(g)
			if err != nil {
				return false
			}

			var outCap, inCap int64
			for _, rc := range relays {
				outCap += rc.Up
				inCap += rc.Down
			}
			outCap += direct
			inCap += direct
			return sol.MaxFlowKbps <= outCap && sol.MaxFlowKbps <= inCap
		},
		gen.SliceOf(genRelayCaps()),
		gen.Int64Range(0, 500000),
	))

	properties.Property("no augmenting path after solve", prop.ForAll(
		func(relays []relayCaps, direct int64) bool {
			g := buildRandomMesh(relays, direct)
			if _, err := SolveMaxFlow(g); err != nil {
				return false
			}
			return !HasAugmentingPath(g)
		},
		gen.SliceOf(genRelayCaps()),
		gen.Int64Range(0, 500000),
	))

	properties.Property("residual symmetry holds on every edge", prop.ForAll(
		func(relays []relayCaps, direct int64) bool {
			g := buildRandomMesh(relays, direct)
			if _, err := SolveMaxFlow(g); err != nil {
				return false
			}
			for id := range g.Nodes {
				for _, e := range g.EdgesFrom(id) {
					if e.FlowKbps != -e.Reverse().FlowKbps {
						return false
					}
					if e.FlowKbps > e.CapacityKbps {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(genRelayCaps()),
		gen.Int64Range(0, 500000),
	))

	properties.Property("decomposition exhausts the flow exactly", prop.ForAll(
		func(relays []relayCaps, direct int64) bool {
			g := buildRandomMesh(relays, direct)
			sol, err := SolveMaxFlow(g)
			if err != nil {
				return false
			}
			dec := DecomposeFlow(g)
			if dec.TotalKbps != sol.MaxFlowKbps {
				return false
			}
			var sum int64
			for _, p := range dec.Paths {
				if p.FlowKbps <= 0 {
					return false
				}
				sum += p.FlowKbps
			}
			return sum == sol.MaxFlowKbps
		},
		gen.SliceOf(genRelayCaps()),
		gen.Int64Range(0, 500000),
	))

	properties.Property("adding a relay never decreases the flow", prop.ForAll(
		func(relays []relayCaps, extra relayCaps) bool {
			base := buildRandomMesh(relays, 0)
			solBase, err := SolveMaxFlow(base)
			if err != nil {
				return false
			}
			grown := buildRandomMesh(append(append([]relayCaps{}, relays...), extra), 0)
			solGrown, err := SolveMaxFlow(grown)
			if err != nil {
				return false
			}
			return solGrown.MaxFlowKbps >= solBase.MaxFlowKbps
		},
		gen.SliceOf(genRelayCaps()),
		genRelayCaps(),
	))

	properties.Property("raising one edge capacity never lowers the flow", prop.ForAll(
		func(relays []relayCaps, direct int64, pick int, extraKbps int64) bool {
			base := buildRandomMesh(relays, direct)
			solBase, err := SolveMaxFlow(base)
			if err != nil {
				return false
			}

			grown := buildRandomMesh(relays, direct)
			var edges []*FlowEdge
			for id := range grown.Nodes {
				edges = append(edges, grown.EdgesFrom(id)...)
			}
			if len(edges) == 0 {
				return solBase.MaxFlowKbps == 0
			}
			edges[pick%len(edges)].CapacityKbps += extraKbps

			solGrown, err := SolveMaxFlow(grown)
			if err != nil {
				return false
			}
			return solGrown.MaxFlowKbps >= solBase.MaxFlowKbps
		},
		gen.SliceOf(genRelayCaps()),
		gen.Int64Range(0, 500000),
		gen.IntRange(0, 1<<20),
		gen.Int64Range(0, 500000),
	))

	properties.TestingRun(t)
}
