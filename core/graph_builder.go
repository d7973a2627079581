package core

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrMissingEndpoint means the source or sink position was not
	// available this tick. The caller should skip flow computation and
	// report an empty result, not crash.
	ErrMissingEndpoint = errors.New("source or sink position unavailable")

	// ErrNonTermination means the max-flow solver exceeded its
	// augmentation bound. It should never occur with non-negative
	// integer capacities; treat as fatal to this tick only.
	ErrNonTermination = errors.New("max-flow augmentation bound exceeded")
)

// RelaySnapshot is one relay's instantaneous geometry plus its
// port-derived throughput bound.
type RelaySnapshot struct {
	ID           string
	Pos          Vec3
	PortRateMbps float64
}

// GeometrySnapshot is the complete per-tick engine input: endpoint and
// relay positions in a consistent unit (km).
type GeometrySnapshot struct {
	SourceName string
	SinkName   string

	SourcePos Vec3
	SinkPos   Vec3
	HasSource bool
	HasSink   bool

	Relays []RelaySnapshot
}

// BuildConfig holds the physical-constraint knobs for graph
// construction.
type BuildConfig struct {
	// MaxLinkDistanceKm drops candidate links longer than this. 0 means
	// no distance cutoff.
	MaxLinkDistanceKm float64

	// MinRateMbps drops candidate links whose budget rate falls below
	// the minimum acceptable throughput.
	MinRateMbps float64

	// OcclusionRadiusKm blocks links whose segment passes within this
	// radius of the origin (solar conjunction for heliocentric
	// scenarios). 0 disables the check.
	OcclusionRadiusKm float64

	// UnboundedTransit, when set, gives every relay's internal
	// In→Out edge effectively unlimited capacity instead of its
	// port-derived bound.
	UnboundedTransit bool

	// DefaultPortRateMbps substitutes for relays that declare no bound.
	DefaultPortRateMbps float64
}

// CandidateLink is one undirected physical link that survived the
// range, occlusion and minimum-rate filters. Endpoints are in
// canonical order (A < B).
type CandidateLink struct {
	A, B       string
	DistanceKm float64
	LatencySec float64
	RateMbps   float64

	// ActiveRateMbps is filled in by the rate assigner after flow
	// decomposition; zero until then.
	ActiveRateMbps float64
}

// BuildResult pairs the tick's flow graph with the undirected
// candidate link list the path finder and rate assigner work on.
type BuildResult struct {
	Graph *FlowGraph
	Links []CandidateLink
}

// BuildGraph converts a geometry snapshot into a capacitated flow
// graph. Each relay becomes an In and an Out terminal with a transit
// edge between them; candidate arcs are Source→RelayIn, RelayOut→Sink,
// RelayOut→RelayIn for every ordered relay pair, and Source→Sink.
//
// The pairwise scan is O(R²) in the relay count, which is fine for
// meshes up to a few hundred relays per tick. Beyond that a spatial
// index should replace the all-pairs distance check.
func BuildGraph(snap GeometrySnapshot, cfg BuildConfig, budget LinkBudgetModel) (*BuildResult, error) {
	if budget == nil {
		return nil, fmt.Errorf("BuildGraph: nil link budget model")
	}
	if !snap.HasSource || !snap.HasSink {
		return nil, fmt.Errorf("%w: source=%v sink=%v", ErrMissingEndpoint, snap.HasSource, snap.HasSink)
	}

	sourceName := snap.SourceName
	if sourceName == "" {
		sourceName = "source"
	}
	sinkName := snap.SinkName
	if sinkName == "" {
		sinkName = "sink"
	}

	g := newFlowGraph()
	g.Source = g.AddNode(NodeSource, sourceName)
	g.Sink = g.AddNode(NodeSink, sinkName)

	type relayNodes struct {
		in, out int
		pos     Vec3
	}
	relays := make([]relayNodes, len(snap.Relays))
	for i, r := range snap.Relays {
		in := g.AddNode(NodeRelayIn, r.ID)
		out := g.AddNode(NodeRelayOut, r.ID)

		transitKbps := unboundedKbps
		if !cfg.UnboundedTransit {
			rate := r.PortRateMbps
			if rate <= 0 {
				rate = cfg.DefaultPortRateMbps
			}
			if rate > 0 {
				transitKbps = mbpsToKbps(rate)
			}
		}
		g.AddEdge(in, out, transitKbps, 0, 0, false)
		relays[i] = relayNodes{in: in, out: out, pos: r.Pos}
	}

	links := make(map[string]CandidateLink)
	addArc := func(from, to int, fromPos, toPos Vec3, nameA, nameB string) {
		dist := fromPos.DistanceTo(toPos)
		if cfg.MaxLinkDistanceKm > 0 && dist > cfg.MaxLinkDistanceKm {
			return
		}
		if !hasLineOfSight(fromPos, toPos, cfg.OcclusionRadiusKm) {
			return
		}
		rate := budget.RateMbps(dist)
		if rate < cfg.MinRateMbps {
			return
		}
		lat := budget.LatencySeconds(dist)
		g.AddEdge(from, to, mbpsToKbps(rate), dist, lat, true)

		key := pairKey(nameA, nameB)
		if _, ok := links[key]; !ok {
			a, b := canonicalPair(nameA, nameB)
			links[key] = CandidateLink{A: a, B: b, DistanceKm: dist, LatencySec: lat, RateMbps: rate}
		}
	}

	for i, r := range relays {
		addArc(g.Source, r.in, snap.SourcePos, r.pos, sourceName, snap.Relays[i].ID)
		addArc(r.out, g.Sink, r.pos, snap.SinkPos, snap.Relays[i].ID, sinkName)
		for j, other := range relays {
			if i == j {
				continue
			}
			addArc(r.out, other.in, r.pos, other.pos, snap.Relays[i].ID, snap.Relays[j].ID)
		}
	}
	addArc(g.Source, g.Sink, snap.SourcePos, snap.SinkPos, sourceName, sinkName)

	out := &BuildResult{Graph: g, Links: make([]CandidateLink, 0, len(links))}
	for _, l := range links {
		out.Links = append(out.Links, l)
	}
	sort.Slice(out.Links, func(i, j int) bool {
		if out.Links[i].A != out.Links[j].A {
			return out.Links[i].A < out.Links[j].A
		}
		return out.Links[i].B < out.Links[j].B
	})
	return out, nil
}

func canonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

func pairKey(a, b string) string {
	a, b = canonicalPair(a, b)
	return a + "|" + b
}
