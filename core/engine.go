package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/relaymesh-simulator/internal/logging"
	"github.com/signalsfoundry/relaymesh-simulator/internal/observability"
)

// TickStatus classifies how a tick's computation ended. Every tick
// produces a well-formed TickResult regardless of status.
type TickStatus string

const (
	TickOK              TickStatus = "ok"
	TickMissingEndpoint TickStatus = "missing_endpoint"
	TickAborted         TickStatus = "aborted"
)

// TickResult is the complete engine output for one tick. It is a value
// object: the engine keeps no reference to it and nothing in it is
// shared with the next tick's computation.
type TickResult struct {
	Tick    int
	SimTime time.Time
	Status  TickStatus

	MaxFlowMbps float64
	Paths       []FlowPath
	ActiveLinks []CandidateLink

	LatencyPath PathResult
	MinimaxPath PathResult

	Augmentations int
	ClampedLinks  int
}

// Engine runs the per-tick flow pipeline: graph construction from
// geometry, max flow, path decomposition, active-rate assignment, and
// the two display path queries. It is single-threaded per tick; the
// graph and all flow state are owned by the running tick and discarded
// when Tick returns.
type Engine struct {
	cfg    BuildConfig
	budget LinkBudgetModel

	log     logging.Logger
	metrics *observability.FlowCollector
	tracer  trace.Tracer

	// maxAugmentations overrides the solver's default augmentation
	// bound when positive. Zero means the O(V·E) default.
	maxAugmentations int
}

// NewEngine constructs an engine. A nil logger is replaced by a noop
// logger; a nil collector disables metrics. Each engine instance gets
// a run_id so overlapping simulator runs can be told apart in logs.
func NewEngine(cfg BuildConfig, budget LinkBudgetModel, log logging.Logger, metrics *observability.FlowCollector) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	if budget == nil {
		budget = DefaultLinkBudget()
	}
	return &Engine{
		cfg:     cfg,
		budget:  budget,
		log:     log.With(logging.String("run_id", uuid.NewString())),
		metrics: metrics,
		tracer:  otel.Tracer("relaymesh/engine"),
	}
}

// Tick runs the whole pipeline on one geometry snapshot. It never
// panics out to the frame loop: endpoint gaps and solver aborts are
// reported through the result's Status.
func (e *Engine) Tick(ctx context.Context, tick int, simTime time.Time, snap GeometrySnapshot) TickResult {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	res := TickResult{Tick: tick, SimTime: simTime, Status: TickOK}

	ctx, span := e.tracer.Start(ctx, "engine.tick",
		trace.WithAttributes(
			attribute.Int("tick", tick),
			attribute.Int("relays", len(snap.Relays)),
		))
	defer span.End()

	built, err := e.buildGraph(ctx, snap)
	if err != nil {
		if errors.Is(err, ErrMissingEndpoint) {
			res.Status = TickMissingEndpoint
			e.log.Warn(ctx, "skipping tick: endpoint position unavailable",
				logging.Int("tick", tick))
		} else {
			res.Status = TickAborted
			e.log.Error(ctx, "graph construction failed",
				logging.Int("tick", tick),
				logging.String("error", err.Error()))
		}
		e.finish(&res, start)
		return res
	}

	sol, err := e.solve(ctx, built.Graph)
	if err != nil {
		// Non-termination guard tripped: fatal to this tick only.
		res.Status = TickAborted
		e.log.Error(ctx, "max-flow solver aborted",
			logging.Int("tick", tick),
			logging.Int("augmentations", sol.Augmentations),
			logging.String("error", err.Error()))
		e.finish(&res, start)
		return res
	}
	res.MaxFlowMbps = kbpsToMbps(sol.MaxFlowKbps)
	res.Augmentations = sol.Augmentations

	dec := e.decompose(ctx, built.Graph)
	if dec.TotalKbps != sol.MaxFlowKbps {
		// Decomposition must exhaust the flow exactly; a remainder is
		// an implementation defect, not an expected outcome.
		e.log.Error(ctx, "flow decomposition incomplete",
			logging.Int("tick", tick),
			logging.Any("decomposed_kbps", dec.TotalKbps),
			logging.Any("max_flow_kbps", sol.MaxFlowKbps))
	}
	res.Paths = dec.Paths

	res.ClampedLinks = e.assignRates(ctx, built.Links, dec.PairFlowKbps)
	if res.ClampedLinks > 0 {
		e.log.Warn(ctx, "active rate clamped to nominal capacity",
			logging.Int("tick", tick),
			logging.Int("links", res.ClampedLinks))
	}
	res.ActiveLinks = built.Links

	res.LatencyPath, res.MinimaxPath = e.findPaths(ctx, built.Links, snap)

	e.metrics.RecordFlow(res.MaxFlowMbps, len(res.Paths), countActive(res.ActiveLinks), len(snap.Relays))
	e.metrics.AddAugmentations(sol.Augmentations)
	e.metrics.AddClamped(res.ClampedLinks)
	e.finish(&res, start)
	return res
}

func (e *Engine) buildGraph(ctx context.Context, snap GeometrySnapshot) (*BuildResult, error) {
	_, span := e.tracer.Start(ctx, "engine.build_graph")
	defer span.End()
	return BuildGraph(snap, e.cfg, e.budget)
}

func (e *Engine) solve(ctx context.Context, g *FlowGraph) (FlowSolution, error) {
	_, span := e.tracer.Start(ctx, "engine.max_flow")
	defer span.End()
	bound := e.maxAugmentations
	if bound <= 0 {
		bound = augmentationBound(g)
	}
	sol, err := solveMaxFlow(g, bound)
	span.SetAttributes(attribute.Int("augmentations", sol.Augmentations))
	return sol, err
}

func (e *Engine) decompose(ctx context.Context, g *FlowGraph) Decomposition {
	_, span := e.tracer.Start(ctx, "engine.decompose")
	defer span.End()
	return DecomposeFlow(g)
}

func (e *Engine) assignRates(ctx context.Context, links []CandidateLink, pairFlow map[string]int64) int {
	_, span := e.tracer.Start(ctx, "engine.assign_rates")
	defer span.End()
	return AssignActiveRates(links, pairFlow)
}

func (e *Engine) findPaths(ctx context.Context, links []CandidateLink, snap GeometrySnapshot) (PathResult, PathResult) {
	_, span := e.tracer.Start(ctx, "engine.path_queries")
	defer span.End()
	from, to := snap.SourceName, snap.SinkName
	if from == "" {
		from = "source"
	}
	if to == "" {
		to = "sink"
	}
	return LatencyPath(links, from, to), MinimaxPath(links, from, to)
}

func (e *Engine) finish(res *TickResult, start time.Time) {
	e.metrics.RecordTick(string(res.Status), time.Since(start).Seconds())
}

func countActive(links []CandidateLink) int {
	n := 0
	for _, l := range links {
		if l.ActiveRateMbps > 0 {
			n++
		}
	}
	return n
}
