package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FlowCollector bundles Prometheus metrics for the per-tick flow
// pipeline and provides a ready-to-serve /metrics handler. All record
// methods are nil-safe so the engine can run without metrics wired.
type FlowCollector struct {
	gatherer prometheus.Gatherer

	TickDurations *prometheus.HistogramVec
	TickTotal     *prometheus.CounterVec

	MaxFlowMbps   prometheus.Gauge
	FlowPaths     prometheus.Gauge
	ActiveLinks   prometheus.Gauge
	VisibleRelays prometheus.Gauge

	Augmentations prometheus.Counter
	ClampedLinks  prometheus.Counter
}

// NewFlowCollector registers the engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewFlowCollector(reg prometheus.Registerer) (*FlowCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mesh_tick_duration_seconds",
		Help:    "Wall-clock duration of one tick of the flow pipeline, labeled by tick status.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"status"})
	durations, err := registerHistogramVec(reg, durations, "mesh_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	ticks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_ticks_total",
		Help: "Total ticks processed, labeled by tick status (ok, missing_endpoint, aborted).",
	}, []string{"status"})
	ticks, err = registerCounterVec(reg, ticks, "mesh_ticks_total")
	if err != nil {
		return nil, err
	}

	maxFlow, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mesh_max_flow_mbps",
		Help: "Aggregate source-to-sink max flow of the latest tick, in Mbps.",
	}), "mesh_max_flow_mbps")
	if err != nil {
		return nil, err
	}
	paths, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mesh_flow_paths",
		Help: "Number of decomposed flow paths in the latest tick.",
	}), "mesh_flow_paths")
	if err != nil {
		return nil, err
	}
	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mesh_active_links",
		Help: "Number of physical links carrying flow in the latest tick.",
	}), "mesh_active_links")
	if err != nil {
		return nil, err
	}
	relays, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mesh_visible_relays",
		Help: "Number of relay nodes in the latest geometry snapshot.",
	}), "mesh_visible_relays")
	if err != nil {
		return nil, err
	}

	augment, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mesh_flow_augmentations_total",
		Help: "Total augmenting paths pushed by the max-flow solver.",
	}), "mesh_flow_augmentations_total")
	if err != nil {
		return nil, err
	}
	clamped, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mesh_rate_clamp_total",
		Help: "Active-rate assignments clamped to nominal link capacity; non-zero indicates a decomposition or unit inconsistency.",
	}), "mesh_rate_clamp_total")
	if err != nil {
		return nil, err
	}

	return &FlowCollector{
		gatherer:      gatherer,
		TickDurations: durations,
		TickTotal:     ticks,
		MaxFlowMbps:   maxFlow,
		FlowPaths:     paths,
		ActiveLinks:   active,
		VisibleRelays: relays,
		Augmentations: augment,
		ClampedLinks:  clamped,
	}, nil
}

// RecordTick counts a finished tick and observes its duration.
func (c *FlowCollector) RecordTick(status string, seconds float64) {
	if c == nil {
		return
	}
	if c.TickTotal != nil {
		c.TickTotal.WithLabelValues(status).Inc()
	}
	if c.TickDurations != nil {
		c.TickDurations.WithLabelValues(status).Observe(seconds)
	}
}

// RecordFlow updates the latest-tick gauges.
func (c *FlowCollector) RecordFlow(maxFlowMbps float64, paths, activeLinks, relays int) {
	if c == nil {
		return
	}
	if c.MaxFlowMbps != nil {
		c.MaxFlowMbps.Set(maxFlowMbps)
	}
	if c.FlowPaths != nil {
		c.FlowPaths.Set(float64(paths))
	}
	if c.ActiveLinks != nil {
		c.ActiveLinks.Set(float64(activeLinks))
	}
	if c.VisibleRelays != nil {
		c.VisibleRelays.Set(float64(relays))
	}
}

// AddAugmentations accumulates solver augmentation counts.
func (c *FlowCollector) AddAugmentations(n int) {
	if c == nil || c.Augmentations == nil || n <= 0 {
		return
	}
	c.Augmentations.Add(float64(n))
}

// AddClamped accumulates clamp diagnostics from the rate assigner.
func (c *FlowCollector) AddClamped(n int) {
	if c == nil || c.ClampedLinks == nil || n <= 0 {
		return
	}
	c.ClampedLinks.Add(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *FlowCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
