// core/scenario_loader.go
package core

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/relaymesh-simulator/model"
)

// Scenario summarises what was loaded: the build configuration, the
// link budget, and the relay population. Mainly useful for logging
// from main().
type Scenario struct {
	Build    BuildConfig
	Budget   *InverseSquareBudget
	RelayIDs []string
}

// internal YAML shapes, unexported so we are free to evolve them.
type scenarioYAML struct {
	Source bodyYAML `yaml:"source" validate:"required"`
	Sink   bodyYAML `yaml:"sink" validate:"required"`

	Rings  *ringsYAML  `yaml:"rings"`
	Relays []relayYAML `yaml:"relays"`

	Budget      budgetYAML      `yaml:"budget"`
	Constraints constraintsYAML `yaml:"constraints"`
}

type bodyYAML struct {
	ID       string        `yaml:"id" validate:"required"`
	Name     string        `yaml:"name"`
	Position *positionYAML `yaml:"position"`
	Orbit    *orbitYAML    `yaml:"orbit"`
	TLE      []string      `yaml:"tle" validate:"omitempty,len=2"`
}

type relayYAML struct {
	ID           string        `yaml:"id" validate:"required"`
	Name         string        `yaml:"name"`
	Position     *positionYAML `yaml:"position"`
	Orbit        *orbitYAML    `yaml:"orbit"`
	TLE          []string      `yaml:"tle" validate:"omitempty,len=2"`
	PortRateMbps float64       `yaml:"port_rate_mbps" validate:"gte=0"`
}

type ringsYAML struct {
	RingCount     int     `yaml:"ring_count" validate:"gt=0"`
	RelaysPerRing int     `yaml:"relays_per_ring" validate:"gt=0"`
	PortRateMbps  float64 `yaml:"port_rate_mbps" validate:"gte=0"`
}

type positionYAML struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type orbitYAML struct {
	RadiusKm   float64 `yaml:"radius_km" validate:"gt=0"`
	PeriodDays float64 `yaml:"period_days" validate:"gt=0"`
	PhaseRad   float64 `yaml:"phase_rad"`
}

type budgetYAML struct {
	BaselineMbps float64 `yaml:"baseline_mbps" validate:"gte=0"`
	BaselineKm   float64 `yaml:"baseline_km" validate:"gte=0"`
	Improvement  float64 `yaml:"improvement" validate:"gte=0"`
}

type constraintsYAML struct {
	MaxLinkDistanceKm   float64 `yaml:"max_link_distance_km" validate:"gte=0"`
	MinRateMbps         float64 `yaml:"min_rate_mbps" validate:"gte=0"`
	OcclusionRadiusKm   float64 `yaml:"occlusion_radius_km" validate:"gte=0"`
	UnboundedTransit    bool    `yaml:"unbounded_transit"`
	DefaultPortRateMbps float64 `yaml:"default_port_rate_mbps" validate:"gte=0"`
}

// LoadScenario reads a YAML scenario from r, populates the
// KnowledgeBase with the endpoint bodies and relay population, and
// returns the engine configuration it carried.
//
// Structural problems (bad YAML, failed validation, conflicting relay
// IDs) are errors; everything else is left to KB invariants, the same
// way direct Add*() calls behave in tests.
func LoadScenario(kb *KnowledgeBase, r io.Reader) (*Scenario, error) {
	if kb == nil {
		return nil, fmt.Errorf("LoadScenario: kb is nil")
	}

	var payload scenarioYAML
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}
	if err := validator.New().Struct(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: validation failed: %w", err)
	}

	source := bodyFromYAML(payload.Source)
	sink := bodyFromYAML(payload.Sink)
	if err := kb.SetSource(source); err != nil {
		return nil, err
	}
	if err := kb.SetSink(sink); err != nil {
		return nil, err
	}

	scenario := &Scenario{
		Budget: budgetFromYAML(payload.Budget),
		Build: BuildConfig{
			MaxLinkDistanceKm:   payload.Constraints.MaxLinkDistanceKm,
			MinRateMbps:         payload.Constraints.MinRateMbps,
			OcclusionRadiusKm:   payload.Constraints.OcclusionRadiusKm,
			UnboundedTransit:    payload.Constraints.UnboundedTransit,
			DefaultPortRateMbps: payload.Constraints.DefaultPortRateMbps,
		},
	}

	// 1) Generated rings, if requested.
	if payload.Rings != nil {
		relays, err := BuildConstellation(source, sink, RingSpec{
			RingCount:     payload.Rings.RingCount,
			RelaysPerRing: payload.Rings.RelaysPerRing,
			PortRateMbps:  payload.Rings.PortRateMbps,
		})
		if err != nil {
			return nil, fmt.Errorf("LoadScenario: rings: %w", err)
		}
		for _, relay := range relays {
			if err := kb.AddRelay(relay); err != nil {
				return nil, fmt.Errorf("LoadScenario: %w", err)
			}
			scenario.RelayIDs = append(scenario.RelayIDs, relay.ID)
		}
	}

	// 2) Hand-placed relays.
	for _, jr := range payload.Relays {
		relay := &model.RelayDefinition{
			ID:           jr.ID,
			Name:         jr.Name,
			PortRateMbps: jr.PortRateMbps,
		}
		applyMotion(&relay.MotionSource, &relay.Coordinates, &relay.Orbit,
			&relay.TLELine1, &relay.TLELine2, jr.Position, jr.Orbit, jr.TLE)
		if err := kb.AddRelay(relay); err != nil {
			return nil, fmt.Errorf("LoadScenario: %w", err)
		}
		scenario.RelayIDs = append(scenario.RelayIDs, jr.ID)
	}

	return scenario, nil
}

func bodyFromYAML(b bodyYAML) *model.BodyDefinition {
	body := &model.BodyDefinition{ID: b.ID, Name: b.Name}
	applyMotion(&body.MotionSource, &body.Coordinates, &body.Orbit,
		&body.TLELine1, &body.TLELine2, b.Position, b.Orbit, b.TLE)
	return body
}

// applyMotion maps the optional position/orbit/tle stanzas onto a
// definition. Orbit wins over position; TLE wins over both.
func applyMotion(src *model.MotionSource, coords *model.Position, orbit *model.CircularOrbit,
	tle1, tle2 *string, pos *positionYAML, orb *orbitYAML, tle []string) {
	switch {
	case len(tle) == 2:
		*src = model.MotionSourceTLE
		*tle1 = tle[0]
		*tle2 = tle[1]
	case orb != nil:
		*src = model.MotionSourceCircular
		*orbit = model.CircularOrbit{
			RadiusKm:   orb.RadiusKm,
			PeriodDays: orb.PeriodDays,
			PhaseRad:   orb.PhaseRad,
		}
	case pos != nil:
		*src = model.MotionSourceStatic
		*coords = model.Position{X: pos.X, Y: pos.Y, Z: pos.Z}
	default:
		*src = model.MotionSourceUnknown
	}
}

func budgetFromYAML(b budgetYAML) *InverseSquareBudget {
	budget := DefaultLinkBudget()
	if b.BaselineMbps > 0 {
		budget.BaselineMbps = b.BaselineMbps
	}
	if b.BaselineKm > 0 {
		budget.BaselineKm = b.BaselineKm
	}
	if b.Improvement > 0 {
		budget.Improvement = b.Improvement
	}
	return budget
}
