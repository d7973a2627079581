package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/relaymesh-simulator/model"
)

// RingSpec describes a generated relay constellation: concentric
// circular rings between the source and sink orbital radii, each ring
// holding an equal number of evenly phased relays.
type RingSpec struct {
	RingCount     int
	RelaysPerRing int

	// PortRateMbps applies to every generated relay.
	PortRateMbps float64
}

// BuildConstellation expands a ring specification into concrete relay
// definitions. Ring radii are spaced evenly strictly between the two
// endpoint orbits; orbital periods follow Kepler's third law scaled
// from the source body's orbit; successive rings are phase-staggered
// by half a slot so relays of adjacent rings interleave.
func BuildConstellation(source, sink *model.BodyDefinition, spec RingSpec) ([]*model.RelayDefinition, error) {
	if source == nil || sink == nil {
		return nil, fmt.Errorf("%w: constellation needs both endpoint bodies", ErrBodyBadInput)
	}
	if source.Orbit.RadiusKm <= 0 || sink.Orbit.RadiusKm <= 0 {
		return nil, fmt.Errorf("%w: endpoint bodies need circular orbits", ErrBodyBadInput)
	}
	if spec.RingCount <= 0 || spec.RelaysPerRing <= 0 {
		return nil, fmt.Errorf("ring spec must be positive: rings=%d relays_per_ring=%d",
			spec.RingCount, spec.RelaysPerRing)
	}

	rSrc := source.Orbit.RadiusKm
	rSnk := sink.Orbit.RadiusKm
	slot := 2 * math.Pi / float64(spec.RelaysPerRing)

	relays := make([]*model.RelayDefinition, 0, spec.RingCount*spec.RelaysPerRing)
	for ring := 0; ring < spec.RingCount; ring++ {
		frac := float64(ring+1) / float64(spec.RingCount+1)
		radius := rSrc + (rSnk-rSrc)*frac
		period := source.Orbit.PeriodDays * math.Pow(radius/rSrc, 1.5)

		for i := 0; i < spec.RelaysPerRing; i++ {
			relays = append(relays, &model.RelayDefinition{
				ID:           fmt.Sprintf("relay-r%d-s%d", ring, i),
				Name:         fmt.Sprintf("Ring %d Slot %d", ring, i),
				RingIndex:    ring,
				SlotIndex:    i,
				MotionSource: model.MotionSourceCircular,
				Orbit: model.CircularOrbit{
					RadiusKm:   radius,
					PeriodDays: period,
					PhaseRad:   slot * (float64(i) + 0.5*float64(ring)),
				},
				PortRateMbps: spec.PortRateMbps,
			})
		}
	}
	return relays, nil
}
