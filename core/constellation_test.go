package core

import (
	"errors"
	"math"
	"testing"

	"github.com/signalsfoundry/relaymesh-simulator/model"
)

func testBodies() (*model.BodyDefinition, *model.BodyDefinition) {
	source := &model.BodyDefinition{
		ID:           "earth",
		MotionSource: model.MotionSourceCircular,
		Orbit:        model.CircularOrbit{RadiusKm: 150000000, PeriodDays: 365.25},
	}
	sink := &model.BodyDefinition{
		ID:           "mars",
		MotionSource: model.MotionSourceCircular,
		Orbit:        model.CircularOrbit{RadiusKm: 240000000, PeriodDays: 687},
	}
	return source, sink
}

func TestBuildConstellation_Counts(t *testing.T) {
	source, sink := testBodies()

	relays, err := BuildConstellation(source, sink, RingSpec{
		RingCount: 3, RelaysPerRing: 8, PortRateMbps: 100,
	})
	if err != nil {
		t.Fatalf("BuildConstellation: %v", err)
	}
	if len(relays) != 24 {
		t.Fatalf("relay count = %d, want 24", len(relays))
	}

	ids := make(map[string]bool)
	for _, r := range relays {
		if ids[r.ID] {
			t.Errorf("duplicate relay ID %q", r.ID)
		}
		ids[r.ID] = true
		if r.PortRateMbps != 100 {
			t.Errorf("relay %s port rate = %v, want 100", r.ID, r.PortRateMbps)
		}
		if r.MotionSource != model.MotionSourceCircular {
			t.Errorf("relay %s motion source = %v", r.ID, r.MotionSource)
		}
	}
}

func TestBuildConstellation_RadiiBetweenOrbits(t *testing.T) {
	source, sink := testBodies()

	relays, err := BuildConstellation(source, sink, RingSpec{RingCount: 4, RelaysPerRing: 2})
	if err != nil {
		t.Fatalf("BuildConstellation: %v", err)
	}

	for _, r := range relays {
		if r.Orbit.RadiusKm <= source.Orbit.RadiusKm || r.Orbit.RadiusKm >= sink.Orbit.RadiusKm {
			t.Errorf("relay %s radius %v not strictly between the endpoint orbits", r.ID, r.Orbit.RadiusKm)
		}
	}

	// Rings are evenly spaced.
	gap := (sink.Orbit.RadiusKm - source.Orbit.RadiusKm) / 5
	if got := relays[0].Orbit.RadiusKm - source.Orbit.RadiusKm; math.Abs(got-gap) > 1 {
		t.Errorf("first ring offset = %v, want %v", got, gap)
	}
}

func TestBuildConstellation_KeplerPeriods(t *testing.T) {
	source, sink := testBodies()

	relays, err := BuildConstellation(source, sink, RingSpec{RingCount: 2, RelaysPerRing: 1})
	if err != nil {
		t.Fatalf("BuildConstellation: %v", err)
	}

	for _, r := range relays {
		want := source.Orbit.PeriodDays * math.Pow(r.Orbit.RadiusKm/source.Orbit.RadiusKm, 1.5)
		if math.Abs(r.Orbit.PeriodDays-want) > 1e-9 {
			t.Errorf("relay %s period = %v, want Kepler-scaled %v", r.ID, r.Orbit.PeriodDays, want)
		}
		if r.Orbit.PeriodDays <= source.Orbit.PeriodDays {
			t.Errorf("relay %s period should exceed the inner body's", r.ID)
		}
	}
}

func TestBuildConstellation_PhaseStagger(t *testing.T) {
	source, sink := testBodies()

	relays, err := BuildConstellation(source, sink, RingSpec{RingCount: 2, RelaysPerRing: 4})
	if err != nil {
		t.Fatalf("BuildConstellation: %v", err)
	}

	slot := 2 * math.Pi / 4
	// Ring 1 slot 0 is offset half a slot from ring 0 slot 0.
	var ring0, ring1 float64
	for _, r := range relays {
		if r.SlotIndex != 0 {
			continue
		}
		switch r.RingIndex {
		case 0:
			ring0 = r.Orbit.PhaseRad
		case 1:
			ring1 = r.Orbit.PhaseRad
		}
	}
	if math.Abs((ring1-ring0)-slot/2) > 1e-12 {
		t.Errorf("ring phase stagger = %v, want %v", ring1-ring0, slot/2)
	}
}

func TestBuildConstellation_Validation(t *testing.T) {
	source, sink := testBodies()

	if _, err := BuildConstellation(nil, sink, RingSpec{RingCount: 1, RelaysPerRing: 1}); !errors.Is(err, ErrBodyBadInput) {
		t.Errorf("nil source error = %v, want ErrBodyBadInput", err)
	}
	if _, err := BuildConstellation(source, sink, RingSpec{RingCount: 0, RelaysPerRing: 1}); err == nil {
		t.Errorf("zero ring count should fail")
	}
	noOrbit := &model.BodyDefinition{ID: "x"}
	if _, err := BuildConstellation(noOrbit, sink, RingSpec{RingCount: 1, RelaysPerRing: 1}); !errors.Is(err, ErrBodyBadInput) {
		t.Errorf("missing orbit error = %v, want ErrBodyBadInput", err)
	}
}
