package core

import (
	"math"
	"testing"
)

func TestHasLineOfSight_ClearOfSun(t *testing.T) {
	// Two relays on the same side of the Sun; the segment never comes
	// near the origin.
	posA := Vec3{X: 150000000, Y: 0, Z: 0}
	posB := Vec3{X: 150000000, Y: 20000000, Z: 0}

	if !hasLineOfSight(posA, posB, SunRadiusKm) {
		t.Errorf("expected LoS between relays on the same side of the Sun")
	}
}

func TestHasLineOfSight_SolarConjunction(t *testing.T) {
	// Opposite sides of the Sun: the chord passes through the origin.
	posA := Vec3{X: 150000000, Y: 0, Z: 0}
	posB := Vec3{X: -240000000, Y: 0, Z: 0}

	if hasLineOfSight(posA, posB, SunRadiusKm) {
		t.Errorf("expected LoS to be blocked by the Sun")
	}
}

func TestHasLineOfSight_GrazingSegment(t *testing.T) {
	// Segment parallel to X passing the origin at just over one solar
	// radius in Y: visible. At just under: blocked.
	above := Vec3{Y: SunRadiusKm * 1.01}
	if !hasLineOfSight(Vec3{X: -1e8, Y: above.Y}, Vec3{X: 1e8, Y: above.Y}, SunRadiusKm) {
		t.Errorf("segment grazing outside the solar radius should be visible")
	}
	below := Vec3{Y: SunRadiusKm * 0.99}
	if hasLineOfSight(Vec3{X: -1e8, Y: below.Y}, Vec3{X: 1e8, Y: below.Y}, SunRadiusKm) {
		t.Errorf("segment crossing inside the solar radius should be blocked")
	}
}

func TestHasLineOfSight_DisabledRadius(t *testing.T) {
	posA := Vec3{X: 1e8}
	posB := Vec3{X: -1e8}
	if !hasLineOfSight(posA, posB, 0) {
		t.Errorf("a zero occlusion radius must disable the check")
	}
}

func TestHasLineOfSight_EndpointClosest(t *testing.T) {
	// Both points on the same side with the segment pointing away from
	// the origin; the closest point is an endpoint, not an interior
	// point, and it is outside the sphere.
	posA := Vec3{X: 2e6}
	posB := Vec3{X: 3e6}
	if !hasLineOfSight(posA, posB, SunRadiusKm) {
		t.Errorf("segment entirely outside the sphere should be visible")
	}
}

func TestVec3Distance(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: 6, Z: 3}
	if got := a.DistanceTo(b); math.Abs(got-5) > 1e-12 {
		t.Errorf("DistanceTo = %v, want 5", got)
	}
	if got := b.Sub(a); got != (Vec3{X: 3, Y: 4, Z: 0}) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Dot(b); got != 1*4+2*6+3*3 {
		t.Errorf("Dot = %v", got)
	}
}
