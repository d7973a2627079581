package core

import (
	"math"
	"testing"
)

func TestInverseSquareBudget_Baseline(t *testing.T) {
	b := DefaultLinkBudget()

	// At the baseline distance the rate is the baseline times the
	// improvement factor.
	if got := b.RateMbps(3000); math.Abs(got-1000000) > 1e-6 {
		t.Errorf("RateMbps(3000) = %v, want 1000000", got)
	}
}

func TestInverseSquareBudget_InverseSquareFalloff(t *testing.T) {
	b := DefaultLinkBudget()

	// Doubling the distance quarters the rate.
	r1 := b.RateMbps(100000)
	r2 := b.RateMbps(200000)
	if math.Abs(r1/r2-4) > 1e-9 {
		t.Errorf("rate ratio at 2x distance = %v, want 4", r1/r2)
	}
}

func TestInverseSquareBudget_ClampsBelowBaseline(t *testing.T) {
	b := DefaultLinkBudget()

	if got, want := b.RateMbps(10), b.RateMbps(3000); got != want {
		t.Errorf("RateMbps(10) = %v, want clamped baseline rate %v", got, want)
	}
}

func TestInverseSquareBudget_Latency(t *testing.T) {
	b := DefaultLinkBudget()

	// One light-second.
	if got := b.LatencySeconds(SpeedOfLightKmPerSec); math.Abs(got-1) > 1e-12 {
		t.Errorf("LatencySeconds(c) = %v, want 1", got)
	}
	if got := b.LatencySeconds(-5); got != 0 {
		t.Errorf("LatencySeconds(-5) = %v, want 0", got)
	}
}

func TestInverseSquareBudget_Monotonic(t *testing.T) {
	b := DefaultLinkBudget()
	prevRate := math.Inf(1)
	prevLat := -1.0
	for d := 1000.0; d < 1e9; d *= 3 {
		rate := b.RateMbps(d)
		lat := b.LatencySeconds(d)
		if rate > prevRate {
			t.Fatalf("rate increased with distance at %v km", d)
		}
		if lat < prevLat {
			t.Fatalf("latency decreased with distance at %v km", d)
		}
		prevRate, prevLat = rate, lat
	}
}
