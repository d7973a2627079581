package core

// LinkBudgetModel maps point-to-point distance to achievable data rate
// and one-way latency. Implementations must be monotonic: rate
// non-increasing and latency non-decreasing in distance.
type LinkBudgetModel interface {
	RateMbps(distanceKm float64) float64
	LatencySeconds(distanceKm float64) float64
}

// InverseSquareBudget models an optical/RF link whose rate falls off
// with the square of distance from a measured baseline:
//
//	rate(d) = Improvement · BaselineMbps · (BaselineKm / d)²
//
// Latency is pure light travel time.
type InverseSquareBudget struct {
	// BaselineMbps is the measured rate at BaselineKm.
	BaselineMbps float64
	BaselineKm   float64

	// Improvement is a technology scaling factor applied on top of the
	// baseline measurement.
	Improvement float64
}

// DefaultLinkBudget returns the reference budget: 100 Gbps at 3000 km
// with a 10x laser-terminal improvement factor.
func DefaultLinkBudget() *InverseSquareBudget {
	return &InverseSquareBudget{
		BaselineMbps: 100000,
		BaselineKm:   3000,
		Improvement:  10,
	}
}

// RateMbps returns the achievable rate at the given distance. Distances
// inside the baseline are clamped so short hops do not produce
// unbounded rates.
func (b *InverseSquareBudget) RateMbps(distanceKm float64) float64 {
	if distanceKm < b.BaselineKm {
		distanceKm = b.BaselineKm
	}
	ratio := b.BaselineKm / distanceKm
	return b.Improvement * b.BaselineMbps * ratio * ratio
}

// LatencySeconds returns the one-way light travel time.
func (b *InverseSquareBudget) LatencySeconds(distanceKm float64) float64 {
	if distanceKm < 0 {
		distanceKm = 0
	}
	return distanceKm / SpeedOfLightKmPerSec
}
