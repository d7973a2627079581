// Package analysis holds the closed-form capacity model for ring
// constellations between two circular heliocentric orbits: aggregate
// worst/best-case throughput for a given ring geometry, the optimal
// ring count for a relay budget, and the power-law scaling constants.
package analysis

import "math"

// Params fixes the orbital geometry and link baseline the model is
// evaluated against.
type Params struct {
	// SourceOrbitKm and SinkOrbitKm are the heliocentric orbital radii
	// of the two endpoint bodies.
	SourceOrbitKm float64
	SinkOrbitKm   float64

	// Link baseline: measured BaselineMbps at BaselineKm, scaled by
	// the Improvement factor.
	BaselineMbps float64
	BaselineKm   float64
	Improvement  float64
}

// DefaultParams returns the Earth–Mars reference geometry: Earth
// periapsis 150e6 km, Mars apoapsis 240e6 km, 100 Gbps at 3000 km
// with a 10x improvement factor.
func DefaultParams() Params {
	return Params{
		SourceOrbitKm: 150000000,
		SinkOrbitKm:   240000000,
		BaselineMbps:  100000,
		BaselineKm:    3000,
		Improvement:   10,
	}
}

// SeparationKm is the radial gap the mesh has to bridge.
func (p Params) SeparationKm() float64 {
	return p.SinkOrbitKm - p.SourceOrbitKm
}

// AvgOrbitKm is the mean of the two endpoint radii, used as the
// circumference radius for in-ring hop spacing.
func (p Params) AvgOrbitKm() float64 {
	return (p.SourceOrbitKm + p.SinkOrbitKm) / 2
}

// k is the shared baseline constant: Improvement · BaselineMbps · BaselineKm².
func (p Params) k() float64 {
	return p.Improvement * p.BaselineMbps * p.BaselineKm * p.BaselineKm
}

// WorstCaseMbps is the aggregate cross-mesh throughput when hops must
// cover both the radial gap and the in-ring circumference spacing:
//
//	K · N³ · R² / ((EM·N)² + (2π·R_avg·R)²)
//
// for N relays per ring and R rings.
func (p Params) WorstCaseMbps(relaysPerRing, rings int) float64 {
	if relaysPerRing <= 0 || rings <= 0 {
		return 0
	}
	n := float64(relaysPerRing)
	r := float64(rings)
	radial := p.SeparationKm() * n
	circumferential := 2 * math.Pi * p.AvgOrbitKm() * r
	return p.k() * n * n * n * r * r / (radial*radial + circumferential*circumferential)
}

// BestCaseMbps is the aggregate throughput when rings are aligned and
// only the radial gap matters: K · N · R² / EM².
func (p Params) BestCaseMbps(relaysPerRing, rings int) float64 {
	if relaysPerRing <= 0 || rings <= 0 {
		return 0
	}
	n := float64(relaysPerRing)
	r := float64(rings)
	em := p.SeparationKm()
	return p.k() * n * r * r / (em * em)
}

// Alpha is the ratio EM / (2π·R_avg). The ring count that maximises
// throughput per relay is R_opt = Alpha · N.
func (p Params) Alpha() float64 {
	return p.SeparationKm() / (2 * math.Pi * p.AvgOrbitKm())
}

// OptimalRings finds the ring count maximising worst-case Mbps per
// relay for a fixed in-ring count, scanning upward until the metric
// turns over (it is unimodal in the ring count).
func (p Params) OptimalRings(relaysPerRing int) int {
	best := 0.0
	bestRings := 0
	for rings := 1; rings < 1000; rings++ {
		total := p.WorstCaseMbps(relaysPerRing, rings)
		perRelay := total / float64(relaysPerRing*rings)
		if perRelay > best {
			best = perRelay
			bestRings = rings
		} else {
			break
		}
	}
	return bestRings
}

// PowerLawWorst returns the analytic constants (a, b) of the fit
// worst_opt(S) = a·S^b over total relay count S at the optimal ring
// count: a = K·sqrt(alpha) / (2·EM²), b = 3/2. Exact asymptotically
// for large N.
func (p Params) PowerLawWorst() (a, b float64) {
	em := p.SeparationKm()
	return p.k() * math.Sqrt(p.Alpha()) / (2 * em * em), 1.5
}

// PowerLawBest is PowerLawWorst without the factor of two.
func (p Params) PowerLawBest() (a, b float64) {
	em := p.SeparationKm()
	return p.k() * math.Sqrt(p.Alpha()) / (em * em), 1.5
}

// SweepRow is one row of a constellation-size sweep.
type SweepRow struct {
	RelaysPerRing int
	OptimalRings  int
	TotalRelays   int

	MbpsPerRelay float64
	WorstMbps    float64
	BestMbps     float64

	// Power-law predictions at this row's total relay count.
	FittedWorstMbps float64
	FittedBestMbps  float64
}

// Sweep evaluates the model across a range of in-ring relay counts,
// picking the optimal ring count for each.
func (p Params) Sweep(minPerRing, maxPerRing, step int) []SweepRow {
	if step <= 0 {
		step = 1
	}
	aWorst, bWorst := p.PowerLawWorst()
	aBest, bBest := p.PowerLawBest()

	var rows []SweepRow
	for n := minPerRing; n <= maxPerRing; n += step {
		rings := p.OptimalRings(n)
		if rings == 0 {
			continue
		}
		total := n * rings
		worst := p.WorstCaseMbps(n, rings)
		rows = append(rows, SweepRow{
			RelaysPerRing:   n,
			OptimalRings:    rings,
			TotalRelays:     total,
			MbpsPerRelay:    worst / float64(total),
			WorstMbps:       worst,
			BestMbps:        p.BestCaseMbps(n, rings),
			FittedWorstMbps: aWorst * math.Pow(float64(total), bWorst),
			FittedBestMbps:  aBest * math.Pow(float64(total), bBest),
		})
	}
	return rows
}
