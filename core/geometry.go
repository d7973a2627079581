package core

import "math"

// SunRadiusKm is the solar photosphere radius used for conjunction
// (occlusion) checks in heliocentric scenarios (kilometres).
const SunRadiusKm = 696000.0

// SpeedOfLightKmPerSec is used to derive one-way link latency.
const SpeedOfLightKmPerSec = 299792.458

// Vec3 is a position vector in kilometres. Heliocentric scenarios put
// the Sun at the origin; TLE-driven scenarios use ECEF.
type Vec3 struct {
	X, Y, Z float64
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// hasLineOfSight checks whether the straight segment between p1 and p2
// intersects a sphere of the given radius at the origin. If it does,
// the occluding body blocks the line-of-sight and the function returns
// false. A radius of 0 disables the check.
func hasLineOfSight(p1, p2 Vec3, occlusionRadiusKm float64) bool {
	if occlusionRadiusKm <= 0 {
		return true
	}
	r2 := occlusionRadiusKm * occlusionRadiusKm

	v := p2.Sub(p1)
	a := v.Dot(v)
	if a == 0 {
		// Degenerate case: same point. Outside the sphere counts as
		// visible, inside as blocked.
		return p1.Dot(p1) > r2
	}

	// Closest point on the segment to the origin: t* minimises
	// |p1 + t v|^2 over t ∈ [0, 1].
	t := -p1.Dot(v) / a
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Vec3{
		X: p1.X + v.X*t,
		Y: p1.Y + v.Y*t,
		Z: p1.Z + v.Z*t,
	}

	return closest.Dot(closest) > r2
}
