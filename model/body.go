package model

// MotionSource indicates how a body's motion is determined.
type MotionSource int

const (
	MotionSourceUnknown  MotionSource = iota
	MotionSourceStatic                // fixed coordinates from the scenario
	MotionSourceCircular              // circular heliocentric orbit
	MotionSourceTLE                   // SGP4 propagation from a TLE pair
)

// Position is a heliocentric (or ECEF, for TLE-driven scenarios)
// position in kilometres.
type Position struct {
	X float64
	Y float64
	Z float64
}

// CircularOrbit parameterises a circular orbit in the XY plane.
// Phase is the angle at simulation start, in radians.
type CircularOrbit struct {
	RadiusKm   float64
	PeriodDays float64
	PhaseRad   float64
}

// BodyDefinition represents an endpoint body of the relay mesh,
// e.g. a planet hosting the source or sink ground segment.
type BodyDefinition struct {
	ID   string
	Name string

	Coordinates  Position
	MotionSource MotionSource
	Orbit        CircularOrbit

	// TLE lines, used when MotionSource is MotionSourceTLE.
	TLELine1 string
	TLELine2 string
}
