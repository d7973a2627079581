package core

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/relaymesh-simulator/model"
)

// MotionModel computes a mesh node's position for a given simulation
// time. The bool result is false when no position is available (e.g. a
// propagation failure); the engine then treats the node as absent for
// that tick.
type MotionModel interface {
	PositionAt(simTime time.Time) (Vec3, bool)
}

// StaticMotion pins a node to fixed coordinates.
type StaticMotion struct {
	Pos Vec3
}

func (m *StaticMotion) PositionAt(time.Time) (Vec3, bool) {
	return m.Pos, true
}

// CircularOrbitMotion models a circular orbit in the XY plane around
// the origin. Planets and relay rings in heliocentric scenarios all
// use this; the original Mars-link geometry is circles at the two
// planetary radii with relay rings interpolated between them.
type CircularOrbitMotion struct {
	RadiusKm   float64
	PeriodDays float64
	PhaseRad   float64
	Epoch      time.Time
}

func (m *CircularOrbitMotion) PositionAt(simTime time.Time) (Vec3, bool) {
	if m.RadiusKm <= 0 || m.PeriodDays <= 0 {
		return Vec3{}, false
	}
	elapsedDays := simTime.Sub(m.Epoch).Hours() / 24
	angle := m.PhaseRad + 2*math.Pi*elapsedDays/m.PeriodDays
	return Vec3{
		X: m.RadiusKm * math.Cos(angle),
		Y: m.RadiusKm * math.Sin(angle),
	}, true
}

// SGP4Motion propagates a TLE with SGP4 for Earth-orbit scenarios.
// go-satellite works in kilometres, matching our geometry unit.
type SGP4Motion struct {
	sat satellite.Satellite
}

// NewSGP4MotionFromTLE constructs an orbital model from TLE lines.
func NewSGP4MotionFromTLE(line1, line2 string) *SGP4Motion {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &SGP4Motion{sat: sat}
}

func (m *SGP4Motion) PositionAt(simTime time.Time) (Vec3, bool) {
	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()

	posECI, _ := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	pos := Vec3{X: posECEF.X, Y: posECEF.Y, Z: posECEF.Z}
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
		// Propagation failure (decayed or malformed TLE).
		return Vec3{}, false
	}
	return pos, true
}

// NewMotionForBody chooses a motion model for an endpoint body.
func NewMotionForBody(b *model.BodyDefinition, epoch time.Time) MotionModel {
	return newMotion(b.MotionSource, b.Coordinates, b.Orbit, b.TLELine1, b.TLELine2, epoch)
}

// NewMotionForRelay chooses a motion model for a relay.
func NewMotionForRelay(r *model.RelayDefinition, epoch time.Time) MotionModel {
	return newMotion(r.MotionSource, r.Coordinates, r.Orbit, r.TLELine1, r.TLELine2, epoch)
}

func newMotion(src model.MotionSource, coords model.Position, orbit model.CircularOrbit, tle1, tle2 string, epoch time.Time) MotionModel {
	switch src {
	case model.MotionSourceCircular:
		return &CircularOrbitMotion{
			RadiusKm:   orbit.RadiusKm,
			PeriodDays: orbit.PeriodDays,
			PhaseRad:   orbit.PhaseRad,
			Epoch:      epoch,
		}
	case model.MotionSourceTLE:
		if tle1 != "" && tle2 != "" {
			return NewSGP4MotionFromTLE(tle1, tle2)
		}
	}
	return &StaticMotion{Pos: Vec3{X: coords.X, Y: coords.Y, Z: coords.Z}}
}
