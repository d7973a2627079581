package model

// RelayDefinition represents one relay satellite in the mesh. A relay
// forwards traffic between other nodes subject to a port-derived
// throughput bound.
type RelayDefinition struct {
	ID   string
	Name string

	// RingIndex/SlotIndex identify the relay's place in a generated
	// constellation. Both are zero for hand-placed relays.
	RingIndex int
	SlotIndex int

	Coordinates  Position
	MotionSource MotionSource
	Orbit        CircularOrbit

	TLELine1 string
	TLELine2 string

	// PortRateMbps is the aggregate throughput this relay can forward,
	// derived from its port count. 0 means unspecified; the engine
	// substitutes its configured default.
	PortRateMbps float64
}
