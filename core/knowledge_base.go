package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/signalsfoundry/relaymesh-simulator/model"
)

var (
	ErrRelayExists   = errors.New("relay already exists")
	ErrRelayNotFound = errors.New("relay not found")
	ErrRelayBadInput = errors.New("invalid relay")
	ErrBodyBadInput  = errors.New("invalid body")
)

// KnowledgeBase stores the mesh definition (endpoint bodies, relays),
// the current per-node positions and the latest tick result.
//
// It is concurrency-safe via an internal RWMutex: the tick loop writes
// positions and results while the metrics HTTP surface or other
// readers inspect the latest result. Graph and flow state never live
// here; each tick's computation owns those exclusively.
type KnowledgeBase struct {
	mu sync.RWMutex

	source *model.BodyDefinition
	sink   *model.BodyDefinition

	relays     map[string]*model.RelayDefinition
	relayOrder []string

	positions map[string]Vec3

	latest    TickResult
	hasResult bool
}

// NewKnowledgeBase creates an empty mesh knowledge base.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		relays:    make(map[string]*model.RelayDefinition),
		positions: make(map[string]Vec3),
	}
}

//
// ---------- Endpoint bodies ----------
//

func (kb *KnowledgeBase) SetSource(b *model.BodyDefinition) error {
	if b == nil || b.ID == "" {
		return fmt.Errorf("%w: nil or empty source body", ErrBodyBadInput)
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.source = b
	return nil
}

func (kb *KnowledgeBase) SetSink(b *model.BodyDefinition) error {
	if b == nil || b.ID == "" {
		return fmt.Errorf("%w: nil or empty sink body", ErrBodyBadInput)
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.sink = b
	return nil
}

// Source returns the source body, or nil when unset.
func (kb *KnowledgeBase) Source() *model.BodyDefinition {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.source
}

// Sink returns the sink body, or nil when unset.
func (kb *KnowledgeBase) Sink() *model.BodyDefinition {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.sink
}

//
// ---------- Relays ----------
//

func (kb *KnowledgeBase) AddRelay(r *model.RelayDefinition) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w", ErrRelayBadInput)
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if _, exists := kb.relays[r.ID]; exists {
		return fmt.Errorf("%w: %q", ErrRelayExists, r.ID)
	}
	kb.relays[r.ID] = r
	kb.relayOrder = append(kb.relayOrder, r.ID)
	return nil
}

// GetRelay returns a relay by ID, or nil if not found.
func (kb *KnowledgeBase) GetRelay(id string) *model.RelayDefinition {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.relays[id]
}

// Relays returns all relays in insertion order.
func (kb *KnowledgeBase) Relays() []*model.RelayDefinition {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	out := make([]*model.RelayDefinition, 0, len(kb.relayOrder))
	for _, id := range kb.relayOrder {
		out = append(out, kb.relays[id])
	}
	return out
}

// RemoveRelay deletes a relay and its cached position.
func (kb *KnowledgeBase) RemoveRelay(id string) error {
	if id == "" {
		return fmt.Errorf("%w", ErrRelayBadInput)
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if _, exists := kb.relays[id]; !exists {
		return fmt.Errorf("%w: %q", ErrRelayNotFound, id)
	}
	delete(kb.relays, id)
	delete(kb.positions, id)
	for i, rid := range kb.relayOrder {
		if rid == id {
			kb.relayOrder = append(kb.relayOrder[:i], kb.relayOrder[i+1:]...)
			break
		}
	}
	return nil
}

//
// ---------- Positions ----------
//

func (kb *KnowledgeBase) SetPosition(nodeID string, pos Vec3) {
	if nodeID == "" {
		return
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.positions[nodeID] = pos
}

func (kb *KnowledgeBase) Position(nodeID string) (Vec3, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	pos, ok := kb.positions[nodeID]
	return pos, ok
}

// ClearPosition drops a node's cached position, e.g. after a
// propagation failure.
func (kb *KnowledgeBase) ClearPosition(nodeID string) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	delete(kb.positions, nodeID)
}

//
// ---------- Snapshots and results ----------
//

// Snapshot assembles the engine input from the stored definitions and
// current positions. Endpoint presence flags reflect whether a
// position is known for the body this tick.
func (kb *KnowledgeBase) Snapshot() GeometrySnapshot {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	var snap GeometrySnapshot
	if kb.source != nil {
		snap.SourceName = kb.source.ID
		snap.SourcePos, snap.HasSource = kb.positions[kb.source.ID]
	}
	if kb.sink != nil {
		snap.SinkName = kb.sink.ID
		snap.SinkPos, snap.HasSink = kb.positions[kb.sink.ID]
	}

	snap.Relays = make([]RelaySnapshot, 0, len(kb.relayOrder))
	for _, id := range kb.relayOrder {
		pos, ok := kb.positions[id]
		if !ok {
			continue
		}
		snap.Relays = append(snap.Relays, RelaySnapshot{
			ID:           id,
			Pos:          pos,
			PortRateMbps: kb.relays[id].PortRateMbps,
		})
	}
	return snap
}

// SetLatestResult stores the most recent tick result, replacing the
// previous one. The KB never accumulates results across ticks.
func (kb *KnowledgeBase) SetLatestResult(res TickResult) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.latest = res
	kb.hasResult = true
}

// LatestResult returns the most recent tick result, if any.
func (kb *KnowledgeBase) LatestResult() (TickResult, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.latest, kb.hasResult
}
