package core

import (
	"context"
	"time"

	"github.com/signalsfoundry/relaymesh-simulator/internal/logging"
)

// Simulation ties the knowledge base, motion models and flow engine
// into a per-tick step: advance geometry, snapshot it, run the
// pipeline, store the latest result. One Step call per tick, on the
// tick driver's goroutine.
type Simulation struct {
	KB     *KnowledgeBase
	Engine *Engine

	motions map[string]MotionModel
	log     logging.Logger
	tick    int
}

// NewSimulation builds motion models for every body and relay in the
// KB as of this call. Relays added later will not move.
func NewSimulation(kb *KnowledgeBase, engine *Engine, epoch time.Time, log logging.Logger) *Simulation {
	if log == nil {
		log = logging.Noop()
	}

	motions := make(map[string]MotionModel)
	if src := kb.Source(); src != nil {
		motions[src.ID] = NewMotionForBody(src, epoch)
	}
	if snk := kb.Sink(); snk != nil {
		motions[snk.ID] = NewMotionForBody(snk, epoch)
	}
	for _, relay := range kb.Relays() {
		motions[relay.ID] = NewMotionForRelay(relay, epoch)
	}

	return &Simulation{KB: kb, Engine: engine, motions: motions, log: log}
}

// Step advances all positions to simTime, runs one tick of the flow
// pipeline and stores the result in the knowledge base. It always
// returns a well-formed result.
func (s *Simulation) Step(ctx context.Context, simTime time.Time) TickResult {
	for id, motion := range s.motions {
		pos, ok := motion.PositionAt(simTime)
		if !ok {
			// Treat the node as absent this tick; for an endpoint this
			// surfaces as a skipped tick downstream.
			s.KB.ClearPosition(id)
			s.log.Warn(ctx, "no position for node", logging.String("node", id))
			continue
		}
		s.KB.SetPosition(id, pos)
	}

	res := s.Engine.Tick(ctx, s.tick, simTime, s.KB.Snapshot())
	s.KB.SetLatestResult(res)
	s.tick++
	return res
}
