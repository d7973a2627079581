package core

import (
	"errors"
	"testing"
	"time"

	"github.com/signalsfoundry/relaymesh-simulator/model"
)

func TestKnowledgeBase_AddAndGetRelay(t *testing.T) {
	kb := NewKnowledgeBase()

	relay := &model.RelayDefinition{ID: "r1", Name: "Relay 1", PortRateMbps: 100}
	if err := kb.AddRelay(relay); err != nil {
		t.Fatalf("AddRelay: %v", err)
	}

	if got := kb.GetRelay("r1"); got != relay {
		t.Errorf("GetRelay returned %+v", got)
	}
	if got := kb.GetRelay("nope"); got != nil {
		t.Errorf("GetRelay for unknown ID = %+v, want nil", got)
	}
}

func TestKnowledgeBase_DuplicateRelay(t *testing.T) {
	kb := NewKnowledgeBase()
	if err := kb.AddRelay(&model.RelayDefinition{ID: "r1"}); err != nil {
		t.Fatalf("AddRelay: %v", err)
	}
	err := kb.AddRelay(&model.RelayDefinition{ID: "r1"})
	if !errors.Is(err, ErrRelayExists) {
		t.Errorf("duplicate AddRelay error = %v, want ErrRelayExists", err)
	}
}

func TestKnowledgeBase_BadInput(t *testing.T) {
	kb := NewKnowledgeBase()
	if err := kb.AddRelay(nil); !errors.Is(err, ErrRelayBadInput) {
		t.Errorf("AddRelay(nil) error = %v, want ErrRelayBadInput", err)
	}
	if err := kb.AddRelay(&model.RelayDefinition{}); !errors.Is(err, ErrRelayBadInput) {
		t.Errorf("AddRelay empty ID error = %v, want ErrRelayBadInput", err)
	}
	if err := kb.SetSource(nil); !errors.Is(err, ErrBodyBadInput) {
		t.Errorf("SetSource(nil) error = %v, want ErrBodyBadInput", err)
	}
}

func TestKnowledgeBase_RemoveRelay(t *testing.T) {
	kb := NewKnowledgeBase()
	if err := kb.AddRelay(&model.RelayDefinition{ID: "r1"}); err != nil {
		t.Fatalf("AddRelay: %v", err)
	}
	kb.SetPosition("r1", Vec3{X: 1})

	if err := kb.RemoveRelay("r1"); err != nil {
		t.Fatalf("RemoveRelay: %v", err)
	}
	if _, ok := kb.Position("r1"); ok {
		t.Errorf("position survived relay removal")
	}
	if err := kb.RemoveRelay("r1"); !errors.Is(err, ErrRelayNotFound) {
		t.Errorf("second RemoveRelay error = %v, want ErrRelayNotFound", err)
	}
}

func TestKnowledgeBase_RelaysKeepInsertionOrder(t *testing.T) {
	kb := NewKnowledgeBase()
	for _, id := range []string{"c", "a", "b"} {
		if err := kb.AddRelay(&model.RelayDefinition{ID: id}); err != nil {
			t.Fatalf("AddRelay %q: %v", id, err)
		}
	}
	relays := kb.Relays()
	if len(relays) != 3 {
		t.Fatalf("relay count = %d, want 3", len(relays))
	}
	for i, want := range []string{"c", "a", "b"} {
		if relays[i].ID != want {
			t.Errorf("relays[%d] = %q, want %q", i, relays[i].ID, want)
		}
	}
}

func TestKnowledgeBase_SnapshotPresence(t *testing.T) {
	kb := NewKnowledgeBase()
	if err := kb.SetSource(&model.BodyDefinition{ID: "earth"}); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	if err := kb.SetSink(&model.BodyDefinition{ID: "mars"}); err != nil {
		t.Fatalf("SetSink: %v", err)
	}
	if err := kb.AddRelay(&model.RelayDefinition{ID: "r1", PortRateMbps: 50}); err != nil {
		t.Fatalf("AddRelay: %v", err)
	}
	if err := kb.AddRelay(&model.RelayDefinition{ID: "r2"}); err != nil {
		t.Fatalf("AddRelay: %v", err)
	}

	kb.SetPosition("earth", Vec3{X: 1})
	kb.SetPosition("r1", Vec3{X: 2})
	// No position for mars or r2.

	snap := kb.Snapshot()
	if !snap.HasSource {
		t.Errorf("HasSource = false, want true")
	}
	if snap.HasSink {
		t.Errorf("HasSink = true, want false without a position")
	}
	if len(snap.Relays) != 1 || snap.Relays[0].ID != "r1" {
		t.Fatalf("snapshot relays = %+v, want just r1", snap.Relays)
	}
	if snap.Relays[0].PortRateMbps != 50 {
		t.Errorf("snapshot relay port rate = %v, want 50", snap.Relays[0].PortRateMbps)
	}

	kb.SetPosition("mars", Vec3{X: 3})
	if snap := kb.Snapshot(); !snap.HasSink {
		t.Errorf("HasSink = false after position set")
	}

	kb.ClearPosition("mars")
	if snap := kb.Snapshot(); snap.HasSink {
		t.Errorf("HasSink = true after ClearPosition")
	}
}

func TestKnowledgeBase_LatestResult(t *testing.T) {
	kb := NewKnowledgeBase()

	if _, ok := kb.LatestResult(); ok {
		t.Errorf("LatestResult on empty KB should report absence")
	}

	kb.SetLatestResult(TickResult{Tick: 1, SimTime: time.Unix(100, 0), Status: TickOK})
	kb.SetLatestResult(TickResult{Tick: 2, SimTime: time.Unix(101, 0), Status: TickOK})

	res, ok := kb.LatestResult()
	if !ok || res.Tick != 2 {
		t.Errorf("LatestResult = %+v, %v; want tick 2", res, ok)
	}
}
