package model

import "testing"

func TestDeferredPlanStack(t *testing.T) {
	s := NewSessionState("s1")

	first := &Plan{ID: "first"}
	second := &Plan{ID: "second"}
	s.PushDeferred(first)
	s.PushDeferred(second)

	if top := s.PeekDeferred(); top == nil || top.ID != "second" {
		t.Fatalf("expected second on top, got %+v", top)
	}
	if got := s.PopDeferred(); got.ID != "second" {
		t.Errorf("expected pop to return second, got %s", got.ID)
	}
	if got := s.PopDeferred(); got.ID != "first" {
		t.Errorf("expected pop to return first, got %s", got.ID)
	}
	if s.PopDeferred() != nil {
		t.Error("expected nil from empty stack")
	}

	s.PushDeferred(nil)
	if len(s.DeferredPlans) != 0 {
		t.Error("pushing nil should be a no-op")
	}
}

func TestClearActivePlanKeepsDeferred(t *testing.T) {
	s := NewSessionState("s1")
	s.ActivePlan = &Plan{ID: "active"}
	s.PendingParameters = map[string]ParamSpec{"name": {Name: "name"}}
	s.VerifyRetries = 1
	s.ConfirmationPending = true
	s.Awaiting = AwaitingConfirmation
	s.PushDeferred(&Plan{ID: "parked"})

	s.ClearActivePlan()

	if s.ActivePlan != nil || s.PendingParameters != nil || s.VerifyRetries != 0 || s.ConfirmationPending {
		t.Errorf("active plan state not fully cleared: %+v", s)
	}
	if s.Awaiting != AwaitingNone {
		t.Errorf("expected awaiting none, got %s", s.Awaiting)
	}
	if len(s.DeferredPlans) != 1 || s.DeferredPlans[0].ID != "parked" {
		t.Error("deferred plans must survive a cancel")
	}
}

func TestResetTurnKeepsPlanLifecycle(t *testing.T) {
	s := NewSessionState("s1")
	s.ActivePlan = &Plan{ID: "active"}
	s.Awaiting = AwaitingParameters
	s.StepResults = []StepResult{{StepIndex: 0, Status: StepStatusOK}}
	s.RoutingHops = 7

	s.ResetTurn("compartment_id: ocid1.compartment.oc1..x")

	if s.ActivePlan == nil || s.Awaiting != AwaitingParameters {
		t.Error("plan lifecycle fields must survive a new turn")
	}
	if s.StepResults != nil || s.RoutingHops != 0 {
		t.Error("per-turn fields must reset")
	}
	if s.UserInput != "compartment_id: ocid1.compartment.oc1..x" {
		t.Errorf("unexpected user input %q", s.UserInput)
	}
}

func TestMemoryWindows(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 8; i++ {
		m.ShortTerm = append(m.ShortTerm, TurnRecord{UserInput: string(rune('a' + i))})
	}

	last := m.LastTurns(5)
	if len(last) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(last))
	}
	if last[0].UserInput != "d" || last[4].UserInput != "h" {
		t.Errorf("unexpected window: %v", last)
	}

	if m.LastTurns(0) != nil {
		t.Error("zero window should be nil")
	}
	var nilMem *Memory
	if nilMem.LastTurns(3) != nil {
		t.Error("nil memory should yield nil")
	}
}
