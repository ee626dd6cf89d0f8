package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/memory"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/ocigateway"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

type mockGateway struct {
	mu        sync.Mutex
	calls     []ocigateway.InvokeRequest
	responses map[string]any
	errs      map[string]error
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		responses: make(map[string]any),
		errs:      make(map[string]error),
	}
}

func (m *mockGateway) Invoke(ctx context.Context, req ocigateway.InvokeRequest) (any, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	key := req.Service + "/" + req.Action
	if err := m.errs[key]; err != nil {
		return nil, err
	}
	if data, ok := m.responses[key]; ok {
		return data, nil
	}
	return map[string]any{"ok": true}, nil
}

func (m *mockGateway) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockRecorder struct {
	steps []model.Step
}

func (m *mockRecorder) RecordChange(ctx context.Context, step model.Step, result model.StepResult) {
	m.steps = append(m.steps, step)
}

func verifiedState(steps ...model.Step) *model.SessionState {
	state := model.NewSessionState("sess-exec")
	state.ActivePlan = &model.Plan{
		ID:       "plan-x",
		Goal:     "test plan",
		Steps:    steps,
		Verified: true,
	}
	for _, s := range steps {
		if s.SafetyTier == model.SafetyTierDestructive {
			state.ActivePlan.Confirmed = true
			break
		}
	}
	return state
}

func createBucketStep(name string) model.Step {
	return model.Step{
		Service:              "objectstorage",
		Action:               "create_bucket",
		Params:               map[string]any{"compartment_id": "ocid1.compartment.oc1..x", "bucket_name": name},
		SafetyTier:           model.SafetyTierDestructive,
		RequiresConfirmation: true,
	}
}

func listStep(service, action string) model.Step {
	return model.Step{
		Service:    service,
		Action:     action,
		Params:     map[string]any{"compartment_id": "ocid1.compartment.oc1..x"},
		SafetyTier: model.SafetyTierSafe,
	}
}

func TestExecute_FailureIsolation(t *testing.T) {
	gw := newMockGateway()
	gw.errs["objectstorage/create_bucket"] = nil // default ok
	e := New(gw, nil, nil, pkgLog.NewNop(), Config{Workers: 1})

	// Step 2 uses a distinct action so only it can fail.
	failing := createBucketStep("metrics")
	failing.Action = "delete_bucket"
	failing.Params = map[string]any{"bucket_name": "metrics"}
	gw.errs["objectstorage/delete_bucket"] = &ocigateway.CallError{
		Kind:    ocigateway.KindForbidden,
		Message: "permission denied on bucket metrics",
	}

	state := verifiedState(createBucketStep("logs"), failing, createBucketStep("traces"))

	if err := e.Execute(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := state.StepResults
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Status != model.StepStatusOK || results[2].Status != model.StepStatusOK {
		t.Errorf("surrounding steps must succeed: %v / %v", results[0].Status, results[2].Status)
	}
	if results[1].Status != model.StepStatusError {
		t.Fatalf("step 2 status = %v", results[1].Status)
	}
	if results[1].Error.Kind != model.ErrorKindForbidden {
		t.Errorf("kind = %s, want forbidden", results[1].Error.Kind)
	}
	if results[1].Error.Message != "permission denied on bucket metrics" {
		t.Errorf("message must be preserved verbatim: %q", results[1].Error.Message)
	}
}

func TestExecute_FatalHaltsAndSkips(t *testing.T) {
	gw := newMockGateway()
	gw.errs["compute/stop_instance"] = &ocigateway.CallError{
		Kind:    ocigateway.KindFatal,
		Message: "authentication failed",
	}
	e := New(gw, nil, nil, pkgLog.NewNop(), Config{Workers: 1})

	stop := model.Step{
		Service:              "compute",
		Action:               "stop_instance",
		Params:               map[string]any{"instance_id": "ocid1.instance.oc1..a"},
		SafetyTier:           model.SafetyTierDestructive,
		RequiresConfirmation: true,
	}
	state := verifiedState(stop, createBucketStep("after-1"), createBucketStep("after-2"))

	e.Execute(context.Background(), state)

	results := state.StepResults
	if results[0].Status != model.StepStatusError {
		t.Fatalf("step 1 status = %v", results[0].Status)
	}
	for i := 1; i < 3; i++ {
		if results[i].Status != model.StepStatusSkipped {
			t.Errorf("step %d status = %v, want skipped", i+1, results[i].Status)
		}
	}
	if gw.callCount() != 1 {
		t.Errorf("gateway calls = %d, want 1 (halt must stop invocations)", gw.callCount())
	}
}

func TestExecute_RefusesUnconfirmedDestructive(t *testing.T) {
	gw := newMockGateway()
	e := New(gw, nil, nil, pkgLog.NewNop(), Config{})

	state := verifiedState(createBucketStep("logs"))
	state.ActivePlan.Confirmed = false

	e.Execute(context.Background(), state)

	if state.PlanError != ErrMsgNotConfirmed {
		t.Errorf("plan error = %q, want %q", state.PlanError, ErrMsgNotConfirmed)
	}
	if gw.callCount() != 0 {
		t.Errorf("unconfirmed destructive plan must never reach the gateway, got %d calls", gw.callCount())
	}
}

func TestExecute_RefusesUnverified(t *testing.T) {
	gw := newMockGateway()
	e := New(gw, nil, nil, pkgLog.NewNop(), Config{})

	state := verifiedState(listStep("compute", "list_instances"))
	state.ActivePlan.Verified = false

	e.Execute(context.Background(), state)

	if state.PlanError != ErrMsgNotVerified {
		t.Errorf("plan error = %q", state.PlanError)
	}
	if gw.callCount() != 0 {
		t.Error("unverified plan must never reach the gateway")
	}
}

func TestExecute_CacheReadThrough(t *testing.T) {
	gw := newMockGateway()
	gw.responses["compute/list_instances"] = []any{"web-1", "web-2"}
	cache := memory.NewLookupCache(16, time.Minute)
	e := New(gw, cache, nil, pkgLog.NewNop(), Config{Workers: 1})

	run := func() *model.SessionState {
		state := verifiedState(listStep("compute", "list_instances"))
		e.Execute(context.Background(), state)
		return state
	}

	first := run()
	second := run()

	if gw.callCount() != 1 {
		t.Errorf("gateway calls = %d, want 1 (second run must hit the cache)", gw.callCount())
	}
	if first.StepResults[0].Status != model.StepStatusOK || second.StepResults[0].Status != model.StepStatusOK {
		t.Error("both runs must succeed")
	}
	data, ok := second.StepResults[0].Data.([]any)
	if !ok || len(data) != 2 {
		t.Errorf("cached data = %v", second.StepResults[0].Data)
	}
}

func TestExecute_DestructivePurgesCache(t *testing.T) {
	gw := newMockGateway()
	cache := memory.NewLookupCache(16, time.Minute)
	e := New(gw, cache, nil, pkgLog.NewNop(), Config{Workers: 1})

	// Prime the cache with a listing.
	e.Execute(context.Background(), verifiedState(listStep("compute", "list_instances")))
	if cache.Len() != 1 {
		t.Fatalf("cache len = %d, want 1", cache.Len())
	}

	// A successful mutation invalidates every cached listing.
	e.Execute(context.Background(), verifiedState(createBucketStep("logs")))

	if cache.Len() != 0 {
		t.Errorf("cache len = %d after mutation, want 0", cache.Len())
	}
}

func TestExecute_PooledKeepsOrder(t *testing.T) {
	gw := newMockGateway()
	gw.responses["compute/list_instances"] = "instances"
	gw.responses["identity/list_users"] = "users"
	gw.responses["blockstorage/list_volumes"] = "volumes"
	e := New(gw, nil, nil, pkgLog.NewNop(), Config{Workers: 3})

	state := verifiedState(
		listStep("compute", "list_instances"),
		listStep("identity", "list_users"),
		listStep("blockstorage", "list_volumes"),
	)

	e.Execute(context.Background(), state)

	results := state.StepResults
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []any{"instances", "users", "volumes"}
	for i, r := range results {
		if r.StepIndex != i {
			t.Errorf("result %d has index %d", i, r.StepIndex)
		}
		if r.Data != want[i] {
			t.Errorf("result %d data = %v, want %v", i, r.Data, want[i])
		}
	}
	if gw.callCount() != 3 {
		t.Errorf("gateway calls = %d", gw.callCount())
	}
}

func TestExecute_AppendsActionHistory(t *testing.T) {
	gw := newMockGateway()
	gw.errs["objectstorage/delete_bucket"] = &ocigateway.CallError{Kind: ocigateway.KindNotFound, Message: "bucket not found"}
	e := New(gw, nil, nil, pkgLog.NewNop(), Config{Workers: 1})

	del := model.Step{
		Service:              "objectstorage",
		Action:               "delete_bucket",
		Params:               map[string]any{"bucket_name": "ghost"},
		SafetyTier:           model.SafetyTierDestructive,
		RequiresConfirmation: true,
	}
	state := verifiedState(createBucketStep("logs"), del)

	e.Execute(context.Background(), state)

	actions := state.Memory.RecentActions
	if len(actions) != 2 {
		t.Fatalf("expected 2 action records, got %d", len(actions))
	}
	if actions[0].Action != "create_bucket" || actions[0].Status != model.StepStatusOK {
		t.Errorf("first record = %+v", actions[0])
	}
	if actions[1].Action != "delete_bucket" || actions[1].Status != model.StepStatusError {
		t.Errorf("second record = %+v", actions[1])
	}
}

func TestExecute_RecordsDestructiveChanges(t *testing.T) {
	gw := newMockGateway()
	rec := &mockRecorder{}
	e := New(gw, nil, rec, pkgLog.NewNop(), Config{Workers: 1})

	state := verifiedState(listStep("compute", "list_instances"), createBucketStep("logs"))
	state.ActivePlan.Confirmed = true

	e.Execute(context.Background(), state)

	if len(rec.steps) != 1 {
		t.Fatalf("expected 1 recorded change, got %d", len(rec.steps))
	}
	if rec.steps[0].Action != "create_bucket" {
		t.Errorf("recorded action = %s", rec.steps[0].Action)
	}
}

func TestExecute_UnclassifiedErrorDefaultsTransient(t *testing.T) {
	gw := newMockGateway()
	gw.errs["compute/list_instances"] = errors.New("connection reset by peer")
	e := New(gw, nil, nil, pkgLog.NewNop(), Config{Workers: 1})

	state := verifiedState(listStep("compute", "list_instances"))
	e.Execute(context.Background(), state)

	res := state.StepResults[0]
	if res.Error == nil || res.Error.Kind != model.ErrorKindTransient {
		t.Errorf("unclassified errors must default to transient: %+v", res.Error)
	}
}
