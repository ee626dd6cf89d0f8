package orchestrator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/composer"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/executor"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/planner"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/resolver"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/supervisor"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/verifier"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/memory"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/router"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/ocigateway"
)

type stubProvider struct {
	mu         sync.Mutex
	response   string
	shouldFail bool
	callCount  int
}

func (s *stubProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callCount++
	if s.shouldFail {
		return nil, context.DeadlineExceeded
	}
	return &llmprovider.Response{Text: s.response}, nil
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-model" }

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

func (s *stubProvider) respond(response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = response
	s.shouldFail = false
}

type mockGateway struct {
	mu      sync.Mutex
	results map[string]any
	errs    map[string]error
	calls   []ocigateway.InvokeRequest
}

func (g *mockGateway) Invoke(ctx context.Context, req ocigateway.InvokeRequest) (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	key := req.Service + "/" + req.Action
	if err, ok := g.errs[key]; ok {
		return nil, err
	}
	return g.results[key], nil
}

func (g *mockGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *mockGateway) call(i int) ocigateway.InvokeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[i]
}

type harness struct {
	o            *Orchestrator
	mem          memory.Manager
	routerStub   *stubProvider
	plannerStub  *stubProvider
	verifierStub *stubProvider
	gw           *mockGateway
}

func stubManager(stub *stubProvider) *llmprovider.Manager {
	return llmprovider.NewManager([]llmprovider.Provider{stub}, llmprovider.Config{RetryAttempts: 1}, pkgLog.NewNop())
}

// newHarness wires the real pipeline with stubbed LLM providers and a
// mock gateway. The composer's LLM always fails so replies come from
// the deterministic templates and can be asserted verbatim.
func newHarness(t *testing.T) *harness {
	t.Helper()
	l := pkgLog.NewNop()

	store, err := memory.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	cache := memory.NewLookupCache(64, time.Minute)
	mem := memory.New(l, store, cache, nil)

	routerStub := &stubProvider{response: `{"intent":"question","is_executable":false,"confidence":90,"reasoning":"general question"}`}
	plannerStub := &stubProvider{shouldFail: true}
	verifierStub := &stubProvider{response: `{"verdict":"accept","reasons":[]}`}
	composerStub := &stubProvider{shouldFail: true}
	gw := &mockGateway{results: make(map[string]any), errs: make(map[string]error)}

	pipe := Pipeline{
		Supervisor: supervisor.New(l),
		Classifier: router.New(stubManager(routerStub), l, router.Config{NormalizerEnabled: true}),
		Planner:    planner.New(stubManager(plannerStub), l, planner.Config{}),
		Resolver:   resolver.New(l, nil),
		Verifier:   verifier.New(stubManager(verifierStub), l, verifier.Config{}),
		Executor:   executor.New(gw, cache, nil, l, executor.Config{}),
		Composer:   composer.New(stubManager(composerStub), mem, l, composer.Config{}),
	}

	return &harness{
		o:            New(pipe, mem, l, Config{}),
		mem:          mem,
		routerStub:   routerStub,
		plannerStub:  plannerStub,
		verifierStub: verifierStub,
		gw:           gw,
	}
}

func (h *harness) turn(t *testing.T, sessionID, input string) *TurnResult {
	t.Helper()
	res, err := h.o.ProcessTurn(context.Background(), sessionID, input)
	if err != nil {
		t.Fatalf("ProcessTurn(%q) error: %v", input, err)
	}
	return res
}

func TestProcessTurn_InputValidation(t *testing.T) {
	h := newHarness(t)

	if _, err := h.o.ProcessTurn(context.Background(), "sess", "   "); err == nil {
		t.Error("blank input should fail")
	}
	if _, err := h.o.ProcessTurn(context.Background(), "", "hello"); err == nil {
		t.Error("blank session id should fail")
	}
}

func TestProcessTurn_QuestionTurn(t *testing.T) {
	h := newHarness(t)

	res := h.turn(t, "sess-q", "what can you do?")

	if res.Intent != model.IntentQuestion {
		t.Errorf("Intent = %q, want %q", res.Intent, model.IntentQuestion)
	}
	if res.Awaiting != model.AwaitingNone {
		t.Errorf("Awaiting = %q, want %q", res.Awaiting, model.AwaitingNone)
	}
	if res.Reply != composer.ReplyFallbackCapabilities {
		t.Errorf("Reply = %q, want the capabilities fallback", res.Reply)
	}
	if h.gw.callCount() != 0 {
		t.Errorf("gateway calls = %d, want 0 for a question", h.gw.callCount())
	}
}

// TestProcessTurn_GatherConfirmExecute walks a four-turn conversation:
// a create request missing its compartment, a topic switch to a
// compartment listing that comes back as a numbered choice, a pick by
// number, and the final confirmation that executes the plan.
func TestProcessTurn_GatherConfirmExecute(t *testing.T) {
	h := newHarness(t)
	const sessionID = "sess-flow"

	h.plannerStub.respond(`{"goal":"Create bucket logs","steps":[{"service":"objectstorage","action":"create_bucket","params":{"bucket_name":"logs","compartment_id":""}}]}`)
	h.gw.results["identity/list_compartments"] = []any{
		map[string]any{"name": "prod", "id": "ocid1.compartment.oc1..prod"},
		map[string]any{"name": "dev", "id": "ocid1.compartment.oc1..dev"},
	}
	h.gw.results["objectstorage/create_bucket"] = map[string]any{"name": "logs", "etag": "tag-1"}

	// turn 1: the build leaves one required parameter open
	res := h.turn(t, sessionID, "create a bucket called logs")
	if res.Awaiting != model.AwaitingParameters {
		t.Fatalf("turn 1 Awaiting = %q, want %q", res.Awaiting, model.AwaitingParameters)
	}
	if !strings.Contains(res.Reply, "compartment_id") {
		t.Fatalf("turn 1 reply must ask for compartment_id: %q", res.Reply)
	}
	if h.plannerStub.calls() != 1 {
		t.Errorf("planner LLM calls = %d, want 1", h.plannerStub.calls())
	}

	// turn 2: a fresh listing request defers the plan, runs, and its
	// results come back as choices for the still-missing identifier
	res = h.turn(t, sessionID, "show compartments")
	if res.Awaiting != model.AwaitingParameters {
		t.Fatalf("turn 2 Awaiting = %q, want %q", res.Awaiting, model.AwaitingParameters)
	}
	if !strings.Contains(res.Reply, "prod (ocid1.compartment.oc1..prod)") {
		t.Errorf("turn 2 reply must list compartments: %q", res.Reply)
	}
	if !strings.Contains(res.Reply, composer.ReplyResumePrefix) {
		t.Errorf("turn 2 reply must resume the deferred request: %q", res.Reply)
	}
	if !strings.Contains(res.Reply, "1. prod") {
		t.Errorf("turn 2 reply must offer numbered choices: %q", res.Reply)
	}
	if h.plannerStub.calls() != 1 {
		t.Errorf("planner LLM calls = %d, want 1 (listing uses a template)", h.plannerStub.calls())
	}

	// turn 3: picking a number fills the parameter, confirmation is next
	res = h.turn(t, sessionID, "1")
	if res.Awaiting != model.AwaitingConfirmation {
		t.Fatalf("turn 3 Awaiting = %q, want %q", res.Awaiting, model.AwaitingConfirmation)
	}
	if !strings.Contains(res.Reply, "Create bucket logs") {
		t.Errorf("turn 3 reply must describe the plan: %q", res.Reply)
	}

	// turn 4: the grant verifies and executes
	res = h.turn(t, sessionID, "yes")
	if res.Awaiting != model.AwaitingNone {
		t.Fatalf("turn 4 Awaiting = %q, want %q", res.Awaiting, model.AwaitingNone)
	}
	if !strings.Contains(res.Reply, "Done: Create bucket logs.") {
		t.Errorf("turn 4 reply = %q, want the completion summary", res.Reply)
	}

	last := h.gw.call(h.gw.callCount() - 1)
	if last.Service != "objectstorage" || last.Action != "create_bucket" {
		t.Fatalf("last gateway call = %s/%s, want objectstorage/create_bucket", last.Service, last.Action)
	}
	if last.Params["compartment_id"] != "ocid1.compartment.oc1..prod" {
		t.Errorf("compartment_id = %v, want the picked choice value", last.Params["compartment_id"])
	}
	if last.Params["bucket_name"] != "logs" {
		t.Errorf("bucket_name = %v, want logs", last.Params["bucket_name"])
	}

	// the whole exchange is on record
	state, err := h.mem.Load(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(state.Memory.ShortTerm) != 4 {
		t.Errorf("ShortTerm turns = %d, want 4", len(state.Memory.ShortTerm))
	}
	if len(state.Memory.RecentActions) == 0 {
		t.Error("executed actions must be recorded")
	}
	if state.ActivePlan != nil {
		t.Error("plan must be retired after execution")
	}
}

func TestProcessTurn_CancelDropsPlan(t *testing.T) {
	h := newHarness(t)
	const sessionID = "sess-cancel"

	h.plannerStub.respond(`{"goal":"Create bucket logs","steps":[{"service":"objectstorage","action":"create_bucket","params":{"bucket_name":"logs","compartment_id":""}}]}`)

	res := h.turn(t, sessionID, "create a bucket called logs")
	if res.Awaiting != model.AwaitingParameters {
		t.Fatalf("turn 1 Awaiting = %q, want %q", res.Awaiting, model.AwaitingParameters)
	}

	res = h.turn(t, sessionID, "cancel")
	if res.Reply != composer.ReplyCancelled {
		t.Errorf("Reply = %q, want %q", res.Reply, composer.ReplyCancelled)
	}
	if res.Awaiting != model.AwaitingNone {
		t.Errorf("Awaiting = %q, want %q", res.Awaiting, model.AwaitingNone)
	}

	state, err := h.mem.Load(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if state.ActivePlan != nil {
		t.Error("cancelled plan must not survive")
	}
	if h.gw.callCount() != 0 {
		t.Errorf("gateway calls = %d, want 0", h.gw.callCount())
	}
}

// loopSupervisor always routes to the verifier so the budget trips.
type loopSupervisor struct{}

func (loopSupervisor) Interpret(ctx context.Context, state *model.SessionState) {}
func (loopSupervisor) Next(ctx context.Context, state *model.SessionState) model.Stage {
	return model.StageVerifier
}

func TestProcessTurn_RoutingBudgetSurfacedVerbatim(t *testing.T) {
	h := newHarness(t)
	h.o.pipe.Supervisor = loopSupervisor{}
	h.o.cfg.RoutingBudget = 3

	res := h.turn(t, "sess-loop", "create a bucket called logs")

	if !strings.Contains(res.Reply, "RoutingBudgetExceeded") {
		t.Fatalf("Reply = %q, must carry the budget error verbatim", res.Reply)
	}
}

func TestProcessTurn_SameSessionSerialized(t *testing.T) {
	h := newHarness(t)
	const sessionID = "sess-parallel"

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.o.ProcessTurn(context.Background(), sessionID, "what can you do?")
		}()
	}
	wg.Wait()

	state, err := h.mem.Load(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(state.Memory.ShortTerm) != 4 {
		t.Errorf("ShortTerm turns = %d, want 4 with no lost updates", len(state.Memory.ShortTerm))
	}
}

func TestEvictIdle(t *testing.T) {
	h := newHarness(t)

	stale := h.o.acquire("stale")
	h.o.acquire("fresh")
	h.o.sessionsMu.Lock()
	stale.lastActive = time.Now().Add(-time.Hour)
	h.o.sessionsMu.Unlock()

	h.o.evictIdle()

	h.o.sessionsMu.Lock()
	_, staleKept := h.o.sessions["stale"]
	_, freshKept := h.o.sessions["fresh"]
	h.o.sessionsMu.Unlock()

	if staleKept {
		t.Error("stale session entry should be evicted")
	}
	if !freshKept {
		t.Error("fresh session entry should survive")
	}
}

func TestEvictIdle_SkipsRunningTurn(t *testing.T) {
	h := newHarness(t)

	busy := h.o.acquire("busy")
	busy.mu.Lock()
	defer busy.mu.Unlock()
	h.o.sessionsMu.Lock()
	busy.lastActive = time.Now().Add(-time.Hour)
	h.o.sessionsMu.Unlock()

	h.o.evictIdle()

	h.o.sessionsMu.Lock()
	_, kept := h.o.sessions["busy"]
	h.o.sessionsMu.Unlock()

	if !kept {
		t.Error("an entry with a running turn must not be evicted")
	}
}
