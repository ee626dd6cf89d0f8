package resolver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/cloud"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/datemath"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

func bucketStep(name string) model.Step {
	step := model.Step{
		Service:              "objectstorage",
		Action:               "create_bucket",
		Params:               map[string]any{"bucket_name": name},
		SafetyTier:           model.SafetyTierDestructive,
		RequiresConfirmation: true,
	}
	step.MissingParameters = cloud.MissingFor(step)
	return step
}

func stateWithPlan(input string, steps ...model.Step) *model.SessionState {
	state := model.NewSessionState("sess-resolve")
	state.UserInput = input
	state.ActivePlan = &model.Plan{ID: "plan-1", Goal: "test", Steps: steps}

	pending := make(map[string]model.ParamSpec)
	for _, name := range state.ActivePlan.MissingParameters() {
		pending[name] = cloud.SpecFor(name)
	}
	if len(pending) > 0 {
		state.PendingParameters = pending
	}
	return state
}

func TestResolve_BroadcastAcrossSteps(t *testing.T) {
	r := New(pkgLog.NewNop(), nil)
	state := stateWithPlan("ocid1.compartment.oc1..shared",
		bucketStep("logs"), bucketStep("metrics"), bucketStep("traces"))

	if got := state.ActivePlan.MissingParameters(); len(got) != 1 || got[0] != "compartment_id" {
		t.Fatalf("precondition: missing = %v", got)
	}

	if err := r.Resolve(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if missing := state.ActivePlan.MissingParameters(); len(missing) != 0 {
		t.Errorf("one reply must fill every step, still missing %v", missing)
	}
	for i, step := range state.ActivePlan.Steps {
		if step.Params["compartment_id"] != "ocid1.compartment.oc1..shared" {
			t.Errorf("step %d not filled: %v", i, step.Params)
		}
	}
	if state.PendingParameters != nil {
		t.Errorf("pending parameters not cleared: %v", state.PendingParameters)
	}
}

func TestResolve_NamedPairs(t *testing.T) {
	step := model.Step{
		Service: "objectstorage",
		Action:  "create_bucket",
		Params:  map[string]any{},
	}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("bucket_name: logs, compartment_id: ocid1.compartment.oc1..dev", step)

	r := New(pkgLog.NewNop(), nil)
	if err := r.Resolve(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := state.ActivePlan.Steps[0].Params
	if got["bucket_name"] != "logs" {
		t.Errorf("bucket_name = %v", got["bucket_name"])
	}
	if got["compartment_id"] != "ocid1.compartment.oc1..dev" {
		t.Errorf("compartment_id = %v", got["compartment_id"])
	}
	if state.ActivePlan.HasMissingParameters() {
		t.Errorf("still missing %v", state.ActivePlan.MissingParameters())
	}
}

func TestResolve_MultilineWithSpacedNames(t *testing.T) {
	step := model.Step{
		Service: "compute",
		Action:  "create_instance",
		Params: map[string]any{
			"compartment_id": "ocid1.compartment.oc1..dev",
			"subnet_id":      "ocid1.subnet.oc1..a",
			"image_id":       "ocid1.image.oc1..b",
			"display_name":   "web-1",
		},
	}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("availability domain: AD-1\nshape: VM.Standard.E4.Flex", step)

	r := New(pkgLog.NewNop(), nil)
	r.Resolve(context.Background(), state)

	got := state.ActivePlan.Steps[0].Params
	if got["availability_domain"] != "AD-1" {
		t.Errorf("availability_domain = %v", got["availability_domain"])
	}
	if got["shape"] != "VM.Standard.E4.Flex" {
		t.Errorf("shape = %v", got["shape"])
	}
}

func TestResolve_HyphenatedNamesFold(t *testing.T) {
	step := model.Step{
		Service: "compute",
		Action:  "create_instance",
		Params: map[string]any{
			"compartment_id": "ocid1.compartment.oc1..dev",
			"subnet_id":      "ocid1.subnet.oc1..a",
			"image_id":       "ocid1.image.oc1..b",
			"display_name":   "web-1",
			"shape":          "VM.Standard.E4.Flex",
		},
	}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("Availability-Domain: AD-2", step)

	r := New(pkgLog.NewNop(), nil)
	r.Resolve(context.Background(), state)

	if got := state.ActivePlan.Steps[0].Params["availability_domain"]; got != "AD-2" {
		t.Errorf("availability_domain = %v, want AD-2", got)
	}
}

func TestResolve_NumberedChoice(t *testing.T) {
	step := model.Step{Service: "compute", Action: "stop_instance", Params: map[string]any{}}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("2", step)
	state.ChoiceList = []model.Choice{
		{Label: "web-1", Value: "ocid1.instance.oc1..web1"},
		{Label: "web-2", Value: "ocid1.instance.oc1..web2"},
	}
	state.ChoiceParam = "instance_id"

	r := New(pkgLog.NewNop(), nil)
	r.Resolve(context.Background(), state)

	if got := state.ActivePlan.Steps[0].Params["instance_id"]; got != "ocid1.instance.oc1..web2" {
		t.Errorf("instance_id = %v", got)
	}
	if state.ChoiceList != nil || state.ChoiceParam != "" {
		t.Error("consumed choice list must be cleared")
	}
}

func TestResolve_ChoiceOutOfRange(t *testing.T) {
	step := model.Step{Service: "compute", Action: "stop_instance", Params: map[string]any{}}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("9", step)
	state.ChoiceList = []model.Choice{{Label: "web-1", Value: "ocid1.instance.oc1..web1"}}
	state.ChoiceParam = "instance_id"

	r := New(pkgLog.NewNop(), nil)
	r.Resolve(context.Background(), state)

	if !state.ActivePlan.HasMissingParameters() {
		t.Error("out of range choice must resolve nothing")
	}
}

func TestResolve_SinglePendingWholeReply(t *testing.T) {
	step := model.Step{
		Service: "objectstorage",
		Action:  "create_bucket",
		Params:  map[string]any{"compartment_id": "ocid1.compartment.oc1..dev"},
	}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("team-logs-archive", step)

	r := New(pkgLog.NewNop(), nil)
	r.Resolve(context.Background(), state)

	if got := state.ActivePlan.Steps[0].Params["bucket_name"]; got != "team-logs-archive" {
		t.Errorf("bucket_name = %v", got)
	}
}

func TestResolve_NoOpPreservesMissing(t *testing.T) {
	step := model.Step{Service: "objectstorage", Action: "create_bucket", Params: map[string]any{}}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("hmm let me check with the team", step)

	r := New(pkgLog.NewNop(), nil)
	if err := r.Resolve(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := state.ActivePlan.MissingParameters()
	if len(missing) != 2 {
		t.Errorf("no-op must preserve the missing set, got %v", missing)
	}
	if len(state.PendingParameters) != 2 {
		t.Errorf("pending parameters must survive a no-op: %v", state.PendingParameters)
	}
}

func TestResolve_WrongNameStructuredReply(t *testing.T) {
	step := model.Step{
		Service: "objectstorage",
		Action:  "create_bucket",
		Params:  map[string]any{"compartment_id": "ocid1.compartment.oc1..dev"},
	}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("region: us-ashburn-1", step)

	r := New(pkgLog.NewNop(), nil)
	r.Resolve(context.Background(), state)

	if got, ok := state.ActivePlan.Steps[0].Params["bucket_name"]; ok {
		t.Errorf("mislabeled reply must not fill bucket_name, got %v", got)
	}
}

func TestResolve_IDSuffixAlias(t *testing.T) {
	step := model.Step{Service: "compute", Action: "terminate_instance", Params: map[string]any{}}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("instance: ocid1.instance.oc1..gone", step)

	r := New(pkgLog.NewNop(), nil)
	r.Resolve(context.Background(), state)

	if got := state.ActivePlan.Steps[0].Params["instance_id"]; got != "ocid1.instance.oc1..gone" {
		t.Errorf("instance_id = %v", got)
	}
}

func TestResolve_AmbiguousBareOCID(t *testing.T) {
	step := model.Step{Service: "blockstorage", Action: "attach_volume", Params: map[string]any{}}
	step.MissingParameters = cloud.MissingFor(step)
	state := stateWithPlan("ocid1.volume.oc1..vol1", step)

	r := New(pkgLog.NewNop(), nil)
	r.Resolve(context.Background(), state)

	if !state.ActivePlan.HasMissingParameters() {
		t.Error("two pending identifiers make a bare OCID ambiguous")
	}
	if len(state.ActivePlan.MissingParameters()) != 2 {
		t.Errorf("missing = %v", state.ActivePlan.MissingParameters())
	}
}

func TestResolve_NeverOverwrites(t *testing.T) {
	filled := model.Step{
		Service: "objectstorage",
		Action:  "create_bucket",
		Params:  map[string]any{"compartment_id": "ocid1.compartment.oc1..keep", "bucket_name": "keep-me"},
	}
	filled.MissingParameters = cloud.MissingFor(filled)
	empty := bucketStep("other")

	state := stateWithPlan("ocid1.compartment.oc1..new", filled, empty)

	r := New(pkgLog.NewNop(), nil)
	r.Resolve(context.Background(), state)

	if got := state.ActivePlan.Steps[0].Params["compartment_id"]; got != "ocid1.compartment.oc1..keep" {
		t.Errorf("resolved value was overwritten: %v", got)
	}
	if got := state.ActivePlan.Steps[1].Params["compartment_id"]; got != "ocid1.compartment.oc1..new" {
		t.Errorf("missing step not filled: %v", got)
	}
}

func TestResolve_NoPlanIsNoOp(t *testing.T) {
	state := model.NewSessionState("sess-none")
	state.UserInput = "anything"

	r := New(pkgLog.NewNop(), nil)
	if err := r.Resolve(context.Background(), state); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolve_TimeWindowCanonicalized(t *testing.T) {
	dates, err := datemath.NewParser("UTC")
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}

	step := model.Step{
		Service:           "compute",
		Action:            "list_instances",
		Params:            map[string]any{"time_window": ""},
		SafetyTier:        model.SafetyTierSafe,
		MissingParameters: []string{"time_window"},
	}
	state := stateWithPlan("last 7 days", step)

	r := New(pkgLog.NewNop(), dates)
	r.Resolve(context.Background(), state)

	got, ok := state.ActivePlan.Steps[0].Params["time_window"].(string)
	if !ok || got == "" {
		t.Fatalf("time_window not filled: %v", state.ActivePlan.Steps[0].Params["time_window"])
	}
	start, end, found := strings.Cut(got, "/")
	if !found {
		t.Fatalf("time_window = %q, want an RFC3339 interval", got)
	}
	from, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("interval start %q: %v", start, err)
	}
	to, err := time.Parse(time.RFC3339, end)
	if err != nil {
		t.Fatalf("interval end %q: %v", end, err)
	}
	if !from.Before(to) {
		t.Errorf("interval start %v not before end %v", from, to)
	}
}

func TestResolve_UnparseableTimePhraseKeptRaw(t *testing.T) {
	dates, err := datemath.NewParser("UTC")
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}

	step := model.Step{
		Service:           "compute",
		Action:            "list_instances",
		Params:            map[string]any{"time_window": ""},
		SafetyTier:        model.SafetyTierSafe,
		MissingParameters: []string{"time_window"},
	}
	state := stateWithPlan("whenever you like", step)

	r := New(pkgLog.NewNop(), dates)
	r.Resolve(context.Background(), state)

	if got := state.ActivePlan.Steps[0].Params["time_window"]; got != "whenever you like" {
		t.Errorf("time_window = %v, want the raw phrase kept", got)
	}
}
