package model

import "testing"

func TestPlanMissingParameters(t *testing.T) {
	t.Run("Union Preserves First Seen Order", func(t *testing.T) {
		plan := &Plan{Steps: []Step{
			{Action: "create_bucket", MissingParameters: []string{"compartment_id", "name"}},
			{Action: "create_bucket", MissingParameters: []string{"compartment_id"}},
			{Action: "create_volume", MissingParameters: []string{"size_in_gbs", "compartment_id"}},
		}}

		got := plan.MissingParameters()
		want := []string{"compartment_id", "name", "size_in_gbs"}
		if len(got) != len(want) {
			t.Fatalf("expected %d names, got %d: %v", len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("Nil Plan", func(t *testing.T) {
		var plan *Plan
		if plan.MissingParameters() != nil {
			t.Error("nil plan should have no missing parameters")
		}
		if plan.HasMissingParameters() {
			t.Error("nil plan should not report missing parameters")
		}
	})
}

func TestPlanExecutable(t *testing.T) {
	t.Run("Empty Plan Not Executable", func(t *testing.T) {
		plan := &Plan{}
		if plan.Executable() {
			t.Error("plan without steps should not be executable")
		}
	})

	t.Run("Missing Parameter Blocks Execution", func(t *testing.T) {
		plan := &Plan{Steps: []Step{
			{Action: "list_instances", SafetyTier: SafetyTierSafe},
			{Action: "create_bucket", SafetyTier: SafetyTierDestructive, RequiresConfirmation: true, MissingParameters: []string{"name"}},
		}}
		plan.Confirmed = true
		if plan.Executable() {
			t.Error("plan with a missing parameter should not be executable")
		}
	})

	t.Run("Destructive Requires Confirmation", func(t *testing.T) {
		plan := &Plan{Steps: []Step{
			{Action: "delete_bucket", SafetyTier: SafetyTierDestructive, RequiresConfirmation: true},
		}}
		if plan.Executable() {
			t.Error("unconfirmed destructive plan should not be executable")
		}
		plan.Confirmed = true
		if !plan.Executable() {
			t.Error("confirmed destructive plan should be executable")
		}
	})

	t.Run("Safe Plan Needs No Confirmation", func(t *testing.T) {
		plan := &Plan{Steps: []Step{
			{Action: "list_instances", SafetyTier: SafetyTierSafe},
		}}
		if !plan.Executable() {
			t.Error("fully resolved safe plan should be executable without confirmation")
		}
	})
}

func TestPlanFingerprint(t *testing.T) {
	t.Run("Stable For Same Steps", func(t *testing.T) {
		a := &Plan{ID: "a", Steps: []Step{{Service: "compute", Action: "list_instances"}}}
		b := &Plan{ID: "b", Steps: []Step{{Service: "compute", Action: "list_instances"}}}
		if a.Fingerprint() != b.Fingerprint() {
			t.Error("plans with identical steps should share a fingerprint")
		}
	})

	t.Run("Changes When Params Change", func(t *testing.T) {
		a := &Plan{Steps: []Step{{Service: "compute", Action: "list_instances", Params: map[string]any{"compartment_id": "x"}}}}
		b := &Plan{Steps: []Step{{Service: "compute", Action: "list_instances", Params: map[string]any{"compartment_id": "y"}}}}
		if a.Fingerprint() == b.Fingerprint() {
			t.Error("different params should produce different fingerprints")
		}
	})

	t.Run("Nil Plan", func(t *testing.T) {
		var plan *Plan
		if plan.Fingerprint() != "none" {
			t.Errorf("expected sentinel fingerprint for nil plan, got %q", plan.Fingerprint())
		}
	})
}

func TestSummarize(t *testing.T) {
	results := []StepResult{
		{StepIndex: 0, Status: StepStatusOK},
		{StepIndex: 1, Status: StepStatusError, Error: &StepError{Kind: ErrorKindForbidden, Message: "permission denied"}},
		{StepIndex: 2, Status: StepStatusSkipped},
		{StepIndex: 3, Status: StepStatusOK},
	}

	sum := Summarize(results)
	if sum.Total != 4 || sum.Succeeded != 2 || sum.Failed != 1 || sum.Skipped != 1 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}
