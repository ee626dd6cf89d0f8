package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/cloud"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
)

// Verify runs structural checks and an LLM review over the active
// plan. Acceptance marks the plan verified and resets the retry
// counter. The first rejection stores feedback for a rebuild, any
// further rejection records a terminal plan error. An unreachable
// reviewer counts as a rejection, a destructive plan never passes on
// benefit of the doubt.
func (v *implVerifier) Verify(ctx context.Context, state *model.SessionState) error {
	plan := state.ActivePlan
	if plan == nil {
		state.PlanError = ReasonNoPlan
		return nil
	}

	reasons := structuralProblems(plan)
	if len(reasons) == 0 {
		reasons = v.review(ctx, state, plan)
	}

	if len(reasons) == 0 {
		plan.Verified = true
		state.VerifyRetries = 0
		state.VerifierFeedback = nil
		v.l.Infof(ctx, "%s: plan %s accepted", LogPrefixVerify, plan.ID)
		return nil
	}

	if state.VerifyRetries == 0 {
		state.VerifyRetries = 1
		state.VerifierFeedback = reasons
		v.l.Warnf(ctx, "%s: plan %s rejected, one rebuild allowed: %v", LogPrefixVerify, plan.ID, reasons)
		return nil
	}

	// Second rejection: the correction round is spent.
	state.VerifierFeedback = reasons
	state.PlanError = fmt.Sprintf("plan failed verification: %s", strings.Join(reasons, "; "))
	v.l.Warnf(ctx, "%s: plan %s rejected again, giving up: %v", LogPrefixVerify, plan.ID, reasons)
	return nil
}

// structuralProblems checks plan invariants that need no LLM.
func structuralProblems(plan *model.Plan) []string {
	var reasons []string

	if !plan.Executable() {
		reasons = append(reasons, ReasonNotExecutable)
	}

	for i, step := range plan.Steps {
		if !cloud.IsKnownService(step.Service) {
			reasons = append(reasons, fmt.Sprintf("step %d uses unknown service %q", i+1, step.Service))
		}
		if strings.TrimSpace(step.Action) == "" {
			reasons = append(reasons, fmt.Sprintf("step %d has no action", i+1))
		}
		if want := cloud.TierFor(step.Action); step.SafetyTier != want {
			reasons = append(reasons, fmt.Sprintf("step %d safety tier is %s, expected %s", i+1, step.SafetyTier, want))
		}
		if step.SafetyTier == model.SafetyTierDestructive && !step.RequiresConfirmation {
			reasons = append(reasons, fmt.Sprintf("step %d is destructive but skips confirmation", i+1))
		}
	}

	return reasons
}

// review asks the LLM whether the plan serves the request.
func (v *implVerifier) review(ctx context.Context, state *model.SessionState, plan *model.Plan) []string {
	request := state.NormalizedQuery
	if request == "" {
		request = state.UserInput
	}

	stepsJSON, err := json.MarshalIndent(plan.Steps, "", "  ")
	if err != nil {
		return []string{ReasonVerifierUnavailable}
	}

	prompt := fmt.Sprintf(PromptVerifySystem, request, plan.Goal, string(stepsJSON))

	resp, err := v.llm.GenerateContent(ctx, &llmprovider.Request{
		Messages:    []llmprovider.Message{{Role: "user", Text: prompt}},
		Model:       v.cfg.Model,
		Temperature: v.cfg.Temperature,
	})
	if err != nil {
		v.l.Warnf(ctx, "%s: review call failed: %v", LogPrefixVerify, err)
		return []string{ReasonVerifierUnavailable}
	}

	cleaned := agent.SanitizeJSONResponse(resp.Text)

	var parsed verifyResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		v.l.Warnf(ctx, "%s: unparseable verdict. Raw=%q Cleaned=%q", LogPrefixVerify, resp.Text, cleaned)
		return []string{ReasonVerifierUnavailable}
	}

	if strings.EqualFold(parsed.Verdict, VerdictAccept) {
		return nil
	}

	if len(parsed.Reasons) == 0 {
		return []string{"plan rejected without a stated reason"}
	}
	return parsed.Reasons
}
