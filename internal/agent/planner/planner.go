package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/cloud"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
)

// Build creates a plan for the current turn and installs it as the
// active plan. On failure it clears the active plan and records the
// reason so the composer can apologize. There is no retry.
func (p *implPlanner) Build(ctx context.Context, state *model.SessionState) error {
	state.PlanError = ""

	query := state.NormalizedQuery
	if query == "" {
		query = state.UserInput
	}

	// Common read-only queries skip the LLM entirely.
	if state.Intent == model.IntentRetrieval {
		if step, goal, ok := cloud.DirectFetch(query); ok {
			p.l.Debugf(ctx, "%s: template hit for %q", LogPrefixBuild, query)
			p.install(state, &model.Plan{
				ID:    uuid.NewString(),
				Goal:  goal,
				Steps: []model.Step{step},
			})
			return nil
		}
	}

	prompt := p.buildPrompt(state, query)

	resp, err := p.llm.GenerateContent(ctx, &llmprovider.Request{
		Messages:    []llmprovider.Message{{Role: "user", Text: prompt}},
		Model:       p.cfg.Model,
		Temperature: p.cfg.Temperature,
		MaxTokens:   PlanMaxTokens,
	})
	if err != nil {
		p.fail(ctx, state, fmt.Sprintf("%s: %v", ErrMsgLLMCallFailed, err))
		return nil
	}

	responseText := strings.TrimSpace(resp.Text)
	if responseText == "" {
		p.fail(ctx, state, ErrMsgEmptyResponse)
		return nil
	}

	cleaned := agent.SanitizeJSONResponse(responseText)

	var parsed planResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		p.l.Errorf(ctx, "%s: failed to parse LLM response. Raw=%q Cleaned=%q", LogPrefixBuild, responseText, cleaned)
		p.fail(ctx, state, ErrMsgJSONParseFailed)
		return nil
	}

	if len(parsed.Steps) == 0 {
		p.fail(ctx, state, ErrMsgEmptyPlan)
		return nil
	}
	if len(parsed.Steps) > p.cfg.MaxSteps {
		p.fail(ctx, state, fmt.Sprintf("%s (%d > %d)", ErrMsgTooManySteps, len(parsed.Steps), p.cfg.MaxSteps))
		return nil
	}

	steps := make([]model.Step, 0, len(parsed.Steps))
	for i, s := range parsed.Steps {
		service := strings.ToLower(strings.TrimSpace(s.Service))
		action := strings.ToLower(strings.TrimSpace(s.Action))
		action = strings.ReplaceAll(action, " ", "_")

		if !cloud.IsKnownService(service) {
			p.fail(ctx, state, fmt.Sprintf("%s %q in step %d", ErrMsgUnknownService, s.Service, i+1))
			return nil
		}
		if action == "" {
			p.fail(ctx, state, fmt.Sprintf("%s (step %d)", ErrMsgMissingAction, i+1))
			return nil
		}

		params := s.Params
		if params == nil {
			params = make(map[string]any)
		}

		// Unscoped listings search the whole tenancy.
		if strings.HasPrefix(action, "list_") {
			if _, scoped := params["compartment_id"]; !scoped {
				if _, set := params["all_compartments"]; !set {
					params["all_compartments"] = true
				}
			}
		}

		tier := cloud.TierFor(action)
		step := model.Step{
			Service:              service,
			Action:               action,
			Params:               params,
			SafetyTier:           tier,
			RequiresConfirmation: tier == model.SafetyTierDestructive,
		}
		step.MissingParameters = cloud.MissingFor(step)
		steps = append(steps, step)
	}

	goal := strings.TrimSpace(parsed.Goal)
	if goal == "" {
		goal = query
	}

	p.install(state, &model.Plan{
		ID:    uuid.NewString(),
		Goal:  goal,
		Steps: steps,
	})

	p.l.Infof(ctx, "%s: built plan %s with %d steps (missing: %v)",
		LogPrefixBuild, state.ActivePlan.ID, len(steps), state.ActivePlan.MissingParameters())
	return nil
}

// install makes the plan active and refreshes every field derived from
// its content. A rebuilt plan always needs fresh confirmation.
func (p *implPlanner) install(state *model.SessionState, plan *model.Plan) {
	state.ActivePlan = plan
	state.PlanError = ""
	state.VerifierFeedback = nil
	state.ChoiceList = nil
	state.ConfirmationPending = false

	missing := plan.MissingParameters()
	if len(missing) == 0 {
		state.PendingParameters = nil
		return
	}
	pending := make(map[string]model.ParamSpec, len(missing))
	for _, name := range missing {
		pending[name] = cloud.SpecFor(name)
	}
	state.PendingParameters = pending
}

func (p *implPlanner) fail(ctx context.Context, state *model.SessionState, reason string) {
	p.l.Warnf(ctx, "%s: %s", LogPrefixBuild, reason)
	state.ActivePlan = nil
	state.PendingParameters = nil
	state.PlanError = reason
}

func (p *implPlanner) buildPrompt(state *model.SessionState, query string) string {
	var extra strings.Builder

	if state.Memory != nil && len(state.Memory.Preferences) > 0 {
		extra.WriteString(PromptPreferencesPrefix)
		for _, key := range sortedKeys(state.Memory.Preferences) {
			extra.WriteString(fmt.Sprintf("- %s: %s\n", key, state.Memory.Preferences[key]))
		}
	}

	if len(state.VerifierFeedback) > 0 {
		extra.WriteString(PromptFeedbackPrefix)
		for _, fb := range state.VerifierFeedback {
			extra.WriteString(fmt.Sprintf("- %s\n", fb))
		}
	}

	return fmt.Sprintf(PromptPlanSystem, cloud.PromptActions(), query, extra.String())
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
