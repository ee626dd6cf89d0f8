package composer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/cloud"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
)

// Compose builds the reply that ends the current turn. Exactly one
// branch applies, checked in severity order: plan failure,
// cancellation, execution outcome, parameter ask, confirmation ask,
// plain answer. Spent plans are retired here and the top deferred
// plan, if any, is brought back with its own follow-up question.
func (c *implComposer) Compose(ctx context.Context, state *model.SessionState) string {
	switch {
	case state.PlanError != "":
		reply := c.composeError(state)
		c.retire(state)
		return c.appendResume(state, reply)

	case state.Cancelled:
		reply := ReplyCancelled
		return c.appendResume(state, reply)

	case len(state.StepResults) > 0:
		reply := c.composeExecution(ctx, state)
		c.retire(state)
		return c.appendResume(state, reply)

	case state.ActivePlan != nil && state.ActivePlan.HasMissingParameters():
		return c.composeParamAsk(state)

	case state.ActivePlan != nil && state.ActivePlan.HasDestructive() && !state.ActivePlan.Confirmed:
		return c.composeConfirmation(state)

	default:
		return c.composeAnswer(ctx, state)
	}
}

// retire drops a plan whose lifecycle ended this turn. Step results
// survive for the turn record, deferred plans are untouched.
func (c *implComposer) retire(state *model.SessionState) {
	results := state.StepResults
	state.ClearActivePlan()
	state.StepResults = results
}

// appendResume reinstates the most recently deferred plan and extends
// the reply with its next question.
func (c *implComposer) appendResume(state *model.SessionState, reply string) string {
	if state.ActivePlan != nil {
		return reply
	}
	resumed := state.PopDeferred()
	if resumed == nil {
		return reply
	}

	state.ActivePlan = resumed
	missing := resumed.MissingParameters()

	if len(missing) > 0 {
		pending := make(map[string]model.ParamSpec, len(missing))
		for _, name := range missing {
			pending[name] = cloud.SpecFor(name)
		}
		state.PendingParameters = pending
		c.offerChoices(state, missing)
		ask := c.composeParamAsk(state)
		return fmt.Sprintf("%s\n\n%s%q.\n%s", reply, ReplyResumePrefix, resumed.Goal, ask)
	}

	ask := c.composeConfirmation(state)
	return fmt.Sprintf("%s\n\n%s%q.\n%s", reply, ReplyResumePrefix, resumed.Goal, ask)
}

// offerChoices turns fresh listing results into a numbered choice list
// when exactly one identifier is still missing.
func (c *implComposer) offerChoices(state *model.SessionState, missing []string) {
	if len(missing) != 1 || !strings.HasSuffix(missing[0], "_id") {
		return
	}
	choices := extractChoices(state.StepResults)
	if len(choices) == 0 {
		return
	}
	state.ChoiceList = choices
	state.ChoiceParam = missing[0]
}

func (c *implComposer) composeError(state *model.SessionState) string {
	var sb strings.Builder
	sb.WriteString(ReplyErrorPrefix)
	sb.WriteString(state.PlanError)
	sb.WriteString(".")
	if len(state.VerifierFeedback) > 0 && !strings.Contains(state.PlanError, state.VerifierFeedback[0]) {
		sb.WriteString("\nReview notes:")
		for _, reason := range state.VerifierFeedback {
			sb.WriteString("\n- ")
			sb.WriteString(reason)
		}
	}
	sb.WriteString("\nYou can rephrase the request or try again later.")
	return sb.String()
}

// composeConfirmation asks the user to approve the active plan and
// suspends the turn on that question.
func (c *implComposer) composeConfirmation(state *model.SessionState) string {
	plan := state.ActivePlan
	state.ConfirmationPending = true
	state.Awaiting = model.AwaitingConfirmation

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("I'm ready to run: %s\n", plan.Goal))
	sb.WriteString(renderSteps(plan))
	if plan.HasDestructive() {
		sb.WriteString("This changes cloud resources.\n")
	}
	sb.WriteString(ReplyConfirmSuffix)
	return sb.String()
}

// composeParamAsk asks for the missing parameters and suspends the
// turn on that question.
func (c *implComposer) composeParamAsk(state *model.SessionState) string {
	plan := state.ActivePlan
	state.Awaiting = model.AwaitingParameters

	missing := plan.MissingParameters()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To continue with %q, I still need:\n", plan.Goal))

	shown := missing
	if len(shown) > MaxAskedParams {
		shown = shown[:MaxAskedParams]
	}
	for _, name := range shown {
		spec, ok := state.PendingParameters[name]
		if !ok {
			spec = cloud.SpecFor(name)
		}
		if spec.Example != "" {
			sb.WriteString(fmt.Sprintf("- %s: %s (example: %s)\n", spec.Name, spec.Purpose, spec.Example))
		} else {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Purpose))
		}
	}
	if rest := len(missing) - len(shown); rest > 0 {
		sb.WriteString(fmt.Sprintf("...and %d more after that.\n", rest))
	}

	if len(state.ChoiceList) > 0 && state.ChoiceParam != "" {
		sb.WriteString(fmt.Sprintf("For %s you can pick one by number:\n", state.ChoiceParam))
		for i, choice := range state.ChoiceList {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, choice.Label))
		}
	}

	sb.WriteString(ReplyParamHint)
	return sb.String()
}

// composeExecution presents step outcomes. Failed step messages are
// kept verbatim even when the LLM writes the summary.
func (c *implComposer) composeExecution(ctx context.Context, state *model.SessionState) string {
	request := state.UserInput
	if request == "" && state.ActivePlan != nil {
		request = state.ActivePlan.Goal
	}

	rendered := renderResults(state.ActivePlan, state.StepResults)

	prompt := fmt.Sprintf(PromptSummarySystem, request, rendered)
	resp, err := c.llm.GenerateContent(ctx, &llmprovider.Request{
		Messages:    []llmprovider.Message{{Role: "user", Text: prompt}},
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		c.l.Warnf(ctx, "%s: summary LLM unavailable, using deterministic reply: %v", LogPrefixCompose, err)
		return deterministicSummary(state)
	}

	return ensureErrorsVerbatim(strings.TrimSpace(resp.Text), state.StepResults)
}

// composeAnswer handles turns that need no cloud call.
func (c *implComposer) composeAnswer(ctx context.Context, state *model.SessionState) string {
	var history strings.Builder
	if state.Memory != nil {
		for _, turn := range state.Memory.LastTurns(5) {
			history.WriteString(fmt.Sprintf("user: %s\ncopilot: %s\n", turn.UserInput, turn.Reply))
		}
	}
	if history.Len() == 0 {
		history.WriteString("(none)\n")
	}

	recallBlock := ""
	if c.mem != nil {
		if hits := c.mem.Recall(ctx, state.UserInput, 3); len(hits) > 0 {
			recallBlock = "Possibly relevant past activity:\n"
			for _, hit := range hits {
				recallBlock += "- " + hit + "\n"
			}
		}
	}

	prompt := fmt.Sprintf(PromptAnswerSystem, c.timeContext(), history.String(), recallBlock, state.UserInput)
	resp, err := c.llm.GenerateContent(ctx, &llmprovider.Request{
		Messages:    []llmprovider.Message{{Role: "user", Text: prompt}},
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		c.l.Warnf(ctx, "%s: answer LLM unavailable, using fallback: %v", LogPrefixCompose, err)
		return ReplyFallbackCapabilities
	}
	return strings.TrimSpace(resp.Text)
}

func (c *implComposer) timeContext() string {
	loc := time.UTC
	if c.cfg.Timezone != "" {
		if l, err := time.LoadLocation(c.cfg.Timezone); err == nil {
			loc = l
		}
	}
	return "Current time: " + time.Now().In(loc).Format("Monday, 02 Jan 2006 15:04 MST")
}
