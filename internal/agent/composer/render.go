package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

// renderSteps lists plan steps one per line for confirmation asks.
func renderSteps(plan *model.Plan) string {
	var sb strings.Builder
	for i, step := range plan.Steps {
		sb.WriteString(fmt.Sprintf("%d. %s on %s", i+1, step.Action, step.Service))
		if len(step.Params) > 0 {
			sb.WriteString(" (")
			sb.WriteString(compactParams(step.Params))
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func compactParams(params map[string]any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%d params", len(params))
	}
	s := string(data)
	if len(s) > 160 {
		s = s[:157] + "..."
	}
	return s
}

// renderResults serializes step outcomes for the summary prompt. Error
// messages appear exactly as the gateway returned them.
func renderResults(plan *model.Plan, results []model.StepResult) string {
	var sb strings.Builder
	for _, res := range results {
		label := fmt.Sprintf("step %d", res.StepIndex+1)
		if plan != nil && res.StepIndex < len(plan.Steps) {
			step := plan.Steps[res.StepIndex]
			label = fmt.Sprintf("step %d (%s on %s)", res.StepIndex+1, step.Action, step.Service)
		}

		switch res.Status {
		case model.StepStatusOK:
			sb.WriteString(fmt.Sprintf("%s: ok", label))
			if res.Data != nil {
				if data, err := json.Marshal(res.Data); err == nil {
					payload := string(data)
					if len(payload) > 600 {
						payload = payload[:597] + "..."
					}
					sb.WriteString(" " + payload)
				}
			}
		case model.StepStatusError:
			sb.WriteString(fmt.Sprintf("%s: failed (%s): %s", label, res.Error.Kind, res.Error.Message))
		case model.StepStatusSkipped:
			sb.WriteString(fmt.Sprintf("%s: skipped", label))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// deterministicSummary is the no-LLM execution reply.
func deterministicSummary(state *model.SessionState) string {
	plan := state.ActivePlan
	results := state.StepResults
	summary := model.Summarize(results)

	var sb strings.Builder
	switch {
	case summary.Failed == 0 && summary.Skipped == 0:
		if plan != nil {
			sb.WriteString(fmt.Sprintf("Done: %s.", plan.Goal))
		} else {
			sb.WriteString("Done.")
		}
	default:
		sb.WriteString(fmt.Sprintf("I completed %d of %d steps.", summary.Succeeded, summary.Total))
	}

	for _, res := range results {
		switch res.Status {
		case model.StepStatusOK:
			for _, line := range dataLines(res.Data) {
				sb.WriteString("\n" + line)
			}
		case model.StepStatusError:
			label := stepLabel(plan, res.StepIndex)
			sb.WriteString(fmt.Sprintf("\n%s failed (%s): %s", label, res.Error.Kind, res.Error.Message))
			if remedy := remedyFor(res.Error.Kind); remedy != "" {
				sb.WriteString(" " + remedy)
			}
		case model.StepStatusSkipped:
			label := stepLabel(plan, res.StepIndex)
			sb.WriteString(fmt.Sprintf("\n%s was skipped.", label))
		}
	}
	return sb.String()
}

func stepLabel(plan *model.Plan, index int) string {
	if plan != nil && index < len(plan.Steps) {
		step := plan.Steps[index]
		return fmt.Sprintf("Step %d (%s on %s)", index+1, step.Action, step.Service)
	}
	return fmt.Sprintf("Step %d", index+1)
}

// remedyFor maps a failure kind to a short next step for the user.
func remedyFor(kind model.ErrorKind) string {
	switch kind {
	case model.ErrorKindNotFound:
		return "Check the name or OCID, it may live in another compartment."
	case model.ErrorKindForbidden:
		return "The gateway credentials lack a policy allowing this action."
	case model.ErrorKindConflict:
		return "The resource is in a conflicting state, check it and try again."
	case model.ErrorKindFatal:
		return "Cloud access is broken, re-authenticate the gateway before retrying."
	case model.ErrorKindTransient:
		return "This looks temporary, try again in a moment."
	default:
		return ""
	}
}

// dataLines renders returned data as short list lines.
func dataLines(data any) []string {
	items, ok := data.([]any)
	if !ok {
		if data == nil {
			return nil
		}
		if encoded, err := json.Marshal(data); err == nil && len(encoded) <= 200 {
			return []string{"- " + string(encoded)}
		}
		return nil
	}

	var lines []string
	for _, item := range items {
		if len(lines) == MaxDataLines {
			lines = append(lines, fmt.Sprintf("...and %d more.", len(items)-MaxDataLines))
			break
		}
		lines = append(lines, "- "+itemLabel(item))
	}
	return lines
}

func itemLabel(item any) string {
	m, ok := item.(map[string]any)
	if !ok {
		return fmt.Sprintf("%v", item)
	}
	name := stringField(m, "display_name", "name", "bucket_name", "hostname")
	id := stringField(m, "id", "ocid")
	switch {
	case name != "" && id != "":
		return fmt.Sprintf("%s (%s)", name, id)
	case name != "":
		return name
	case id != "":
		return id
	default:
		if encoded, err := json.Marshal(m); err == nil {
			s := string(encoded)
			if len(s) > 120 {
				s = s[:117] + "..."
			}
			return s
		}
		return "item"
	}
}

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// ensureErrorsVerbatim appends any failed step message the LLM reply
// dropped. Errors must always reach the user exactly as returned.
func ensureErrorsVerbatim(reply string, results []model.StepResult) string {
	var missing []model.StepResult
	for _, res := range results {
		if res.Status == model.StepStatusError && res.Error != nil && !strings.Contains(reply, res.Error.Message) {
			missing = append(missing, res)
		}
	}
	if len(missing) == 0 {
		return reply
	}

	var sb strings.Builder
	sb.WriteString(reply)
	sb.WriteString("\n\nError details:")
	for _, res := range missing {
		sb.WriteString(fmt.Sprintf("\n- step %d (%s): %s", res.StepIndex+1, res.Error.Kind, res.Error.Message))
		if remedy := remedyFor(res.Error.Kind); remedy != "" {
			sb.WriteString(" " + remedy)
		}
	}
	return sb.String()
}

// extractChoices pulls selectable resources out of listing results.
func extractChoices(results []model.StepResult) []model.Choice {
	var choices []model.Choice
	for _, res := range results {
		if res.Status != model.StepStatusOK {
			continue
		}
		items, ok := res.Data.([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			id := stringField(m, "id", "ocid")
			if id == "" {
				continue
			}
			label := stringField(m, "display_name", "name", "hostname")
			if label == "" {
				label = id
			}
			choices = append(choices, model.Choice{Label: label, Value: id})
			if len(choices) == MaxChoiceOptions {
				return choices
			}
		}
	}
	return choices
}
