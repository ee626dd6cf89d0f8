package cloud

import (
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

// fetchTemplate is a canned single-step retrieval for a common query.
type fetchTemplate struct {
	phrases []string
	goal    string
	step    model.Step
}

// Common retrievals skip the plan builder entirely. Phrases are matched
// as substrings of the normalized query.
var fetchTemplates = []fetchTemplate{
	{
		phrases: []string{"running instances", "instances running", "running vms"},
		goal:    "List running instances",
		step: model.Step{
			Service:    "compute",
			Action:     "list_instances",
			Params:     map[string]any{"lifecycle_state": "RUNNING", "all_compartments": true},
			SafetyTier: model.SafetyTierSafe,
		},
	},
	{
		phrases: []string{"stopped instances", "instances stopped", "stopped vms"},
		goal:    "List stopped instances",
		step: model.Step{
			Service:    "compute",
			Action:     "list_instances",
			Params:     map[string]any{"lifecycle_state": "STOPPED", "all_compartments": true},
			SafetyTier: model.SafetyTierSafe,
		},
	},
	{
		phrases: []string{"active users", "list users", "all users"},
		goal:    "List active users",
		step: model.Step{
			Service:    "identity",
			Action:     "list_users",
			Params:     map[string]any{"lifecycle_state": "ACTIVE"},
			SafetyTier: model.SafetyTierSafe,
		},
	},
	{
		phrases: []string{"available volumes", "unattached volumes", "free volumes"},
		goal:    "List available volumes",
		step: model.Step{
			Service:    "blockstorage",
			Action:     "list_volumes",
			Params:     map[string]any{"lifecycle_state": "AVAILABLE", "all_compartments": true},
			SafetyTier: model.SafetyTierSafe,
		},
	},
	{
		phrases: []string{"list compartments", "my compartments", "all compartments", "show compartments"},
		goal:    "List compartments",
		step: model.Step{
			Service:    "identity",
			Action:     "list_compartments",
			Params:     map[string]any{},
			SafetyTier: model.SafetyTierSafe,
		},
	},
}

// DirectFetch matches a normalized query against the canned retrieval
// templates. The returned step is a copy; callers may mutate it.
func DirectFetch(normalizedQuery string) (model.Step, string, bool) {
	q := strings.ToLower(normalizedQuery)
	for _, tpl := range fetchTemplates {
		for _, phrase := range tpl.phrases {
			if strings.Contains(q, phrase) {
				return copyStep(tpl.step), tpl.goal, true
			}
		}
	}
	return model.Step{}, "", false
}

func copyStep(s model.Step) model.Step {
	params := make(map[string]any, len(s.Params))
	for k, v := range s.Params {
		params[k] = v
	}
	s.Params = params
	return s
}
