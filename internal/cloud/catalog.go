package cloud

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

// knownServices are the logical gateway targets the planner may emit.
var knownServices = map[string]bool{
	"compute":        true,
	"identity":       true,
	"blockstorage":   true,
	"virtualnetwork": true,
	"objectstorage":  true,
	"loadbalancer":   true,
	"database":       true,
	"filestorage":    true,
	"dns":            true,
}

// mutatingVerbs mark an action destructive when its first token matches.
var mutatingVerbs = map[string]bool{
	"create":    true,
	"delete":    true,
	"update":    true,
	"stop":      true,
	"start":     true,
	"terminate": true,
	"remove":    true,
	"restart":   true,
	"reboot":    true,
	"attach":    true,
	"detach":    true,
	"launch":    true,
}

// IsKnownService reports whether the service is a valid gateway target.
func IsKnownService(service string) bool {
	return knownServices[strings.ToLower(strings.TrimSpace(service))]
}

// Services returns the sorted list of valid gateway targets.
func Services() []string {
	out := make([]string, 0, len(knownServices))
	for _, s := range []string{
		"blockstorage", "compute", "database", "dns", "filestorage",
		"identity", "loadbalancer", "objectstorage", "virtualnetwork",
	} {
		out = append(out, s)
	}
	return out
}

// IsMutatingAction reports whether the action changes cloud state.
// The verb is the action's first underscore-separated token.
func IsMutatingAction(action string) bool {
	action = strings.ToLower(strings.TrimSpace(action))
	verb, _, _ := strings.Cut(action, "_")
	return mutatingVerbs[verb]
}

// TierFor classifies an action into a safety tier.
func TierFor(action string) model.SafetyTier {
	if IsMutatingAction(action) {
		return model.SafetyTierDestructive
	}
	return model.SafetyTierSafe
}

// PromptActions renders the service catalog with required parameters
// for LLM prompts, one line per known mutating action.
func PromptActions() string {
	byService := make(map[string][]string)
	for key, params := range requiredParams {
		service, action, _ := strings.Cut(key, "/")
		byService[service] = append(byService[service], fmt.Sprintf("%s (%s)", action, strings.Join(params, ", ")))
	}

	var sb strings.Builder
	for _, service := range Services() {
		actions := byService[service]
		if len(actions) == 0 {
			continue
		}
		sort.Strings(actions)
		sb.WriteString(fmt.Sprintf("- %s: %s\n", service, strings.Join(actions, "; ")))
	}
	sb.WriteString("Every service also supports read-only list_* and get_* actions with optional filter params.\n")
	return sb.String()
}
