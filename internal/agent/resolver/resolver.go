package resolver

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

var pairRe = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_-]*)\s*[:=]\s*("[^"]*"|\S+)`)

// Resolve parses the user reply and merges every recognized parameter
// into all steps still missing it. A reply that resolves nothing
// leaves the plan untouched so the question can be asked again.
func (r *implResolver) Resolve(ctx context.Context, state *model.SessionState) error {
	plan := state.ActivePlan
	if plan == nil {
		return nil
	}
	pending := plan.MissingParameters()
	if len(pending) == 0 {
		return nil
	}

	resolved := r.parse(state, pending)
	if len(resolved) == 0 {
		r.l.Debugf(ctx, "%s: nothing recognized in %q, still missing %v", LogPrefixResolve, state.UserInput, pending)
		return nil
	}
	r.canonicalize(resolved)

	names := broadcast(plan, resolved)

	for _, name := range names {
		delete(state.PendingParameters, name)
	}
	if len(state.PendingParameters) == 0 {
		state.PendingParameters = nil
	}

	r.l.Infof(ctx, "%s: resolved %v, still missing %v", LogPrefixResolve, names, plan.MissingParameters())
	return nil
}

// broadcast fills every step missing a resolved name and returns the
// names that were applied somewhere.
func broadcast(plan *model.Plan, resolved map[string]string) []string {
	applied := make(map[string]bool)
	for i := range plan.Steps {
		step := &plan.Steps[i]
		for name, value := range resolved {
			if !step.IsMissing(name) {
				continue
			}
			if step.Params == nil {
				step.Params = make(map[string]any)
			}
			step.Params[name] = value
			step.MissingParameters = without(step.MissingParameters, name)
			applied[name] = true
		}
	}

	names := make([]string, 0, len(applied))
	for name := range applied {
		names = append(names, name)
	}
	return names
}

// canonicalize rewrites relative time phrases into absolute RFC3339
// intervals so the gateway never sees "last 7 days".
func (r *implResolver) canonicalize(resolved map[string]string) {
	if r.dates == nil {
		return
	}
	for name, value := range resolved {
		if !isTimeWindow(name) {
			continue
		}
		w, err := r.dates.ParseWindow(value, time.Now())
		if err != nil {
			continue // unrecognized phrases pass through unchanged
		}
		resolved[name] = w.Start.Format(time.RFC3339) + "/" + w.End.Format(time.RFC3339)
	}
}

func isTimeWindow(name string) bool {
	return name == "time_window" || strings.HasSuffix(name, "_window")
}

func without(names []string, drop string) []string {
	out := names[:0]
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parse extracts parameter values from the reply. Recognition order:
// numbered choice, name:value pairs, line splits, a bare OCID, and
// finally the whole reply when exactly one parameter is pending.
func (r *implResolver) parse(state *model.SessionState, pending []string) map[string]string {
	input := strings.TrimSpace(state.UserInput)
	if input == "" {
		return nil
	}

	pendingSet := make(map[string]bool, len(pending))
	for _, name := range pending {
		pendingSet[name] = true
	}

	// Numbered reply against an offered choice list.
	if n, err := strconv.Atoi(input); err == nil && len(state.ChoiceList) > 0 {
		if n >= 1 && n <= len(state.ChoiceList) {
			target := state.ChoiceParam
			if target == "" {
				target = pending[0]
			}
			value := state.ChoiceList[n-1].Value
			state.ChoiceList = nil
			state.ChoiceParam = ""
			return map[string]string{target: value}
		}
		return nil
	}

	resolved := make(map[string]string)

	// name: value and name=value pairs, possibly several per reply.
	pairMatches := pairRe.FindAllStringSubmatch(input, -1)
	for _, m := range pairMatches {
		name, ok := matchPending(canonicalName(m[1]), pendingSet)
		if !ok {
			continue
		}
		resolved[name] = cleanValue(m[2])
	}

	// Lines like "availability domain: AD-1" where the name has spaces.
	for _, line := range strings.Split(input, "\n") {
		nameRaw, valueRaw, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name, ok := matchPending(canonicalName(nameRaw), pendingSet)
		if !ok {
			continue
		}
		if _, done := resolved[name]; done {
			continue
		}
		if value := cleanValue(valueRaw); value != "" {
			resolved[name] = value
		}
	}

	if len(resolved) > 0 {
		return resolved
	}

	// A structured reply that named no pending parameter answered some
	// other question. Resolving nothing keeps the ask loop honest.
	if len(pairMatches) > 0 {
		return nil
	}

	// A bare OCID answers the only pending identifier.
	if ocid := findOCID(input); ocid != "" {
		if name, ok := soleIdentifier(pending); ok {
			return map[string]string{name: ocid}
		}
	}

	// With exactly one parameter pending the whole reply is its value.
	if len(pending) == 1 {
		return map[string]string{pending[0]: cleanValue(input)}
	}

	return nil
}

// canonicalName folds case, spaces and hyphens so "Availability-Domain"
// and "availability domain" both answer availability_domain.
func canonicalName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "-", "_")
}

// matchPending resolves a parsed name against the pending set, also
// accepting the name without its _id suffix ("instance" answers
// "instance_id").
func matchPending(name string, pendingSet map[string]bool) (string, bool) {
	if pendingSet[name] {
		return name, true
	}
	if withID := name + "_id"; pendingSet[withID] {
		return withID, true
	}
	return "", false
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, `"`)
	v = strings.TrimRight(v, ",")
	return strings.TrimSpace(v)
}

func findOCID(input string) string {
	for _, field := range strings.Fields(input) {
		field = strings.Trim(field, `",.`)
		if strings.HasPrefix(field, "ocid1.") {
			return field
		}
	}
	return ""
}

// soleIdentifier returns the pending name when exactly one of them
// expects an OCID-shaped value.
func soleIdentifier(pending []string) (string, bool) {
	var match string
	for _, name := range pending {
		if strings.HasSuffix(name, "_id") {
			if match != "" {
				return "", false
			}
			match = name
		}
	}
	return match, match != ""
}
