package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SafetyTier classifies a step as read-only or mutating.
type SafetyTier string

const (
	SafetyTierSafe        SafetyTier = "safe"
	SafetyTierDestructive SafetyTier = "destructive"
)

// ErrorKind classifies a failed cloud call.
type ErrorKind string

const (
	ErrorKindNotFound  ErrorKind = "not_found"
	ErrorKindForbidden ErrorKind = "forbidden"
	ErrorKindConflict  ErrorKind = "conflict"
	ErrorKindTransient ErrorKind = "transient"
	ErrorKindFatal     ErrorKind = "fatal"
)

// Step is one atomic call against the automation gateway.
type Step struct {
	Service              string         `json:"service"`
	Action               string         `json:"action"`
	Params               map[string]any `json:"params"`
	SafetyTier           SafetyTier     `json:"safety_tier"`
	RequiresConfirmation bool           `json:"requires_confirmation"` // derived: tier is destructive
	MissingParameters    []string       `json:"missing_parameters,omitempty"`
}

// IsMissing reports whether name is still unresolved for this step.
func (s Step) IsMissing(name string) bool {
	for _, m := range s.MissingParameters {
		if m == name {
			return true
		}
	}
	return false
}

// ParamSpec describes a parameter the user still has to supply.
type ParamSpec struct {
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
	Example string `json:"example"`
}

// Plan is an ordered sequence of steps serving one user request.
type Plan struct {
	ID        string `json:"id"`
	Goal      string `json:"goal"`
	Steps     []Step `json:"steps"`
	Verified  bool   `json:"verified"`
	Confirmed bool   `json:"confirmed"`
}

// MissingParameters returns the union of unresolved parameter names across
// all steps, first-seen order, no duplicates.
func (p *Plan) MissingParameters() []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, step := range p.Steps {
		for _, name := range step.MissingParameters {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// HasMissingParameters reports whether any step still lacks a parameter.
func (p *Plan) HasMissingParameters() bool {
	return len(p.MissingParameters()) > 0
}

// HasDestructive reports whether any step mutates cloud resources.
func (p *Plan) HasDestructive() bool {
	if p == nil {
		return false
	}
	for _, step := range p.Steps {
		if step.SafetyTier == SafetyTierDestructive {
			return true
		}
	}
	return false
}

// Executable reports whether the plan may be verified and run: every step
// fully parameterized, and confirmation granted when any step requires it.
func (p *Plan) Executable() bool {
	if p == nil || len(p.Steps) == 0 {
		return false
	}
	for _, step := range p.Steps {
		if len(step.MissingParameters) > 0 {
			return false
		}
		if step.RequiresConfirmation && !p.Confirmed {
			return false
		}
	}
	return true
}

// Fingerprint is a stable content hash used by the routing budget to detect
// revisits of the same (stage, plan) pair within one turn.
func (p *Plan) Fingerprint() string {
	if p == nil {
		return "none"
	}
	raw, err := json.Marshal(p.Steps)
	if err != nil {
		raw = []byte(fmt.Sprintf("%s:%d", p.ID, len(p.Steps)))
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:6])
}

// StepStatus is the outcome of one executed step.
type StepStatus string

const (
	StepStatusOK      StepStatus = "ok"
	StepStatusError   StepStatus = "error"
	StepStatusSkipped StepStatus = "skipped"
)

// StepError carries the classified failure of a step.
type StepError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// StepResult records the outcome of one step, in plan order.
type StepResult struct {
	StepIndex int         `json:"step_index"`
	Status    StepStatus  `json:"status"`
	Data      any         `json:"data,omitempty"`
	Error     *StepError  `json:"error,omitempty"`
}

// ExecutionSummary aggregates step outcomes for the composer.
type ExecutionSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Summarize counts step outcomes.
func Summarize(results []StepResult) ExecutionSummary {
	sum := ExecutionSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StepStatusOK:
			sum.Succeeded++
		case StepStatusError:
			sum.Failed++
		case StepStatusSkipped:
			sum.Skipped++
		}
	}
	return sum
}
