package planner

// Config tunes the planner for one deployment.
type Config struct {
	Model       string  // per-stage model override, empty uses provider default
	Temperature float64 // defaults to PlanTemperature
	MaxSteps    int     // defaults to MaxPlanSteps
}

// planResponse is the JSON shape the LLM must return.
type planResponse struct {
	Goal  string         `json:"goal"`
	Steps []stepResponse `json:"steps"`
}

type stepResponse struct {
	Service string         `json:"service"`
	Action  string         `json:"action"`
	Params  map[string]any `json:"params"`
}
