package planner

// Log prefixes
const (
	LogPrefixBuild = "internal.agent.planner.Build"
)

// Planner prompts
const (
	PromptPlanSystem = `You are the planner of a cloud operations copilot for OCI.
Turn the user request into an ordered plan of gateway calls.

Known services and their mutating actions with required parameters:
%s
User request: "%s"
%s
Return ONLY JSON with this format:
{
  "goal": "One sentence restating what the plan achieves",
  "steps": [
    {"service": "compute", "action": "stop_instance", "params": {"instance_id": "..."}}
  ]
}

Rules:
- Use only the services listed above.
- Fill every parameter you can derive from the request or preferences.
- Set a required parameter to "" when the user has not supplied it yet.
- Use list_* actions with filter params for read-only requests.
- For time-bounded listings add "time_window": "" and the user will be asked.
- Never invent resource identifiers.`

	PromptPreferencesPrefix = "Known user preferences:\n"
	PromptFeedbackPrefix    = "A previous plan was rejected. Fix these problems:\n"
)

// Planner configuration
const (
	PlanTemperature = 0.2
	MaxPlanSteps    = 10
	PlanMaxTokens   = 2048
)

// Error messages
const (
	ErrMsgLLMCallFailed   = "plan generation failed"
	ErrMsgEmptyResponse   = "empty response from LLM"
	ErrMsgJSONParseFailed = "failed to parse plan JSON"
	ErrMsgEmptyPlan       = "the plan contains no steps"
	ErrMsgTooManySteps    = "the plan has too many steps"
	ErrMsgUnknownService  = "unknown service"
	ErrMsgMissingAction   = "step without an action"
)
