package verifier

// Log prefixes
const (
	LogPrefixVerify = "internal.agent.verifier.Verify"
)

// Verifier prompts
const (
	PromptVerifySystem = `You are the safety reviewer of a cloud operations copilot for OCI.
Review whether this plan correctly and safely serves the user request.

User request: "%s"
Plan goal: "%s"
Plan steps:
%s

Reject when a step targets the wrong resource, the order is wrong, a
destructive action is broader than the user asked for, or the plan
does something the user did not request.

Return ONLY JSON with this format:
{
  "verdict": "accept|reject",
  "reasons": ["one short reason per problem, empty when accepting"]
}`
)

// Verifier configuration
const (
	VerifyTemperature = 0.1
	VerdictAccept     = "accept"
	VerdictReject     = "reject"
)

// Rejection reasons produced without the LLM
const (
	ReasonVerifierUnavailable = "verifier unavailable"
	ReasonNotExecutable       = "plan is not executable"
	ReasonNoPlan              = "no active plan to verify"
)
