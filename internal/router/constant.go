package router

import "github.com/ayushchhipa1509/OCI-COPILOT/internal/model"

// Log prefixes
const (
	LogPrefixClassify  = "internal.router.Classify"
	LogPrefixNormalize = "internal.router.Normalize"
)

// Router prompts
const (
	PromptRouterSystem = `You are the intent classifier of a cloud operations copilot for OCI.
Analyze the user message and classify its intent.

Current message: "%s"

Possible intents:
1. action: the user wants to create, change, or remove cloud resources (instances, buckets, volumes, VCNs, users, ...)
2. retrieval: the user wants to list or inspect existing cloud resources without changing them
3. question: greetings, questions about capabilities, concepts, or anything needing no cloud call

Return JSON with format:
{
  "intent": "action|retrieval|question",
  "is_executable": true|false,
  "confidence": 0-100,
  "reasoning": "One short sentence"
}

is_executable is true only for action and retrieval. Questions are never executable.`

	PromptNormalizerSystem = `Fix typos and expand obvious shorthand in this cloud operations request.
Return only the corrected request text on a single line, nothing else.
If the request is already clean, return it unchanged.

Request: "%s"`

	PromptHistoryPrefix = "Recent conversation:\n"
)

// Router configuration
const (
	RouterTemperature        = 0.1
	RouterFallbackConfidence = 50

	RouterFallbackIntent = model.IntentQuestion
)

// Error messages
const (
	ErrMsgEmptyMessage    = "empty message"
	ErrMsgLLMCallFailed   = "LLM call failed, falling back to question"
	ErrMsgJSONParseFailed = "Failed to parse JSON, falling back to question"
	ErrMsgEmptyResponse   = "Empty LLM response, falling back to question"
)

// Fallback reasons
const (
	ReasonLLMUnavailable = "Fallback due to LLM failure - treat as plain question"
	ReasonParsingError   = "Fallback due to parsing error - treat as plain question"
	ReasonEmptyResponse  = "Fallback due to empty response"
	ReasonPatternMatch   = "Matched a deterministic cloud command pattern"
)
