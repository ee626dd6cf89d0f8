package composer

// Log prefixes
const (
	LogPrefixCompose = "internal.agent.composer.Compose"
)

// Composer prompts
const (
	PromptAnswerSystem = `You are a friendly cloud operations copilot for OCI.
%s
Recent conversation:
%s
%s
User message: "%s"

Answer briefly and helpfully. You can plan and run OCI operations
(compute, storage, networking, identity and more) when asked. Do not
invent resource state you have not been shown.`

	PromptSummarySystem = `You are a friendly cloud operations copilot for OCI.
The user asked: "%s"

These gateway calls just ran:
%s

Write a short reply presenting the outcome. Keep every error message
exactly as given, never soften or omit one. Present returned listings
as a compact readable list.`
)

// Composer configuration
const (
	ComposeTemperature = 0.4
	MaxChoiceOptions   = 9
	MaxDataLines       = 10
	MaxAskedParams     = 5
)

// Deterministic reply templates
const (
	ReplyFallbackCapabilities = "I can help you run and inspect OCI resources: list or create instances, buckets, volumes, networks, users and more. Tell me what you need, for example \"list my running instances\" or \"create a bucket called logs\"."
	ReplyErrorPrefix          = "I could not finish that request: "
	ReplyCancelled            = "Okay, I dropped that request."
	ReplyResumePrefix         = "Getting back to your earlier request: "
	ReplyConfirmSuffix        = "Reply \"yes\" to proceed or \"cancel\" to abort."
	ReplyParamHint            = "You can answer like \"name: value\", or paste the OCID."
)
