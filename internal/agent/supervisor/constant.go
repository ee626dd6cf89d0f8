package supervisor

// Log prefixes
const (
	LogPrefixInterpret = "internal.agent.supervisor.Interpret"
	LogPrefixNext      = "internal.agent.supervisor.Next"
)

// DefaultRoutingBudget caps how often one stage may be revisited for the
// same plan within a single turn before the turn is aborted.
const DefaultRoutingBudget = 25
