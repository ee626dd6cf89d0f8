package resolver

// Log prefixes
const (
	LogPrefixResolve = "internal.agent.resolver.Resolve"
)
