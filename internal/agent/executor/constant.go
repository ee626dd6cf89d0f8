package executor

// Log prefixes
const (
	LogPrefixExecute = "internal.agent.executor.Execute"
	LogPrefixRecord  = "internal.agent.executor.record"
)

// Executor configuration
const (
	DefaultWorkers = 3
)

// Error messages
const (
	ErrMsgNoPlan       = "no plan to execute"
	ErrMsgNotVerified  = "plan has not passed verification"
	ErrMsgNotConfirmed = "destructive plan lacks confirmation"
)
