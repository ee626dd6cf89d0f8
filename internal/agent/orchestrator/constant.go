package orchestrator

import "time"

// Log prefixes
const (
	LogPrefixProcessTurn     = "internal.agent.orchestrator.ProcessTurn"
	LogPrefixCleanupSessions = "internal.agent.orchestrator.cleanupExpiredSessions"
)

// Configuration
const (
	DefaultSessionTTL      = 10 * time.Minute
	SessionCleanupInterval = 5 * time.Minute
	DefaultHistoryTurns    = 5
)

// Error messages
const (
	ErrMsgEmptyInput  = "empty user input"
	ErrMsgEmptySessID = "empty session id"
	ErrMsgLoadFailed  = "session load failed"
)
