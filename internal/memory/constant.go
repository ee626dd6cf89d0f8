package memory

// Log prefixes
const (
	LogPrefixLoad   = "internal.memory.Load"
	LogPrefixSave   = "internal.memory.Save"
	LogPrefixRecall = "internal.memory.Recall"
	LogPrefixIndex  = "internal.memory.Index"
)

// Retention caps
const (
	// MaxShortTermTurns bounds the persisted conversation history.
	MaxShortTermTurns = 50

	// MaxRecentActions bounds the persisted action log.
	MaxRecentActions = 10
)

// Cache defaults
const (
	DefaultCacheSize = 512
	DefaultCacheTTL  = 300 // seconds
)
