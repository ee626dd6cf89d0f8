package orchestrator

import (
	"sync"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

type Config struct {
	// RoutingBudget caps revisits of one (stage, plan) pair per turn.
	RoutingBudget int

	// SessionTTL evicts idle session entries from the registry.
	SessionTTL time.Duration

	// HistoryTurns is how many past exchanges the classifier sees.
	HistoryTurns int
}

// TurnResult is what a delivery layer renders back to the user.
type TurnResult struct {
	SessionID string         `json:"session_id"`
	Reply     string         `json:"reply"`
	Intent    model.Intent   `json:"intent,omitempty"`
	Awaiting  model.Awaiting `json:"awaiting"`
}

// session serializes turns of one conversation. State itself lives in
// the memory manager; this entry only carries the lock and idle clock.
type session struct {
	mu         sync.Mutex
	lastActive time.Time
}
