package model

import "time"

// TurnRecord is one completed user/agent exchange.
type TurnRecord struct {
	UserInput string    `json:"user_input"`
	Reply     string    `json:"reply"`
	Intent    Intent    `json:"intent"`
	At        time.Time `json:"at"`
}

// ActionRecord is one executed cloud operation, kept for recall prompts.
type ActionRecord struct {
	Service string     `json:"service"`
	Action  string     `json:"action"`
	Status  StepStatus `json:"status"`
	At      time.Time  `json:"at"`
}

// Memory is the cross-turn context carried by a session: recent exchanges,
// durable user preferences, and recently executed actions. The lookup cache
// is process-local and lives in the memory manager, not here.
type Memory struct {
	ShortTerm     []TurnRecord      `json:"short_term,omitempty"`
	Preferences   map[string]string `json:"preferences,omitempty"`
	RecentActions []ActionRecord    `json:"recent_actions,omitempty"`
}

// NewMemory returns an empty memory record.
func NewMemory() *Memory {
	return &Memory{Preferences: make(map[string]string)}
}

// LastTurns returns up to n most recent turns, oldest first.
func (m *Memory) LastTurns(n int) []TurnRecord {
	if m == nil || n <= 0 || len(m.ShortTerm) == 0 {
		return nil
	}
	if len(m.ShortTerm) <= n {
		return m.ShortTerm
	}
	return m.ShortTerm[len(m.ShortTerm)-n:]
}

// LastActions returns up to n most recent actions, oldest first.
func (m *Memory) LastActions(n int) []ActionRecord {
	if m == nil || n <= 0 || len(m.RecentActions) == 0 {
		return nil
	}
	if len(m.RecentActions) <= n {
		return m.RecentActions
	}
	return m.RecentActions[len(m.RecentActions)-n:]
}
