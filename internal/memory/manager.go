package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

func (m *implManager) Load(ctx context.Context, sessionID string) (*model.SessionState, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	state, err := m.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			m.l.Debugf(ctx, "%s: new session %s", LogPrefixLoad, sessionID)
			return model.NewSessionState(sessionID), nil
		}
		return nil, fmt.Errorf("%s: %w", LogPrefixLoad, err)
	}

	if state.Memory == nil {
		state.Memory = model.NewMemory()
	}
	return state, nil
}

func (m *implManager) Save(ctx context.Context, state *model.SessionState) error {
	if state == nil {
		return fmt.Errorf("%s: nil state", LogPrefixSave)
	}

	applyRetentionCaps(state)

	var latest *model.TurnRecord
	if state.Memory != nil && len(state.Memory.ShortTerm) > 0 {
		latest = &state.Memory.ShortTerm[len(state.Memory.ShortTerm)-1]
	}

	// Upsert anything the user taught this turn before it hits disk.
	if latest != nil {
		if prefs := extractPreferences(latest.UserInput); len(prefs) > 0 {
			if state.Memory.Preferences == nil {
				state.Memory.Preferences = make(map[string]string)
			}
			for name, value := range prefs {
				state.Memory.Preferences[name] = value
			}
			m.l.Debugf(ctx, "%s: stored %d preference(s) for session %s", LogPrefixSave, len(prefs), state.SessionID)
		}
	}

	if err := m.store.Save(ctx, state); err != nil {
		return fmt.Errorf("%s: %w", LogPrefixSave, err)
	}

	// Index the newest turn for later semantic recall.
	if m.recaller != nil && latest != nil {
		m.recaller.Index(ctx, latest.UserInput, map[string]any{
			"session_id": state.SessionID,
			"intent":     string(latest.Intent),
		})
	}
	return nil
}

func (m *implManager) Cache() *LookupCache {
	return m.cache
}

func (m *implManager) Recall(ctx context.Context, query string, limit int) []string {
	if m.recaller == nil {
		return nil
	}
	return m.recaller.Search(ctx, query, limit)
}

// applyRetentionCaps trims unbounded history so session files stay small.
func applyRetentionCaps(state *model.SessionState) {
	if state.Memory == nil {
		state.Memory = model.NewMemory()
		return
	}
	if n := len(state.Memory.ShortTerm); n > MaxShortTermTurns {
		state.Memory.ShortTerm = state.Memory.ShortTerm[n-MaxShortTermTurns:]
	}
	if n := len(state.Memory.RecentActions); n > MaxRecentActions {
		state.Memory.RecentActions = state.Memory.RecentActions[n-MaxRecentActions:]
	}
}
