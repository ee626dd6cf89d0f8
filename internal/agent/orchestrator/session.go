package orchestrator

import (
	"context"
	"time"
)

// acquire returns the registry entry for a session, creating it on
// first contact and refreshing its idle clock.
func (o *Orchestrator) acquire(sessionID string) *session {
	o.sessionsMu.Lock()
	defer o.sessionsMu.Unlock()

	s, ok := o.sessions[sessionID]
	if !ok {
		s = &session{}
		o.sessions[sessionID] = s
	}
	s.lastActive = time.Now()
	return s
}

// cleanupExpiredSessions drops idle registry entries on a timer. The
// persisted state survives eviction, only the lock entry goes.
func (o *Orchestrator) cleanupExpiredSessions() {
	ticker := time.NewTicker(SessionCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		o.evictIdle()
	}
}

func (o *Orchestrator) evictIdle() {
	o.sessionsMu.Lock()
	defer o.sessionsMu.Unlock()

	cutoff := time.Now().Add(-o.cfg.SessionTTL)
	removed := 0
	for id, s := range o.sessions {
		if s.lastActive.After(cutoff) {
			continue
		}
		// a held lock means a turn is still running
		if !s.mu.TryLock() {
			continue
		}
		s.mu.Unlock()
		delete(o.sessions, id)
		removed++
	}

	if removed > 0 {
		o.l.Infof(context.Background(), "%s: cleaned up %d expired sessions", LogPrefixCleanupSessions, removed)
	}
}
