package memory

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

// Manager persists session state between turns and provides the
// lookup cache and semantic recall consumed by the orchestrator.
type Manager interface {
	// Load returns the persisted state for a session, or a fresh state
	// when the session has never been seen.
	Load(ctx context.Context, sessionID string) (*model.SessionState, error)

	// Save persists the state, applying retention caps first.
	Save(ctx context.Context, state *model.SessionState) error

	// Cache returns the shared read-through lookup cache.
	Cache() *LookupCache

	// Recall returns texts of past turns similar to the query. Missing
	// vector infrastructure degrades to an empty result.
	Recall(ctx context.Context, query string, limit int) []string
}

// SessionStore is the storage backend for serialized session state.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*model.SessionState, error)
	Save(ctx context.Context, state *model.SessionState) error
}

// Recaller indexes and searches turn texts in a vector store.
type Recaller interface {
	// Index stores one text with its payload. Best effort.
	Index(ctx context.Context, text string, payload map[string]any)

	// Search returns payload texts most similar to the query.
	Search(ctx context.Context, query string, limit int) []string
}
