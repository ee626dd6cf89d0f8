package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

// fileStore persists one JSON file per session under a base directory.
type fileStore struct {
	dir string
}

var _ SessionStore = (*fileStore)(nil)

// NewFileStore creates a file-backed session store, creating the
// directory if needed.
func NewFileStore(dir string) (SessionStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("memory: store dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("memory: create store dir: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Load(ctx context.Context, sessionID string) (*model.SessionState, error) {
	path, err := s.pathFor(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("memory: read session file: %w", err)
	}

	var state model.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("memory: decode session file: %w", err)
	}
	return &state, nil
}

// Save writes atomically via a temp file so a crash mid-write never
// corrupts the previous state.
func (s *fileStore) Save(ctx context.Context, state *model.SessionState) error {
	if state == nil {
		return fmt.Errorf("memory: nil state")
	}
	path, err := s.pathFor(state.SessionID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: encode session state: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("memory: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("memory: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("memory: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("memory: replace session file: %w", err)
	}
	return nil
}

func (s *fileStore) pathFor(sessionID string) (string, error) {
	clean := sanitizeSessionID(sessionID)
	if clean == "" {
		return "", ErrInvalidSessionID
	}
	return filepath.Join(s.dir, clean+".json"), nil
}

// sanitizeSessionID keeps ids filesystem-safe.
func sanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}
