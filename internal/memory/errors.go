package memory

import "errors"

var (
	// ErrSessionNotFound is returned when no state exists for a session
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSessionID is returned for empty or unusable session ids
	ErrInvalidSessionID = errors.New("invalid session id")
)
