package ocigateway

import (
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a gateway failure. All kinds except KindFatal are
// isolated to the failing step; KindFatal aborts the remaining plan.
type Kind string

const (
	KindNotFound  Kind = "not_found"
	KindForbidden Kind = "forbidden"
	KindConflict  Kind = "conflict"
	KindTransient Kind = "transient"
	KindFatal     Kind = "fatal"
)

// CallError is the typed failure returned by Invoke.
type CallError struct {
	Kind    Kind
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("gateway %s: %s", e.Kind, e.Message)
}

// kindFromStatus derives a failure kind from the HTTP status code.
func kindFromStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusUnauthorized:
		return KindFatal
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusTooManyRequests:
		return KindTransient
	case status >= 500:
		return KindTransient
	default:
		return KindTransient
	}
}

// messageKinds maps known gateway message fragments to kinds. Patterns
// outrank the status-derived kind; first match wins.
var messageKinds = []struct {
	pattern string
	kind    Kind
}{
	{"permission denied", KindForbidden},
	{"not authorized", KindForbidden},
	{"forbidden", KindForbidden},
	{"authentication failed", KindFatal},
	{"invalid credentials", KindFatal},
	{"token expired", KindFatal},
	{"not found", KindNotFound},
	{"does not exist", KindNotFound},
	{"already exists", KindConflict},
	{"conflict", KindConflict},
	{"incorrect state", KindConflict},
	{"network error", KindTransient},
	{"connection timeout", KindTransient},
	{"service unavailable", KindTransient},
	{"rate limit exceeded", KindTransient},
	{"quota exceeded", KindTransient},
	{"too many requests", KindTransient},
}

// classify resolves the final failure kind from the HTTP status and the
// gateway message. An explicit kind in the body is honored first, then
// message patterns, then the status.
func classify(status int, body errorBody) *CallError {
	kind := kindFromStatus(status)

	if body.Kind != "" {
		switch Kind(body.Kind) {
		case KindNotFound, KindForbidden, KindConflict, KindTransient, KindFatal:
			kind = Kind(body.Kind)
		}
	}

	message := body.Message
	if message == "" {
		message = fmt.Sprintf("gateway returned status %d", status)
	}

	lower := strings.ToLower(message)
	for _, mk := range messageKinds {
		if strings.Contains(lower, mk.pattern) {
			kind = mk.kind
			break
		}
	}

	return &CallError{Kind: kind, Message: message}
}
