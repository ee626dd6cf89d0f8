package llmprovider

import (
	"errors"
	"fmt"
)

var (
	// ErrAllProvidersFailed is returned when all configured providers fail
	ErrAllProvidersFailed = errors.New("all LLM providers failed")

	// ErrNoProvidersConfigured is returned when no providers are configured
	ErrNoProvidersConfigured = errors.New("no LLM providers configured")

	// ErrInvalidRequest is returned when the request is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderTimeout is returned when a provider times out
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrProviderRateLimited is returned when a provider is rate limited
	ErrProviderRateLimited = errors.New("provider rate limited")
)

// ProviderError wraps an error with provider context
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
