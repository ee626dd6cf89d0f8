package llmprovider

import (
	"context"
	"fmt"
	"time"

	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// Config holds manager configuration
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration
}

// Manager orchestrates multiple LLM providers with fallback support
type Manager struct {
	providers []Provider
	config    Config
	logger    pkgLog.Logger
}

// NewManager creates a new provider manager
func NewManager(providers []Provider, config Config, logger pkgLog.Logger) *Manager {
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// GenerateContent tries each provider in order until one succeeds
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	if req == nil {
		return nil, ErrInvalidRequest
	}

	// Apply global timeout if configured
	if m.config.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error

	for i, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		resp, err := m.generateWithRetry(ctx, provider, req)
		if err == nil {
			m.logSuccess(ctx, provider, i)
			return resp, nil
		}

		lastErr = &ProviderError{Provider: provider.Name(), Err: err}
		m.logFailure(ctx, provider, i, err)

		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// generateWithRetry attempts generation with configured retries
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	var lastErr error

	attempts := m.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if attempt < attempts && m.config.RetryDelay > 0 {
			delay := time.Duration(attempt) * m.config.RetryDelay
			m.logger.Warnf(ctx, "llmprovider: %s attempt %d/%d failed, retrying in %v: %v",
				provider.Name(), attempt, attempts, delay, err)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return nil, lastErr
}

func (m *Manager) logSuccess(ctx context.Context, provider Provider, index int) {
	if index > 0 {
		m.logger.Infof(ctx, "llmprovider: fell back to %s (position %d)", provider.Name(), index+1)
	} else {
		m.logger.Debugf(ctx, "llmprovider: %s succeeded", provider.Name())
	}
}

func (m *Manager) logFailure(ctx context.Context, provider Provider, index int, err error) {
	m.logger.Warnf(ctx, "llmprovider: %s failed (position %d): %v", provider.Name(), index+1, err)
}

// Providers returns the configured provider list
func (m *Manager) Providers() []Provider {
	return m.providers
}
