package llmprovider

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockProvider implements the Provider interface for testing
type mockProvider struct {
	name       string
	model      string
	shouldFail bool
	response   *Response
	callCount  int
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	m.callCount++
	if m.shouldFail {
		return nil, errors.New("mock provider error")
	}
	if m.response != nil {
		return m.response, nil
	}
	return &Response{
		Text:         "mock response",
		ProviderName: m.name,
		ModelName:    m.model,
	}, nil
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.model }

// mockLogger implements the log.Logger interface for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {
}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any) {}

func newTestManager(providers []Provider, cfg Config) *Manager {
	return NewManager(providers, cfg, &mockLogger{})
}

func TestManager_GenerateContent_FirstProviderSucceeds(t *testing.T) {
	first := &mockProvider{name: "first", model: "model-a"}
	second := &mockProvider{name: "second", model: "model-b"}

	m := newTestManager([]Provider{first, second}, Config{
		FallbackEnabled: true,
		RetryAttempts:   1,
	})

	resp, err := m.GenerateContent(context.Background(), &Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ProviderName != "first" {
		t.Errorf("expected first provider, got %s", resp.ProviderName)
	}
	if second.callCount != 0 {
		t.Errorf("second provider should not be called, got %d calls", second.callCount)
	}
}

func TestManager_GenerateContent_FallbackToSecond(t *testing.T) {
	first := &mockProvider{name: "first", model: "model-a", shouldFail: true}
	second := &mockProvider{name: "second", model: "model-b"}

	m := newTestManager([]Provider{first, second}, Config{
		FallbackEnabled: true,
		RetryAttempts:   1,
	})

	resp, err := m.GenerateContent(context.Background(), &Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ProviderName != "second" {
		t.Errorf("expected fallback to second provider, got %s", resp.ProviderName)
	}
	if first.callCount != 1 {
		t.Errorf("first provider expected 1 call, got %d", first.callCount)
	}
}

func TestManager_GenerateContent_AllProvidersFail(t *testing.T) {
	first := &mockProvider{name: "first", model: "model-a", shouldFail: true}
	second := &mockProvider{name: "second", model: "model-b", shouldFail: true}

	m := newTestManager([]Provider{first, second}, Config{
		FallbackEnabled: true,
		RetryAttempts:   1,
	})

	_, err := m.GenerateContent(context.Background(), &Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error when all providers fail")
	}
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Errorf("expected ErrAllProvidersFailed, got %v", err)
	}
}

func TestManager_GenerateContent_FallbackDisabled(t *testing.T) {
	first := &mockProvider{name: "first", model: "model-a", shouldFail: true}
	second := &mockProvider{name: "second", model: "model-b"}

	m := newTestManager([]Provider{first, second}, Config{
		FallbackEnabled: false,
		RetryAttempts:   1,
	})

	_, err := m.GenerateContent(context.Background(), &Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error with fallback disabled")
	}
	if second.callCount != 0 {
		t.Errorf("second provider should not be called with fallback disabled, got %d calls", second.callCount)
	}
}

func TestManager_GenerateContent_RetriesBeforeFallback(t *testing.T) {
	first := &mockProvider{name: "first", model: "model-a", shouldFail: true}
	second := &mockProvider{name: "second", model: "model-b"}

	m := newTestManager([]Provider{first, second}, Config{
		FallbackEnabled: true,
		RetryAttempts:   3,
		RetryDelay:      time.Millisecond,
	})

	resp, err := m.GenerateContent(context.Background(), &Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.callCount != 3 {
		t.Errorf("first provider expected 3 attempts, got %d", first.callCount)
	}
	if resp.ProviderName != "second" {
		t.Errorf("expected second provider after retries, got %s", resp.ProviderName)
	}
}

func TestManager_GenerateContent_NoProviders(t *testing.T) {
	m := newTestManager(nil, Config{})

	_, err := m.GenerateContent(context.Background(), &Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	if !errors.Is(err, ErrNoProvidersConfigured) {
		t.Errorf("expected ErrNoProvidersConfigured, got %v", err)
	}
}

func TestManager_GenerateContent_NilRequest(t *testing.T) {
	first := &mockProvider{name: "first", model: "model-a"}
	m := newTestManager([]Provider{first}, Config{})

	_, err := m.GenerateContent(context.Background(), nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestManager_GenerateContent_ContextCancelled(t *testing.T) {
	first := &mockProvider{name: "first", model: "model-a"}
	m := newTestManager([]Provider{first}, Config{RetryAttempts: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.GenerateContent(ctx, &Request{
		Messages: []Message{{Role: "user", Text: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error with cancelled context")
	}
	if first.callCount != 0 {
		t.Errorf("provider should not be called with cancelled context, got %d calls", first.callCount)
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	pe := &ProviderError{Provider: "gemini", Err: inner}

	if !errors.Is(pe, inner) {
		t.Error("expected ProviderError to unwrap to inner error")
	}
	if pe.Error() != "provider gemini: boom" {
		t.Errorf("unexpected error string: %s", pe.Error())
	}
}
