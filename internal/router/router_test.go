package router

import (
	"context"
	"strings"
	"testing"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

type stubProvider struct {
	response   string
	responses  []string // consumed first when set, one per call
	shouldFail bool
	callCount  int
	lastPrompt string
}

func (s *stubProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	s.callCount++
	if len(req.Messages) > 0 {
		s.lastPrompt = req.Messages[len(req.Messages)-1].Text
	}
	if s.shouldFail {
		return nil, context.DeadlineExceeded
	}
	text := s.response
	if len(s.responses) > 0 {
		text = s.responses[0]
		s.responses = s.responses[1:]
	}
	return &llmprovider.Response{Text: text, ProviderName: s.Name(), ModelName: s.Model()}, nil
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-model" }

func newTestRouter(stub *stubProvider) *SemanticRouter {
	llm := llmprovider.NewManager([]llmprovider.Provider{stub}, llmprovider.Config{RetryAttempts: 1}, pkgLog.NewNop())
	return New(llm, pkgLog.NewNop(), Config{})
}

func newNormalizingRouter(stub *stubProvider) *SemanticRouter {
	llm := llmprovider.NewManager([]llmprovider.Provider{stub}, llmprovider.Config{RetryAttempts: 1}, pkgLog.NewNop())
	return New(llm, pkgLog.NewNop(), Config{NormalizerEnabled: true})
}

func TestClassify_PatternFastPath(t *testing.T) {
	tests := []struct {
		message string
		intent  model.Intent
	}{
		{"stop instance web-1", model.IntentAction},
		{"please create a bucket called logs", model.IntentAction},
		{"terminate the instance in compartment dev", model.IntentAction},
		{"list all buckets", model.IntentRetrieval},
		{"show my running instances", model.IntentRetrieval},
		{"how many volumes do I have?", model.IntentRetrieval},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			stub := &stubProvider{}
			r := newTestRouter(stub)

			out, err := r.Classify(context.Background(), tt.message, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Intent != tt.intent {
				t.Errorf("intent = %s, want %s", out.Intent, tt.intent)
			}
			if !out.IsExecutable {
				t.Error("pattern matched intents must be executable")
			}
			if stub.callCount != 0 {
				t.Errorf("fast path should not call LLM, got %d calls", stub.callCount)
			}
		})
	}
}

func TestClassify_LLMPath(t *testing.T) {
	stub := &stubProvider{response: `{"intent":"question","is_executable":false,"confidence":92,"reasoning":"Asking about a concept"}`}
	r := newTestRouter(stub)

	out, err := r.Classify(context.Background(), "what is a VCN?", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Intent != model.IntentQuestion {
		t.Errorf("intent = %s, want question", out.Intent)
	}
	if out.IsExecutable {
		t.Error("question intent must not be executable")
	}
	if out.Confidence != 92 {
		t.Errorf("confidence = %d, want 92", out.Confidence)
	}
	if stub.callCount != 1 {
		t.Errorf("expected 1 LLM call, got %d", stub.callCount)
	}
}

func TestClassify_StripsMarkdownFences(t *testing.T) {
	stub := &stubProvider{response: "```json\n{\"intent\":\"retrieval\",\"is_executable\":true,\"confidence\":80,\"reasoning\":\"ok\"}\n```"}
	r := newTestRouter(stub)

	out, err := r.Classify(context.Background(), "which compartments hold the most spend", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Intent != model.IntentRetrieval {
		t.Errorf("intent = %s, want retrieval", out.Intent)
	}
	if !out.IsExecutable {
		t.Error("retrieval must be executable")
	}
}

func TestClassify_FallbackOnGarbage(t *testing.T) {
	stub := &stubProvider{response: "sorry, I cannot help with that"}
	r := newTestRouter(stub)

	out, err := r.Classify(context.Background(), "do the thing with the stuff", nil)
	if err != nil {
		t.Fatalf("parse failure must not surface an error, got %v", err)
	}
	if out.Intent != model.IntentQuestion {
		t.Errorf("intent = %s, want question fallback", out.Intent)
	}
	if out.IsExecutable {
		t.Error("fallback must not be executable")
	}
}

func TestClassify_FallbackOnLLMFailure(t *testing.T) {
	stub := &stubProvider{shouldFail: true}
	r := newTestRouter(stub)

	out, err := r.Classify(context.Background(), "something ambiguous about clouds", nil)
	if err != nil {
		t.Fatalf("LLM failure must not surface an error, got %v", err)
	}
	if out.Intent != model.IntentQuestion {
		t.Errorf("intent = %s, want question fallback", out.Intent)
	}
	if out.Reasoning != ReasonLLMUnavailable {
		t.Errorf("reasoning = %q", out.Reasoning)
	}
}

func TestClassify_FallbackOnUnknownIntent(t *testing.T) {
	stub := &stubProvider{response: `{"intent":"banana","is_executable":true,"confidence":99,"reasoning":"?"}`}
	r := newTestRouter(stub)

	out, err := r.Classify(context.Background(), "peel the cloud", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Intent != model.IntentQuestion {
		t.Errorf("intent = %s, want question fallback", out.Intent)
	}
}

func TestClassify_ForcesQuestionNonExecutable(t *testing.T) {
	stub := &stubProvider{response: `{"intent":"question","is_executable":true,"confidence":70,"reasoning":"confused model"}`}
	r := newTestRouter(stub)

	out, _ := r.Classify(context.Background(), "tell me about availability domains", nil)
	if out.IsExecutable {
		t.Error("question intent must be forced non-executable")
	}
}

func TestClassify_EmptyMessage(t *testing.T) {
	r := newTestRouter(&stubProvider{})

	if _, err := r.Classify(context.Background(), "   ", nil); err == nil {
		t.Error("expected error for empty message")
	}
}

func TestClassify_HistoryInPrompt(t *testing.T) {
	stub := &stubProvider{response: `{"intent":"question","is_executable":false,"confidence":60,"reasoning":"follow-up"}`}
	r := newTestRouter(stub)

	history := []string{"user: list my instances", "assistant: you have 3 running instances"}
	if _, err := r.Classify(context.Background(), "and what about yesterday", history); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "1. user: list my instances") {
		t.Errorf("history missing from prompt:\n%s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "and what about yesterday") {
		t.Error("current message missing from prompt")
	}
}

func TestClassify_NormalizedQueryReturned(t *testing.T) {
	stub := &stubProvider{}
	r := newTestRouter(stub)

	out, err := r.Classify(context.Background(), "  Please LIST my instances!  ", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NormalizedQuery != "list my instances" {
		t.Errorf("normalized = %q, want %q", out.NormalizedQuery, "list my instances")
	}
}

func TestClassify_TypoPassRevealsCommand(t *testing.T) {
	stub := &stubProvider{response: "create a bucket called logs"}
	r := newNormalizingRouter(stub)

	out, err := r.Classify(context.Background(), "crate a buckett called logs", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Intent != model.IntentAction {
		t.Errorf("intent = %s, want %s", out.Intent, model.IntentAction)
	}
	if !out.IsExecutable {
		t.Error("pattern match after typo fix should be executable")
	}
	if out.NormalizedQuery != "create a bucket called logs" {
		t.Errorf("normalized = %q, want corrected text", out.NormalizedQuery)
	}
	if stub.callCount != 1 {
		t.Errorf("expected one typo-pass call, got %d", stub.callCount)
	}
}

func TestClassify_TypoPassRejectsSuspiciousRewrite(t *testing.T) {
	stub := &stubProvider{responses: []string{
		`{"looks":"like json, not a rewrite"}`,
		`{"intent":"question","is_executable":false,"confidence":40,"reasoning":"unclear request"}`,
	}}
	r := newNormalizingRouter(stub)

	out, err := r.Classify(context.Background(), "do something nebulous", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Intent != model.IntentQuestion {
		t.Errorf("intent = %s, want %s", out.Intent, model.IntentQuestion)
	}
	if out.NormalizedQuery != "do something nebulous" {
		t.Errorf("rejected rewrite must keep the original query, got %q", out.NormalizedQuery)
	}
	if stub.callCount != 2 {
		t.Errorf("expected typo pass then classification, got %d calls", stub.callCount)
	}
}
