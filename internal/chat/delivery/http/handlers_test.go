package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ayushchhipa1509/OCI-COPILOT/config"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/orchestrator"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/middleware"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

type stubUseCase struct {
	mu       sync.Mutex
	sessions []string
	inputs   []string
	out      orchestrator.TurnResult
	err      error
}

func (s *stubUseCase) ProcessTurn(ctx context.Context, sessionID, userInput string) (*orchestrator.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sessionID)
	s.inputs = append(s.inputs, userInput)
	if s.err != nil {
		return nil, s.err
	}
	out := s.out
	out.SessionID = sessionID
	return &out, nil
}

func newChatEngine(uc *stubUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := New(pkgLog.NewNop(), uc)
	mw := middleware.New(pkgLog.NewNop(), config.ChatConfig{})
	RegisterRoutes(engine.Group("/api/v1"), h, mw)
	return engine
}

func postChat(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeChatResp(t *testing.T, w *httptest.ResponseRecorder) chatResp {
	t.Helper()
	var envelope struct {
		ErrorCode int      `json:"error_code"`
		Message   string   `json:"message"`
		Data      chatResp `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestChat_MintsSessionID(t *testing.T) {
	uc := &stubUseCase{out: orchestrator.TurnResult{
		Reply:    "You have 3 instances.",
		Intent:   model.IntentRetrieval,
		Awaiting: model.AwaitingNone,
	}}
	engine := newChatEngine(uc)

	w := postChat(engine, `{"message": "how many instances do I have?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeChatResp(t, w)
	if resp.SessionID == "" {
		t.Error("expected a minted session_id")
	}
	if resp.Reply != "You have 3 instances." {
		t.Errorf("unexpected reply %q", resp.Reply)
	}
	if resp.Awaiting != string(model.AwaitingNone) {
		t.Errorf("unexpected awaiting %q", resp.Awaiting)
	}
	if len(uc.sessions) != 1 || uc.sessions[0] != resp.SessionID {
		t.Errorf("use case saw sessions %v, response carried %q", uc.sessions, resp.SessionID)
	}
}

func TestChat_ReusesSessionID(t *testing.T) {
	uc := &stubUseCase{out: orchestrator.TurnResult{Reply: "Done."}}
	engine := newChatEngine(uc)

	w := postChat(engine, `{"session_id": "turn-7", "message": "yes"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	resp := decodeChatResp(t, w)
	if resp.SessionID != "turn-7" {
		t.Errorf("expected session turn-7, got %q", resp.SessionID)
	}
	if len(uc.inputs) != 1 || uc.inputs[0] != "yes" {
		t.Errorf("use case saw inputs %v", uc.inputs)
	}
}

func TestChat_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{bad`},
		{"missing message", `{"session_id": "x"}`},
		{"blank message", `{"message": "   "}`},
		{"oversized message", `{"message": "` + strings.Repeat("a", maxMessageLen+1) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			engine := newChatEngine(uc)
			w := postChat(engine, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if len(uc.sessions) != 0 {
				t.Error("use case must not run for a rejected request")
			}
		})
	}
}

func TestChat_UseCaseFailureIsInternal(t *testing.T) {
	uc := &stubUseCase{err: errors.New("memory store offline")}
	engine := newChatEngine(uc)

	w := postChat(engine, `{"message": "list instances"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "memory store offline") {
		t.Error("internal error details must not leak to the client")
	}
}
