package http

import (
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/orchestrator"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/chat"
)

// maxMessageLen bounds one chat message; longer inputs are almost
// certainly pasted logs, not instructions.
const maxMessageLen = 4096

// --- Request DTOs ---

type chatReq struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

func (r chatReq) validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return chat.ErrEmptyMessage
	}
	if len(r.Message) > maxMessageLen {
		return chat.ErrMessageTooLong
	}
	return nil
}

// --- Response DTOs ---

type chatResp struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Intent    string `json:"intent,omitempty"`
	Awaiting  string `json:"awaiting"`
}

func (h *handler) newChatResp(out *orchestrator.TurnResult) chatResp {
	return chatResp{
		SessionID: out.SessionID,
		Reply:     out.Reply,
		Intent:    string(out.Intent),
		Awaiting:  string(out.Awaiting),
	}
}
