package telegram

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/chat"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
	pkgResponse "github.com/ayushchhipa1509/OCI-COPILOT/pkg/response"
	pkgTelegram "github.com/ayushchhipa1509/OCI-COPILOT/pkg/telegram"
)

type handler struct {
	l   pkgLog.Logger
	uc  chat.UseCase
	bot *pkgTelegram.Bot
}

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a
// background goroutine: Telegram expects an answer within a few seconds,
// while a full turn with LLM calls and gateway steps can take 5-10s.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates (polls, channel_post, etc.)
	if update.Message == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	// Snapshot the message before spawning the goroutine to avoid data
	// races on the gin context.
	msg := update.Message

	go func() {
		// Detach from the HTTP request context, which is cancelled
		// right after the 200 goes out.
		bgCtx := context.Background()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
			_ = h.bot.SendMessage(msg.Chat.ID, failureText)
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	if msg.Text == "" {
		return nil
	}

	// ---- Built-in commands ----
	switch msg.Text {
	case "/start":
		return h.bot.SendMessageWithMode(msg.Chat.ID, welcomeText, "Markdown")
	case "/help":
		return h.bot.SendMessageWithMode(msg.Chat.ID, helpText, "Markdown")
	}

	// The chat id keys the session, so one Telegram chat is one
	// continuous conversation.
	sessionID := fmt.Sprintf("telegram_%d", msg.Chat.ID)

	if err := h.bot.SendMessage(msg.Chat.ID, processingText); err != nil {
		h.l.Warnf(ctx, "telegram handler: failed to send ack message: %v", err)
	}

	out, err := h.uc.ProcessTurn(ctx, sessionID, msg.Text)
	if err != nil {
		h.l.Errorf(ctx, "telegram handler: ProcessTurn failed: %v", err)
		return err
	}

	return h.bot.SendMessage(msg.Chat.ID, out.Reply)
}
