package telegram

import (
	"github.com/gin-gonic/gin"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/chat"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
	pkgTelegram "github.com/ayushchhipa1509/OCI-COPILOT/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, uc chat.UseCase, bot *pkgTelegram.Bot) Handler {
	return &handler{
		l:   l,
		uc:  uc,
		bot: bot,
	}
}
