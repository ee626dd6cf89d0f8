package http

import (
	"github.com/gin-gonic/gin"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
// The chat endpoint sits behind API-key auth and per-source rate
// limiting so a leaked URL cannot drive the cloud gateway.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.POST("/chat", mw.IPWhitelist(), mw.Auth(), mw.RateLimit(), h.Chat)
}
