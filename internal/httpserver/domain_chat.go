package httpserver

import (
	"context"

	chatHTTP "github.com/ayushchhipa1509/OCI-COPILOT/internal/chat/delivery/http"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/middleware"

	"github.com/gin-gonic/gin"
)

// setupChatDomain initializes the chat domain and registers its routes.
//
// Pattern to follow when adding a new domain:
//  1. Create HTTP Handler: h := mydomainHTTP.New(srv.l, uc)
//  2. Register Routes:     mydomainHTTP.RegisterRoutes(api, h, mw)
func (srv HTTPServer) setupChatDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) error {
	h := chatHTTP.New(srv.l, srv.chatUC)

	// Registers POST /api/v1/chat
	chatHTTP.RegisterRoutes(api, h, mw)

	srv.l.Infof(ctx, "Chat domain registered")
	return nil
}
