package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/response"
)

// Chat godoc
// @Summary     Send a chat message
// @Description Runs one conversational turn. Omit session_id to start a new conversation; reuse the returned session_id to continue it.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body body chatReq true "User message"
// @Success     200 {object} chatResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Security    ApiKeyAuth
// @Router      /api/v1/chat [POST]
func (h *handler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processChatReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	out, err := h.uc.ProcessTurn(ctx, sessionID, req.Message)
	if err != nil {
		h.l.Errorf(ctx, "chat handler: ProcessTurn: %v", err)
		response.InternalError(c, err)
		return
	}

	response.OK(c, h.newChatResp(out))
}
