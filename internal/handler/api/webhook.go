package api

import (
	"net/http"

	reqdto "groomdesk/internal/handler/dto/request"
	"groomdesk/internal/handler/httperr"
	resdto "groomdesk/internal/handler/dto/response"
	"groomdesk/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives inbound chat messages from the messaging platform.
type WebhookHandler struct {
	chat commands.ChatCommands
}

func NewWebhookHandler(chat commands.ChatCommands) *WebhookHandler {
	return &WebhookHandler{chat: chat}
}

// @Summary Inbound chat message
// @Description Receive a customer chat message; the reply is produced after the conversation goes quiet
// @Tags chat
// @Accept json
// @Produce json
// @Param request body reqdto.InboundMessageRequest true "Inbound message"
// @Success 202 {object} resdto.InboundMessageResponse
// @Failure 400 {object} map[string]string
// @Router /webhooks/chat [post]
func (h *WebhookHandler) ReceiveMessage(c *gin.Context) {
	var req reqdto.InboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	token, err := h.chat.ReceiveMessage(c.Request.Context(), req.ConversationID, req.Text)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Conversation id and text are required", nil)
		return
	}

	c.JSON(http.StatusAccepted, resdto.InboundMessageResponse{
		Buffered: true,
		Token:    token,
	})
}

// @Summary Cancel a buffered conversation
// @Description Drop any pending reply for the conversation
// @Tags chat
// @Accept json
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Router /webhooks/chat/cancel [post]
func (h *WebhookHandler) CancelConversation(c *gin.Context) {
	var req reqdto.CancelConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if err := h.chat.CancelConversation(c.Request.Context(), req.ConversationID); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Conversation id is required", nil)
		return
	}

	c.Status(http.StatusNoContent)
}
