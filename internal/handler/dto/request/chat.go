package request

type InboundMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Text           string `json:"text" binding:"required"`
}

type CancelConversationRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
}
