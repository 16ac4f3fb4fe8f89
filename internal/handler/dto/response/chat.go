package response

import (
	"github.com/google/uuid"
)

type InboundMessageResponse struct {
	Buffered bool      `json:"buffered"`
	Token    uuid.UUID `json:"token"`
}
