package response

import (
	"time"

	"groomdesk/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	StaffID uuid.UUID `json:"staffId"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

func FromSlotViews(views []queries.SlotView) []SlotResponse {
	out := make([]SlotResponse, len(views))
	for i, v := range views {
		out[i] = SlotResponse{StaffID: v.StaffID, Start: v.Start, End: v.End}
	}
	return out
}
