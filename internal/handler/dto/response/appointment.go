package response

import (
	"time"

	"groomdesk/internal/usecase/commands"
	"groomdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	LocationID    uuid.UUID `json:"locationId"`
	StaffID       uuid.UUID `json:"staffId"`
	StaffName     string    `json:"staffName"`
	ServiceItemID uuid.UUID `json:"serviceItemId"`
	ServiceName   string    `json:"serviceName"`
	CustomerRef   string    `json:"customerRef"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type BookAppointmentResponse struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	StaffID       uuid.UUID `json:"staffId"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

func FromAppointmentView(view *queries.AppointmentView) *AppointmentResponse {
	var resp AppointmentResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromBookOutput(out *commands.BookOutput) BookAppointmentResponse {
	return BookAppointmentResponse{
		AppointmentID: out.AppointmentID,
		StaffID:       out.StaffID,
		Start:         out.Start,
		End:           out.End,
	}
}
