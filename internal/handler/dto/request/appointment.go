package request

import (
	"strings"
	"time"

	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	LocationID    uuid.UUID  `json:"location_id" binding:"required"`
	ServiceItemID uuid.UUID  `json:"service_item_id" binding:"required"`
	StaffID       *uuid.UUID `json:"staff_id,omitempty"`
	CustomerRef   string     `json:"customer_ref" binding:"required"`
	Date          string     `json:"date" binding:"required"`
	Start         string     `json:"start" binding:"required"`
}

// ToInput parses the wire shapes (date "2006-01-02", start "15:04") into the
// command input. A nil StaffID requests any eligible staff member.
func (r BookAppointmentRequest) ToInput(companyID uuid.UUID) (commands.BookInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return commands.BookInput{}, errs.Wrap(err, "invalid date format")
	}
	start, err := parseMinuteOfDay(r.Start)
	if err != nil {
		return commands.BookInput{}, err
	}
	return commands.BookInput{
		CompanyID:     companyID,
		LocationID:    r.LocationID,
		ServiceItemID: r.ServiceItemID,
		StaffID:       r.StaffID,
		CustomerRef:   strings.TrimSpace(r.CustomerRef),
		Date:          date.UTC(),
		Start:         start,
	}, nil
}

func parseMinuteOfDay(s string) (scheduling.MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, errs.Wrap(err, "invalid start time format")
	}
	return scheduling.MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}
