package request

import (
	"time"

	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/queries"

	"github.com/google/uuid"
)

type GetSlotsRequest struct {
	LocationID    uuid.UUID  `form:"location_id" binding:"required"`
	ServiceItemID uuid.UUID  `form:"service_item_id" binding:"required"`
	Date          string     `form:"date" binding:"required"`
	StaffID       *uuid.UUID `form:"staff_id"`
	Limit         int        `form:"limit"`
}

func (r GetSlotsRequest) ToInput() (queries.GetSlotsInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return queries.GetSlotsInput{}, errs.Wrap(err, "invalid date format")
	}
	return queries.GetSlotsInput{
		LocationID:    r.LocationID,
		ServiceItemID: r.ServiceItemID,
		Date:          date.UTC(),
		StaffID:       r.StaffID,
		Limit:         r.Limit,
	}, nil
}
