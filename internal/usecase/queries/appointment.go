package queries

import (
	"context"
	"time"

	"groomdesk/internal/infra"
	"groomdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

type AppointmentQueries interface {
	GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	ListAppointmentsForDay(ctx context.Context, locationID uuid.UUID, day time.Time, staffID *uuid.UUID) ([]*AppointmentView, error)
}

type appointmentQueriesImpl struct {
	appointments AppointmentReader
}

func NewAppointmentQueries(appointments AppointmentReader) AppointmentQueries {
	return &appointmentQueriesImpl{appointments: appointments}
}

func (q *appointmentQueriesImpl) GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	view, err := q.appointments.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrAppointmentNotFound)
		}
		return nil, errs.Wrap(err, "failed to get appointment")
	}
	return view, nil
}

func (q *appointmentQueriesImpl) ListAppointmentsForDay(ctx context.Context, locationID uuid.UUID, day time.Time, staffID *uuid.UUID) ([]*AppointmentView, error) {
	views, err := q.appointments.ListForDay(ctx, locationID, day, staffID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list appointments")
	}
	return views, nil
}
