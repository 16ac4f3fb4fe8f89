package commands

import (
	"context"
	"time"

	"groomdesk/internal/domain/appointment"
	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/domain/staff"
	"groomdesk/internal/infra/db"

	"github.com/google/uuid"
)

// Write-side ports implemented by infra/writerepo. Methods that take a
// db.DBTX participate in the caller's transaction.
type AppointmentWriter interface {
	Create(ctx context.Context, dbtx db.DBTX, a *appointment.Appointment) error
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status scheduling.Status, updatedAt time.Time) error
	// FindForUpdate locks the row so a status transition cannot race
	// with another writer.
	FindForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*appointment.Appointment, error)
	// ListStaffDayForUpdate re-reads the staff member's occupying
	// appointments inside the booking transaction.
	ListStaffDayForUpdate(ctx context.Context, dbtx db.DBTX, staffID uuid.UUID, day time.Time) ([]scheduling.Appointment, error)
	// ListResourceDayForUpdate locks the day's appointments holding any
	// of the given resource types at the location.
	ListResourceDayForUpdate(ctx context.Context, dbtx db.DBTX, locationID uuid.UUID, day time.Time, resourceTypeIDs []uuid.UUID) ([]scheduling.Appointment, error)
}

type NotificationWriter interface {
	Enqueue(ctx context.Context, dbtx db.DBTX, kind string, payload []byte, runAt time.Time) error
}

type StaffAccountReader interface {
	FindByEmail(ctx context.Context, email string) (*staff.Staff, error)
}
