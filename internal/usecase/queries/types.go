package queries

import (
	"context"
	"time"

	"groomdesk/internal/domain/scheduling"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type SlotView struct {
	StaffID uuid.UUID `json:"staff_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

type AppointmentView struct {
	ID            uuid.UUID `json:"id"`
	CompanyID     uuid.UUID `json:"company_id"`
	LocationID    uuid.UUID `json:"location_id"`
	StaffID       uuid.UUID `json:"staff_id"`
	StaffName     string    `json:"staff_name"`
	ServiceItemID uuid.UUID `json:"service_item_id"`
	ServiceName   string    `json:"service_name"`
	CustomerRef   string    `json:"customer_ref"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type NotificationJobView struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Payload   []byte    `json:"payload"`
	RunAt     time.Time `json:"run_at"`
	Attempts  int32     `json:"attempts"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Read-side ports implemented by infra/readstore.
type SnapshotReader interface {
	// Snapshot assembles the roster, the day's appointments, and resource
	// capacities for one location into the engine's input shape.
	Snapshot(ctx context.Context, locationID uuid.UUID, day time.Time) (scheduling.Snapshot, error)
}

type ServiceItemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (scheduling.ServiceItem, error)
}

type AppointmentReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	ListForDay(ctx context.Context, locationID uuid.UUID, day time.Time, staffID *uuid.UUID) ([]*AppointmentView, error)
}
