package appointment

import (
	"errors"
	"time"

	"groomdesk/internal/domain/scheduling"

	"github.com/google/uuid"
)

var (
	ErrInvalidInterval   = errors.New("appointment end must follow start")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyFinal      = errors.New("appointment is already in a final status")
)

// Appointment is the persistence-facing aggregate for one booked visit.
// Status moves scheduled → checked_in → in_progress → completed, with
// canceled and no_show as side exits from any non-final status.
type Appointment struct {
	id            uuid.UUID
	companyID     uuid.UUID
	locationID    uuid.UUID
	staffID       uuid.UUID
	serviceItemID uuid.UUID
	customerRef   string
	start         time.Time
	end           time.Time
	status        scheduling.Status
	claims        []scheduling.ResourceClaim
	createdAt     time.Time
	updatedAt     time.Time
}

func NewAppointment(
	companyID, locationID, staffID, serviceItemID uuid.UUID,
	customerRef string,
	start, end time.Time,
	claims []scheduling.ResourceClaim,
) (*Appointment, error) {
	if !end.After(start) {
		return nil, ErrInvalidInterval
	}
	return &Appointment{
		id:            uuid.New(),
		companyID:     companyID,
		locationID:    locationID,
		staffID:       staffID,
		serviceItemID: serviceItemID,
		customerRef:   customerRef,
		start:         start.UTC(),
		end:           end.UTC(),
		status:        scheduling.StatusScheduled,
		claims:        claims,
	}, nil
}

func ReconstructAppointment(
	id, companyID, locationID, staffID, serviceItemID uuid.UUID,
	customerRef string,
	start, end time.Time,
	status scheduling.Status,
	claims []scheduling.ResourceClaim,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:            id,
		companyID:     companyID,
		locationID:    locationID,
		staffID:       staffID,
		serviceItemID: serviceItemID,
		customerRef:   customerRef,
		start:         start,
		end:           end,
		status:        status,
		claims:        claims,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (a *Appointment) CheckIn() error {
	return a.transition(scheduling.StatusScheduled, scheduling.StatusCheckedIn)
}

func (a *Appointment) Start() error {
	return a.transition(scheduling.StatusCheckedIn, scheduling.StatusInProgress)
}

func (a *Appointment) Complete() error {
	return a.transition(scheduling.StatusInProgress, scheduling.StatusCompleted)
}

func (a *Appointment) Cancel() error {
	if a.IsFinal() {
		return ErrAlreadyFinal
	}
	a.status = scheduling.StatusCanceled
	return nil
}

func (a *Appointment) MarkNoShow() error {
	if a.status != scheduling.StatusScheduled {
		return ErrInvalidTransition
	}
	a.status = scheduling.StatusNoShow
	return nil
}

func (a *Appointment) transition(from, to scheduling.Status) error {
	if a.status != from {
		if a.IsFinal() {
			return ErrAlreadyFinal
		}
		return ErrInvalidTransition
	}
	a.status = to
	return nil
}

// IsFinal reports whether the appointment has left the occupying lifecycle.
func (a *Appointment) IsFinal() bool {
	switch a.status {
	case scheduling.StatusCompleted, scheduling.StatusCanceled, scheduling.StatusNoShow:
		return true
	default:
		return false
	}
}

// Occupies reports whether this appointment still blocks its staff timeline.
func (a *Appointment) Occupies() bool {
	return !a.IsFinal()
}

// SnapshotRecord projects the aggregate into the engine's plain record shape.
func (a *Appointment) SnapshotRecord() scheduling.Appointment {
	return scheduling.Appointment{
		ID:            a.id,
		StaffID:       a.staffID,
		LocationID:    a.locationID,
		ServiceItemID: a.serviceItemID,
		Start:         a.start,
		End:           a.end,
		Status:        a.status,
		Claims:        a.claims,
	}
}

func (a *Appointment) ID() uuid.UUID                     { return a.id }
func (a *Appointment) CompanyID() uuid.UUID              { return a.companyID }
func (a *Appointment) LocationID() uuid.UUID             { return a.locationID }
func (a *Appointment) StaffID() uuid.UUID                { return a.staffID }
func (a *Appointment) ServiceItemID() uuid.UUID          { return a.serviceItemID }
func (a *Appointment) CustomerRef() string               { return a.customerRef }
func (a *Appointment) StartTime() time.Time              { return a.start }
func (a *Appointment) EndTime() time.Time                { return a.end }
func (a *Appointment) Status() scheduling.Status         { return a.status }
func (a *Appointment) Claims() []scheduling.ResourceClaim { return a.claims }
func (a *Appointment) CreatedAt() time.Time              { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time              { return a.updatedAt }
