package scheduling

import (
	"time"

	"groomdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

// Guard is the last line of defense against double-booking. It re-runs the
// half-open overlap check plus resource-quantity accounting against a freshly
// fetched appointment set, and is meant to be called inside the persistence
// layer's critical section (transaction with a re-fetched snapshot). The
// guard itself performs no I/O; atomicity of the surrounding re-check-and-
// write belongs to the storage layer.
type Guard struct {
	occupying map[Status]struct{}
}

func NewGuard(statuses ...Status) *Guard {
	if len(statuses) == 0 {
		statuses = DefaultOccupyingStatuses()
	}
	occ := make(map[Status]struct{}, len(statuses))
	for _, s := range statuses {
		occ[s] = struct{}{}
	}
	return &Guard{occupying: occ}
}

// Reservation is a token for an interval that passed the commit-time check.
type Reservation struct {
	Token   uuid.UUID
	StaffID uuid.UUID
	Start   time.Time
	End     time.Time
	Claims  []ResourceClaim
}

type ConflictKind string

const (
	ConflictStaff    ConflictKind = "staff"
	ConflictResource ConflictKind = "resource"
)

// Conflict identifies the booking that already holds the contested interval,
// for "this slot was just taken" messaging.
type Conflict struct {
	Kind           ConflictKind
	AppointmentID  uuid.UUID
	Start          time.Time
	End            time.Time
	ResourceTypeID uuid.UUID
}

// Reserve re-checks [start, end) for the staff member against existing
// occupying appointments and resource capacities. Exactly one of the returns
// is set on success/conflict; the error return fires only on malformed input
// and never silently admits an overlapping reservation.
func (g *Guard) Reserve(
	staffID uuid.UUID,
	start, end time.Time,
	claims []ResourceClaim,
	existing []Appointment,
	capacities map[uuid.UUID]int,
) (*Reservation, *Conflict, error) {
	if staffID == uuid.Nil {
		return nil, nil, errs.Mark(errs.New("reserve requires a staff id"), ErrInvariantViolation)
	}
	start, end = normalize(start), normalize(end)
	if !end.After(start) {
		return nil, nil, errs.Mark(errs.New("reserve interval end must follow start"), ErrInvariantViolation)
	}
	if err := checkCapacities(capacities, claims); err != nil {
		return nil, nil, err
	}

	for i := range existing {
		a := &existing[i]
		if a.StaffID != staffID || !g.isOccupying(a.Status) {
			continue
		}
		if overlaps(normalize(a.Start), normalize(a.End), start, end) {
			return nil, &Conflict{
				Kind:          ConflictStaff,
				AppointmentID: a.ID,
				Start:         a.Start,
				End:           a.End,
			}, nil
		}
	}

	for _, claim := range claims {
		used := 0
		var holder *Appointment
		for i := range existing {
			a := &existing[i]
			if !g.isOccupying(a.Status) {
				continue
			}
			if !overlaps(normalize(a.Start), normalize(a.End), start, end) {
				continue
			}
			for _, held := range a.Claims {
				if held.ResourceTypeID == claim.ResourceTypeID {
					used += held.Quantity
					holder = a
				}
			}
		}
		if used+claim.Quantity > capacities[claim.ResourceTypeID] {
			conflict := &Conflict{
				Kind:           ConflictResource,
				ResourceTypeID: claim.ResourceTypeID,
				Start:          start,
				End:            end,
			}
			if holder != nil {
				conflict.AppointmentID = holder.ID
				conflict.Start = holder.Start
				conflict.End = holder.End
			}
			return nil, conflict, nil
		}
	}

	return &Reservation{
		Token:   uuid.New(),
		StaffID: staffID,
		Start:   start,
		End:     end,
		Claims:  claims,
	}, nil, nil
}

func (g *Guard) isOccupying(s Status) bool {
	_, ok := g.occupying[s]
	return ok
}
