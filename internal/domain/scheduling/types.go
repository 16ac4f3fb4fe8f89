package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// MinuteOfDay is a minute-resolution clock position within a single day
// (0 = midnight, 1439 = 23:59). All slot arithmetic happens on these integers
// after UTC normalization; fractional minutes are never produced.
type MinuteOfDay int

func (m MinuteOfDay) Hour() int   { return int(m) / 60 }
func (m MinuteOfDay) Minute() int { return int(m) % 60 }

// At anchors the minute onto a calendar date, UTC.
func (m MinuteOfDay) At(date time.Time) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), m.Hour(), m.Minute(), 0, 0, time.UTC)
}

// WorkInterval is one recurring weekly availability window for a staff member.
type WorkInterval struct {
	Weekday time.Weekday
	Start   MinuteOfDay
	End     MinuteOfDay
}

func (w WorkInterval) IsValid() bool {
	return w.Start < w.End && w.Start >= 0 && w.End <= 24*60
}

// StaffAvailability is the roster entry for one staff member: their weekly
// working windows, assigned locations, and permitted service categories.
// An empty CategoryIDs set means the staff member may perform any service.
type StaffAvailability struct {
	StaffID     uuid.UUID
	Intervals   []WorkInterval
	LocationIDs []uuid.UUID
	CategoryIDs []uuid.UUID
}

func (s StaffAvailability) WorksAt(locationID uuid.UUID) bool {
	for _, id := range s.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

func (s StaffAvailability) Permits(categoryID uuid.UUID) bool {
	if len(s.CategoryIDs) == 0 {
		return true
	}
	for _, id := range s.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

func (s StaffAvailability) IntervalsOn(day time.Weekday) []WorkInterval {
	var out []WorkInterval
	for _, w := range s.Intervals {
		if w.Weekday == day {
			out = append(out, w)
		}
	}
	return out
}

// RequiredResource declares that a service consumes Quantity units of a
// resource type (bath tub, drying table, ...) for DurationMinutes.
type RequiredResource struct {
	ResourceTypeID  uuid.UUID
	Quantity        int
	DurationMinutes int
}

// ServiceItem describes one bookable grooming service. DurationMinutes may be
// set directly; when required resources are present the effective duration is
// derived instead.
type ServiceItem struct {
	ID              uuid.UUID
	CategoryID      uuid.UUID
	Name            string
	DurationMinutes int
	PriceCents      int32
	Resources       []RequiredResource
}

// Duration resolves the bookable length in minutes. Required resources are
// assumed to run serially, so the derived duration is the sum of their
// durations. Returns ErrInvalidDuration when the result is not positive.
func (s ServiceItem) Duration() (int, error) {
	if len(s.Resources) == 0 {
		if s.DurationMinutes <= 0 {
			return 0, ErrInvalidDuration
		}
		return s.DurationMinutes, nil
	}
	total := 0
	for _, r := range s.Resources {
		if r.Quantity <= 0 || r.DurationMinutes <= 0 {
			return 0, ErrInvalidDuration
		}
		total += r.DurationMinutes
	}
	if total <= 0 {
		return 0, ErrInvalidDuration
	}
	return total, nil
}

// Claims returns the resource claims a booking of this service makes.
func (s ServiceItem) Claims() []ResourceClaim {
	if len(s.Resources) == 0 {
		return nil
	}
	claims := make([]ResourceClaim, len(s.Resources))
	for i, r := range s.Resources {
		claims[i] = ResourceClaim{ResourceTypeID: r.ResourceTypeID, Quantity: r.Quantity}
	}
	return claims
}

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusCheckedIn  Status = "checked_in"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
	StatusNoShow     Status = "no_show"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCheckedIn, StatusInProgress,
		StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	default:
		return false
	}
}

// DefaultOccupyingStatuses are the statuses that block a staff timeline.
func DefaultOccupyingStatuses() []Status {
	return []Status{StatusScheduled, StatusCheckedIn, StatusInProgress}
}

// ResourceClaim is the quantity of one resource type held by an appointment.
type ResourceClaim struct {
	ResourceTypeID uuid.UUID
	Quantity       int
}

// Appointment is the plain snapshot record the engine computes against.
// The persistence-facing aggregate lives in the appointment package; this
// shape only carries what overlap and resource accounting need.
type Appointment struct {
	ID            uuid.UUID
	StaffID       uuid.UUID
	LocationID    uuid.UUID
	ServiceItemID uuid.UUID
	Start         time.Time
	End           time.Time
	Status        Status
	Claims        []ResourceClaim
}

// SlotRequest is one booking attempt. A nil StaffID means "any staff".
type SlotRequest struct {
	StaffID       *uuid.UUID
	LocationID    uuid.UUID
	ServiceItemID uuid.UUID
	Date          time.Time
	Start         MinuteOfDay
}

// Snapshot is the read-only input for one scheduling decision: the roster,
// the day's appointments, and per-resource-type unit capacities at the
// location. The engine never retains a snapshot across calls.
type Snapshot struct {
	LocationID   uuid.UUID
	Roster       []StaffAvailability
	Appointments []Appointment
	Capacities   map[uuid.UUID]int
}

// normalize truncates to minute resolution in UTC so comparisons never see
// sub-minute or zone drift.
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// overlaps applies the half-open interval rule: [a1,a2) and [b1,b2) conflict
// iff a1 < b2 && a2 > b1, so back-to-back bookings are always compatible.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
