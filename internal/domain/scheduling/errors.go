package scheduling

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// RejectReason tags a business-rule rejection. All reasons are recoverable,
// user-facing outcomes; callers render a message and may retry with different
// parameters.
type RejectReason string

const (
	ReasonOutsideWorkingHours RejectReason = "OUTSIDE_WORKING_HOURS"
	ReasonStaffNotPermitted   RejectReason = "STAFF_NOT_PERMITTED"
	ReasonTimeConflict        RejectReason = "TIME_CONFLICT"
	ReasonResourceConflict    RejectReason = "RESOURCE_CONFLICT"
	ReasonInvalidDuration     RejectReason = "INVALID_DURATION"
	ReasonNoEligibleStaff     RejectReason = "NO_ELIGIBLE_STAFF"
)

var (
	// ErrInvalidDuration is a business-rule rejection for non-positive service durations.
	ErrInvalidDuration = errors.New("service duration must be positive")

	// ErrInvariantViolation marks a malformed snapshot or request. Unlike the
	// RejectReason taxonomy this indicates a bug in the calling layer and
	// should fail fast rather than be rendered to users.
	ErrInvariantViolation = errors.New("scheduling invariant violation")
)

// Decision is the tagged outcome of validating one slot request.
type Decision struct {
	Accepted bool
	Reason   RejectReason

	// Populated on acceptance: the resolved staff member and the normalized
	// half-open interval.
	StaffID uuid.UUID
	Start   time.Time
	End     time.Time

	// Populated for TIME_CONFLICT / RESOURCE_CONFLICT so callers can tell the
	// user which booking took the slot.
	Conflict *Appointment
}

func accepted(staffID uuid.UUID, start, end time.Time) Decision {
	return Decision{Accepted: true, StaffID: staffID, Start: start, End: end}
}

func rejected(reason RejectReason) Decision {
	return Decision{Reason: reason}
}

func rejectedWith(reason RejectReason, conflict *Appointment) Decision {
	return Decision{Reason: reason, Conflict: conflict}
}
