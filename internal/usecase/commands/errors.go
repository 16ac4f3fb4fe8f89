package commands

import (
	"fmt"

	"groomdesk/internal/domain/scheduling"
)

// SlotRejectedError carries the engine's pre-check decision to the handler
// so the response can name the reject reason and the blocking appointment.
type SlotRejectedError struct {
	Decision scheduling.Decision
}

func (e *SlotRejectedError) Error() string {
	return fmt.Sprintf("slot rejected: %s", e.Decision.Reason)
}

// CommitConflictError reports a conflict detected inside the booking
// transaction, after the pre-check had accepted the slot.
type CommitConflictError struct {
	Conflict scheduling.Conflict
}

func (e *CommitConflictError) Error() string {
	return fmt.Sprintf("booking conflict (%s) with appointment %s", e.Conflict.Kind, e.Conflict.AppointmentID)
}
