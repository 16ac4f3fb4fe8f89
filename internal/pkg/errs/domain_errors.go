package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Catalog errors
	ErrServiceItemNotFound = errors.New("service item not found")
	ErrLocationNotFound    = errors.New("location not found")

	// Appointment errors
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrBookingConflict     = errors.New("booking conflict")

	// Staff errors
	ErrStaffNotFound      = errors.New("staff not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
