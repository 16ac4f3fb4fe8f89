package staff

import (
	"time"

	"github.com/google/uuid"
)

// Staff member account. Used for auth and for attributing bookings; roster
// data (working hours, locations) lives in the scheduling snapshot.
type Staff struct {
	id           uuid.UUID
	companyID    uuid.UUID
	email        Email
	displayName  string
	passwordHash string
	role         Role
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewStaff(companyID uuid.UUID, email Email, displayName, passwordHash string, role Role) *Staff {
	return &Staff{
		id:           uuid.New(),
		companyID:    companyID,
		email:        email,
		displayName:  displayName,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
	}
}

func ReconstructStaff(
	id, companyID uuid.UUID,
	email Email,
	displayName, passwordHash string,
	role Role,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Staff {
	return &Staff{
		id:           id,
		companyID:    companyID,
		email:        email,
		displayName:  displayName,
		passwordHash: passwordHash,
		role:         role,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (s *Staff) ID() uuid.UUID        { return s.id }
func (s *Staff) CompanyID() uuid.UUID { return s.companyID }
func (s *Staff) Email() Email         { return s.email }
func (s *Staff) DisplayName() string  { return s.displayName }
func (s *Staff) PasswordHash() string { return s.passwordHash }
func (s *Staff) Role() Role           { return s.role }
func (s *Staff) IsActive() bool       { return s.isActive }
func (s *Staff) CreatedAt() time.Time { return s.createdAt }
func (s *Staff) UpdatedAt() time.Time { return s.updatedAt }
