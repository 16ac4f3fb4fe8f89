package usecase

import (
	"groomdesk/internal/domain/staff"
	"groomdesk/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator abstracts token verification for the auth middleware.
type TokenValidator interface {
	ValidateToken(token string) (staffID, companyID uuid.UUID, role staff.Role, err error)
}

type jwtTokenValidator struct {
	svc *jwt.Service
}

func NewTokenValidator(svc *jwt.Service) TokenValidator {
	return &jwtTokenValidator{svc: svc}
}

func (v *jwtTokenValidator) ValidateToken(token string) (uuid.UUID, uuid.UUID, staff.Role, error) {
	claims, err := v.svc.ValidateToken(token)
	if err != nil {
		return uuid.Nil, uuid.Nil, "", err
	}
	role, err := staff.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, uuid.Nil, "", err
	}
	return claims.StaffID, claims.CompanyID, role, nil
}
