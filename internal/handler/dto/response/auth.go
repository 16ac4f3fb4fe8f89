package response

import (
	"groomdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	StaffID     uuid.UUID `json:"staffId"`
	CompanyID   uuid.UUID `json:"companyId"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
}

type MeResponse struct {
	StaffID   uuid.UUID `json:"staffId"`
	CompanyID uuid.UUID `json:"companyId"`
	Role      string    `json:"role"`
}

func FromLoginOutput(out *commands.LoginOutput) LoginResponse {
	return LoginResponse{
		AccessToken: out.Token,
		StaffID:     out.StaffID,
		CompanyID:   out.CompanyID,
		DisplayName: out.DisplayName,
		Role:        out.Role,
	}
}
