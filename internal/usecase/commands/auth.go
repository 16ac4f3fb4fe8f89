package commands

import (
	"context"

	"groomdesk/internal/infra"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/pkg/jwt"
	"groomdesk/internal/pkg/password"

	"github.com/google/uuid"
)

type LoginOutput struct {
	Token       string
	StaffID     uuid.UUID
	CompanyID   uuid.UUID
	DisplayName string
	Role        string
}

type AuthCommands interface {
	Login(ctx context.Context, email, rawPassword string) (*LoginOutput, error)
}

type authCommandsImpl struct {
	accounts StaffAccountReader
	jwtSvc   *jwt.Service
}

func NewAuthCommands(accounts StaffAccountReader, jwtSvc *jwt.Service) AuthCommands {
	return &authCommandsImpl{accounts: accounts, jwtSvc: jwtSvc}
}

func (c *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*LoginOutput, error) {
	account, err := c.accounts.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Same failure as a bad password so the response does not
			// reveal which emails exist.
			return nil, errs.Mark(err, errs.ErrInvalidCredentials)
		}
		return nil, errs.Wrap(err, "failed to look up staff account")
	}
	if !account.IsActive() {
		return nil, errs.Mark(errs.New("account is inactive"), errs.ErrInvalidCredentials)
	}
	if err := password.ComparePassword(account.PasswordHash(), rawPassword); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}

	token, err := c.jwtSvc.GenerateToken(account.ID(), account.CompanyID(), account.Role())
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}
	return &LoginOutput{
		Token:       token,
		StaffID:     account.ID(),
		CompanyID:   account.CompanyID(),
		DisplayName: account.DisplayName(),
		Role:        string(account.Role()),
	}, nil
}
