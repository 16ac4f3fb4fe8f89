//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"groomdesk/internal/domain/staff"
	"groomdesk/internal/infra"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/pkg/jwt"
	"groomdesk/internal/pkg/password"
	"groomdesk/internal/usecase/commands"

	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	account *staff.Staff
	err     error
}

func (f *fakeAccounts) FindByEmail(_ context.Context, _ string) (*staff.Staff, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func newTestAccount(t *testing.T, active bool) *staff.Staff {
	t.Helper()
	email, err := staff.NewEmail("jane@example.com")
	require.NoError(t, err)
	hash, err := password.HashPassword("correct-horse")
	require.NoError(t, err)

	return staff.ReconstructStaff(
		janeID, companyID, email, "Jane", hash,
		staff.RoleGroomer, active,
		time.Now(), time.Now(),
	)
}

func TestLogin_Success(t *testing.T) {
	svc := jwt.NewService("test-secret", time.Hour)
	auth := commands.NewAuthCommands(&fakeAccounts{account: newTestAccount(t, true)}, svc)

	out, err := auth.Login(context.Background(), "jane@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	require.Equal(t, janeID, out.StaffID)
	require.Equal(t, "groomer", out.Role)

	claims, err := svc.ValidateToken(out.Token)
	require.NoError(t, err)
	require.Equal(t, janeID, claims.StaffID)
	require.Equal(t, companyID, claims.CompanyID)
}

func TestLogin_WrongPassword(t *testing.T) {
	auth := commands.NewAuthCommands(
		&fakeAccounts{account: newTestAccount(t, true)},
		jwt.NewService("test-secret", time.Hour),
	)

	_, err := auth.Login(context.Background(), "jane@example.com", "wrong")
	require.True(t, errs.Is(err, errs.ErrInvalidCredentials))
}

func TestLogin_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	auth := commands.NewAuthCommands(
		&fakeAccounts{err: infra.WrapRepoErr("staff member not found", nil, infra.KindNotFound)},
		jwt.NewService("test-secret", time.Hour),
	)

	_, err := auth.Login(context.Background(), "nobody@example.com", "whatever")
	require.True(t, errs.Is(err, errs.ErrInvalidCredentials))
}

func TestLogin_InactiveAccount(t *testing.T) {
	auth := commands.NewAuthCommands(
		&fakeAccounts{account: newTestAccount(t, false)},
		jwt.NewService("test-secret", time.Hour),
	)

	_, err := auth.Login(context.Background(), "jane@example.com", "correct-horse")
	require.True(t, errs.Is(err, errs.ErrInvalidCredentials))
}
