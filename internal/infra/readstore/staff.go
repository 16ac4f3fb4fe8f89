package readstore

import (
	"context"
	"time"

	"groomdesk/internal/domain/staff"
	"groomdesk/internal/infra"
	"groomdesk/internal/infra/db"
	"groomdesk/internal/infra/pgconv"
	"groomdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

const staffByEmailQuery = `
SELECT id, company_id, email, display_name, password_hash, role, is_active, created_at, updated_at
FROM staff_members
WHERE email = $1
`

type StaffReadStore struct {
	db db.DBTX
}

type staffRow struct {
	id           uuid.UUID
	companyID    uuid.UUID
	displayName  string
	passwordHash string
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewStaffReadStore(db db.DBTX) *StaffReadStore {
	return &StaffReadStore{db: db}
}

func (r *StaffReadStore) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	var (
		row     staffRow
		rawMail string
		rawRole string
	)
	err := r.db.QueryRow(ctx, staffByEmailQuery, email).Scan(
		&row.id, &row.companyID, &rawMail, &row.displayName, &row.passwordHash,
		&rawRole, &row.isActive, &row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("staff member not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find staff by email", err)
	}

	mail, err := staff.NewEmail(rawMail)
	if err != nil {
		return nil, infra.WrapRepoErr("stored email is malformed", errs.Wrap(err, rawMail))
	}
	role, err := staff.NewRole(rawRole)
	if err != nil {
		return nil, infra.WrapRepoErr("stored role is malformed", err)
	}

	return staff.ReconstructStaff(
		row.id, row.companyID, mail, row.displayName, row.passwordHash,
		role, row.isActive, row.createdAt, row.updatedAt,
	), nil
}
