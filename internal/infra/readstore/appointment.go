package readstore

import (
	"context"
	"time"

	"groomdesk/internal/infra"
	"groomdesk/internal/infra/db"
	"groomdesk/internal/infra/pgconv"
	"groomdesk/internal/usecase/queries"

	"github.com/google/uuid"
)

const appointmentViewByIDQuery = `
SELECT a.id, a.company_id, a.location_id, a.staff_id, sm.display_name,
       a.service_item_id, si.name, a.customer_ref, a.start_at, a.end_at,
       a.status, a.created_at, a.updated_at
FROM appointments a
JOIN staff_members sm ON sm.id = a.staff_id
JOIN service_items si ON si.id = a.service_item_id
WHERE a.id = $1
`

const appointmentViewsForDayQuery = `
SELECT a.id, a.company_id, a.location_id, a.staff_id, sm.display_name,
       a.service_item_id, si.name, a.customer_ref, a.start_at, a.end_at,
       a.status, a.created_at, a.updated_at
FROM appointments a
JOIN staff_members sm ON sm.id = a.staff_id
JOIN service_items si ON si.id = a.service_item_id
WHERE a.location_id = $1 AND a.start_at >= $2 AND a.start_at < $3
  AND ($4::uuid IS NULL OR a.staff_id = $4)
ORDER BY a.start_at, a.staff_id
`

type AppointmentReadStore struct {
	db db.DBTX
}

func NewAppointmentReadStore(db db.DBTX) *AppointmentReadStore {
	return &AppointmentReadStore{db: db}
}

func (r *AppointmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	row := r.db.QueryRow(ctx, appointmentViewByIDQuery, id)
	view, err := scanAppointmentView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment by ID", err)
	}
	return view, nil
}

func (r *AppointmentReadStore) ListForDay(ctx context.Context, locationID uuid.UUID, day time.Time, staffID *uuid.UUID) ([]*queries.AppointmentView, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := r.db.Query(ctx, appointmentViewsForDayQuery, locationID, dayStart, dayEnd, pgconv.UUIDFromPtr(staffID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query appointments for day", err)
	}
	defer rows.Close()

	var views []*queries.AppointmentView
	for rows.Next() {
		view, err := scanAppointmentView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan appointment row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read appointment rows", err)
	}
	return views, nil
}

func scanAppointmentView(row rowScanner) (*queries.AppointmentView, error) {
	var v queries.AppointmentView
	err := row.Scan(
		&v.ID, &v.CompanyID, &v.LocationID, &v.StaffID, &v.StaffName,
		&v.ServiceItemID, &v.ServiceName, &v.CustomerRef, &v.Start, &v.End,
		&v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
