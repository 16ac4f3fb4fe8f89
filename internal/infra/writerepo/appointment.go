package writerepo

import (
	"context"
	"errors"
	"time"

	"groomdesk/internal/domain/appointment"
	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/infra"
	"groomdesk/internal/infra/db"
	"groomdesk/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const insertAppointmentQuery = `
INSERT INTO appointments (id, company_id, location_id, staff_id, service_item_id,
                          customer_ref, start_at, end_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
`

const insertClaimQuery = `
INSERT INTO appointment_resource_claims (appointment_id, resource_type_id, quantity)
VALUES ($1, $2, $3)
`

const updateStatusQuery = `
UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1
`

const appointmentForUpdateQuery = `
SELECT id, company_id, location_id, staff_id, service_item_id,
       customer_ref, start_at, end_at, status, created_at, updated_at
FROM appointments
WHERE id = $1
FOR UPDATE
`

const staffDayForUpdateQuery = `
SELECT id, staff_id, location_id, service_item_id, start_at, end_at, status
FROM appointments
WHERE staff_id = $1 AND start_at < $3 AND end_at > $2
ORDER BY start_at
FOR UPDATE
`

const resourceDayForUpdateQuery = `
SELECT a.id, a.staff_id, a.location_id, a.service_item_id, a.start_at, a.end_at, a.status
FROM appointments a
WHERE a.id IN (
	SELECT c.appointment_id
	FROM appointment_resource_claims c
	JOIN appointments x ON x.id = c.appointment_id
	WHERE x.location_id = $1 AND x.start_at < $3 AND x.end_at > $2
	  AND c.resource_type_id = ANY($4)
)
ORDER BY a.id
FOR UPDATE
`

const markOverdueNoShowsQuery = `
UPDATE appointments
SET status = 'no_show', updated_at = now()
WHERE status = 'scheduled' AND start_at < $1
RETURNING id
`

type AppointmentRepository struct{}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{}
}

func (r *AppointmentRepository) Create(ctx context.Context, dbtx db.DBTX, a *appointment.Appointment) error {
	_, err := dbtx.Exec(ctx, insertAppointmentQuery,
		a.ID(), a.CompanyID(), a.LocationID(), a.StaffID(), a.ServiceItemID(),
		a.CustomerRef(), a.StartTime(), a.EndTime(), string(a.Status()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("appointment already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert appointment", err)
	}
	for _, c := range a.Claims() {
		if _, err := dbtx.Exec(ctx, insertClaimQuery, a.ID(), c.ResourceTypeID, c.Quantity); err != nil {
			return infra.WrapRepoErr("failed to insert resource claim", err)
		}
	}
	return nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status scheduling.Status, updatedAt time.Time) error {
	tag, err := dbtx.Exec(ctx, updateStatusQuery, id, string(status), updatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *AppointmentRepository) FindForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*appointment.Appointment, error) {
	var (
		apptID, companyID, locationID, staffID, serviceItemID uuid.UUID
		customerRef, status                                   string
		start, end, createdAt, updatedAt                      time.Time
	)
	err := dbtx.QueryRow(ctx, appointmentForUpdateQuery, id).Scan(
		&apptID, &companyID, &locationID, &staffID, &serviceItemID,
		&customerRef, &start, &end, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock appointment", err)
	}

	claims, err := loadClaims(ctx, dbtx, []uuid.UUID{apptID})
	if err != nil {
		return nil, err
	}
	return appointment.ReconstructAppointment(
		apptID, companyID, locationID, staffID, serviceItemID,
		customerRef, start, end, scheduling.Status(status),
		claims[apptID], createdAt, updatedAt,
	), nil
}

func (r *AppointmentRepository) ListStaffDayForUpdate(ctx context.Context, dbtx db.DBTX, staffID uuid.UUID, day time.Time) ([]scheduling.Appointment, error) {
	dayStart, dayEnd := dayBounds(day)
	return r.listForUpdate(ctx, dbtx, staffDayForUpdateQuery, staffID, dayStart, dayEnd)
}

func (r *AppointmentRepository) ListResourceDayForUpdate(ctx context.Context, dbtx db.DBTX, locationID uuid.UUID, day time.Time, resourceTypeIDs []uuid.UUID) ([]scheduling.Appointment, error) {
	if len(resourceTypeIDs) == 0 {
		return nil, nil
	}
	dayStart, dayEnd := dayBounds(day)
	return r.listForUpdate(ctx, dbtx, resourceDayForUpdateQuery, locationID, dayStart, dayEnd, resourceTypeIDs)
}

// MarkOverdueNoShows flips scheduled appointments whose start passed the
// cutoff. Used by the no-show sweep job.
func (r *AppointmentRepository) MarkOverdueNoShows(ctx context.Context, dbtx db.DBTX, cutoff time.Time) ([]uuid.UUID, error) {
	rows, err := dbtx.Query(ctx, markOverdueNoShowsQuery, cutoff)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to mark overdue no-shows", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan no-show id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read no-show ids", err)
	}
	return ids, nil
}

func (r *AppointmentRepository) listForUpdate(ctx context.Context, dbtx db.DBTX, query string, args ...any) ([]scheduling.Appointment, error) {
	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock day appointments", err)
	}
	defer rows.Close()

	var appts []scheduling.Appointment
	var ids []uuid.UUID
	for rows.Next() {
		var a scheduling.Appointment
		var status string
		if err := rows.Scan(&a.ID, &a.StaffID, &a.LocationID, &a.ServiceItemID, &a.Start, &a.End, &status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan locked appointment", err)
		}
		a.Status = scheduling.Status(status)
		appts = append(appts, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read locked appointments", err)
	}
	if len(appts) == 0 {
		return nil, nil
	}

	claims, err := loadClaims(ctx, dbtx, ids)
	if err != nil {
		return nil, err
	}
	for i := range appts {
		appts[i].Claims = claims[appts[i].ID]
	}
	return appts, nil
}

const claimsByAppointmentQuery = `
SELECT appointment_id, resource_type_id, quantity
FROM appointment_resource_claims
WHERE appointment_id = ANY($1)
`

func loadClaims(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID) (map[uuid.UUID][]scheduling.ResourceClaim, error) {
	rows, err := dbtx.Query(ctx, claimsByAppointmentQuery, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query resource claims", err)
	}
	defer rows.Close()

	claims := make(map[uuid.UUID][]scheduling.ResourceClaim)
	for rows.Next() {
		var apptID, typeID uuid.UUID
		var qty int
		if err := rows.Scan(&apptID, &typeID, &qty); err != nil {
			return nil, infra.WrapRepoErr("failed to scan resource claim", err)
		}
		claims[apptID] = append(claims[apptID], scheduling.ResourceClaim{ResourceTypeID: typeID, Quantity: qty})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read resource claims", err)
	}
	return claims, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
