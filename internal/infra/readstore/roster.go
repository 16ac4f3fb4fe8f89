package readstore

import (
	"context"
	"time"

	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/infra"
	"groomdesk/internal/infra/db"

	"github.com/google/uuid"
)

const locationExistsQuery = `
SELECT EXISTS(SELECT 1 FROM locations WHERE id = $1)
`

const rosterStaffQuery = `
SELECT DISTINCT sm.id
FROM staff_members sm
JOIN staff_locations sl ON sl.staff_id = sm.id
WHERE sl.location_id = $1 AND sm.is_active
`

const workingHoursQuery = `
SELECT staff_id, weekday, start_minute, end_minute
FROM staff_working_hours
WHERE staff_id = ANY($1)
`

const staffLocationsQuery = `
SELECT staff_id, location_id
FROM staff_locations
WHERE staff_id = ANY($1)
`

const staffCategoriesQuery = `
SELECT staff_id, category_id
FROM staff_categories
WHERE staff_id = ANY($1)
`

const dayAppointmentsQuery = `
SELECT id, staff_id, location_id, service_item_id, start_at, end_at, status
FROM appointments
WHERE location_id = $1 AND start_at < $3 AND end_at > $2
ORDER BY start_at
`

const appointmentClaimsQuery = `
SELECT appointment_id, resource_type_id, quantity
FROM appointment_resource_claims
WHERE appointment_id = ANY($1)
`

const capacitiesQuery = `
SELECT resource_type_id, units
FROM resource_capacities
WHERE location_id = $1
`

// SchedulingReadStore assembles the engine's per-day snapshot from the
// roster, appointment, and capacity tables.
type SchedulingReadStore struct {
	db db.DBTX
}

func NewSchedulingReadStore(db db.DBTX) *SchedulingReadStore {
	return &SchedulingReadStore{db: db}
}

func (s *SchedulingReadStore) Snapshot(ctx context.Context, locationID uuid.UUID, day time.Time) (scheduling.Snapshot, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, locationExistsQuery, locationID).Scan(&exists); err != nil {
		return scheduling.Snapshot{}, infra.WrapRepoErr("failed to check location", err)
	}
	if !exists {
		return scheduling.Snapshot{}, infra.WrapRepoErr("location not found", nil, infra.KindNotFound)
	}

	roster, err := s.loadRoster(ctx, locationID)
	if err != nil {
		return scheduling.Snapshot{}, err
	}
	appts, err := s.loadDayAppointments(ctx, locationID, day)
	if err != nil {
		return scheduling.Snapshot{}, err
	}
	capacities, err := s.loadCapacities(ctx, locationID)
	if err != nil {
		return scheduling.Snapshot{}, err
	}

	return scheduling.Snapshot{
		LocationID:   locationID,
		Roster:       roster,
		Appointments: appts,
		Capacities:   capacities,
	}, nil
}

func (s *SchedulingReadStore) loadRoster(ctx context.Context, locationID uuid.UUID) ([]scheduling.StaffAvailability, error) {
	rows, err := s.db.Query(ctx, rosterStaffQuery, locationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query roster staff", err)
	}
	defer rows.Close()

	var staffIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan staff id", err)
		}
		staffIDs = append(staffIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read roster staff", err)
	}
	if len(staffIDs) == 0 {
		return nil, nil
	}

	byID := make(map[uuid.UUID]*scheduling.StaffAvailability, len(staffIDs))
	order := make([]*scheduling.StaffAvailability, 0, len(staffIDs))
	for _, id := range staffIDs {
		sa := &scheduling.StaffAvailability{StaffID: id}
		byID[id] = sa
		order = append(order, sa)
	}

	if err := s.forEachRow(ctx, workingHoursQuery, staffIDs, func(rows rowScanner) error {
		var staffID uuid.UUID
		var weekday, startMin, endMin int
		if err := rows.Scan(&staffID, &weekday, &startMin, &endMin); err != nil {
			return err
		}
		if sa, ok := byID[staffID]; ok {
			sa.Intervals = append(sa.Intervals, scheduling.WorkInterval{
				Weekday: time.Weekday(weekday),
				Start:   scheduling.MinuteOfDay(startMin),
				End:     scheduling.MinuteOfDay(endMin),
			})
		}
		return nil
	}); err != nil {
		return nil, infra.WrapRepoErr("failed to load working hours", err)
	}

	if err := s.forEachRow(ctx, staffLocationsQuery, staffIDs, func(rows rowScanner) error {
		var staffID, locID uuid.UUID
		if err := rows.Scan(&staffID, &locID); err != nil {
			return err
		}
		if sa, ok := byID[staffID]; ok {
			sa.LocationIDs = append(sa.LocationIDs, locID)
		}
		return nil
	}); err != nil {
		return nil, infra.WrapRepoErr("failed to load staff locations", err)
	}

	if err := s.forEachRow(ctx, staffCategoriesQuery, staffIDs, func(rows rowScanner) error {
		var staffID, catID uuid.UUID
		if err := rows.Scan(&staffID, &catID); err != nil {
			return err
		}
		if sa, ok := byID[staffID]; ok {
			sa.CategoryIDs = append(sa.CategoryIDs, catID)
		}
		return nil
	}); err != nil {
		return nil, infra.WrapRepoErr("failed to load staff categories", err)
	}

	result := make([]scheduling.StaffAvailability, len(order))
	for i, sa := range order {
		result[i] = *sa
	}
	return result, nil
}

func (s *SchedulingReadStore) loadDayAppointments(ctx context.Context, locationID uuid.UUID, day time.Time) ([]scheduling.Appointment, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := s.db.Query(ctx, dayAppointmentsQuery, locationID, dayStart, dayEnd)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query day appointments", err)
	}
	defer rows.Close()

	var appts []scheduling.Appointment
	var ids []uuid.UUID
	for rows.Next() {
		var a scheduling.Appointment
		var status string
		if err := rows.Scan(&a.ID, &a.StaffID, &a.LocationID, &a.ServiceItemID, &a.Start, &a.End, &status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan appointment", err)
		}
		a.Status = scheduling.Status(status)
		appts = append(appts, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read day appointments", err)
	}
	if len(appts) == 0 {
		return nil, nil
	}

	claims, err := loadClaims(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range appts {
		appts[i].Claims = claims[appts[i].ID]
	}
	return appts, nil
}

func (s *SchedulingReadStore) loadCapacities(ctx context.Context, locationID uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := s.db.Query(ctx, capacitiesQuery, locationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query resource capacities", err)
	}
	defer rows.Close()

	capacities := make(map[uuid.UUID]int)
	for rows.Next() {
		var typeID uuid.UUID
		var units int
		if err := rows.Scan(&typeID, &units); err != nil {
			return nil, infra.WrapRepoErr("failed to scan capacity", err)
		}
		capacities[typeID] = units
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read resource capacities", err)
	}
	return capacities, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SchedulingReadStore) forEachRow(ctx context.Context, query string, staffIDs []uuid.UUID, scan func(rowScanner) error) error {
	rows, err := s.db.Query(ctx, query, staffIDs)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// loadClaims fetches resource claims for a batch of appointments, keyed by
// appointment id. Shared with the write-side repositories.
func loadClaims(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID) (map[uuid.UUID][]scheduling.ResourceClaim, error) {
	rows, err := dbtx.Query(ctx, appointmentClaimsQuery, ids)
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
