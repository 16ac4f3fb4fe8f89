//go:build unit

package scheduling_test

import (
	"testing"

	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(staffID *uuid.UUID, start scheduling.MinuteOfDay) scheduling.SlotRequest {
	return scheduling.SlotRequest{
		StaffID:       staffID,
		LocationID:    locationID,
		ServiceItemID: fullGroom(60).ID,
		Date:          monday,
		Start:         start,
	}
}

func TestValidate(t *testing.T) {
	engine := scheduling.NewEngine()

	// Jane works Monday 09:00-17:00 and already has a 10:00-11:00 appointment.
	jane := staffA
	janeSnapshot := func() scheduling.Snapshot {
		return scheduling.Snapshot{
			LocationID: locationID,
			Roster:     []scheduling.StaffAvailability{mondayStaff(jane, 9*60, 17*60)},
			Appointments: []scheduling.Appointment{
				appointmentFor(jane, minuteAt(monday, 10, 0), minuteAt(monday, 11, 0)),
			},
		}
	}

	t.Run("requesting 10:30 conflicts with the 10:00 appointment", func(t *testing.T) {
		d, err := engine.Validate(request(&jane, 10*60+30), janeSnapshot(), fullGroom(60))
		require.NoError(t, err)
		require.False(t, d.Accepted)
		assert.Equal(t, scheduling.ReasonTimeConflict, d.Reason)
		require.NotNil(t, d.Conflict)
		assert.Equal(t, minuteAt(monday, 10, 0), d.Conflict.Start)
	})

	t.Run("requesting 11:00 is accepted back-to-back", func(t *testing.T) {
		d, err := engine.Validate(request(&jane, 11*60), janeSnapshot(), fullGroom(60))
		require.NoError(t, err)
		require.True(t, d.Accepted)
		assert.Equal(t, jane, d.StaffID)
		assert.Equal(t, minuteAt(monday, 11, 0), d.Start)
		assert.Equal(t, minuteAt(monday, 12, 0), d.End)
	})

	t.Run("half-open interval law", func(t *testing.T) {
		// An appointment ending exactly at 10:00 does not block a 10:00 start,
		// and [9:00,10:00) against a request [9:59,...) still conflicts.
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster:     []scheduling.StaffAvailability{mondayStaff(jane, 9*60, 17*60)},
			Appointments: []scheduling.Appointment{
				appointmentFor(jane, minuteAt(monday, 9, 0), minuteAt(monday, 10, 0)),
			},
		}

		d, err := engine.Validate(request(&jane, 10*60), snap, fullGroom(60))
		require.NoError(t, err)
		assert.True(t, d.Accepted)

		d, err = engine.Validate(request(&jane, 9*60+59), snap, fullGroom(60))
		require.NoError(t, err)
		assert.Equal(t, scheduling.ReasonTimeConflict, d.Reason)
	})

	t.Run("accepting then re-validating yields a conflict", func(t *testing.T) {
		snap := janeSnapshot()
		req := request(&jane, 12*60)

		d, err := engine.Validate(req, snap, fullGroom(60))
		require.NoError(t, err)
		require.True(t, d.Accepted)

		snap.Appointments = append(snap.Appointments, scheduling.Appointment{
			ID:      uuid.New(),
			StaffID: d.StaffID,
			Start:   d.Start,
			End:     d.End,
			Status:  scheduling.StatusScheduled,
		})

		again, err := engine.Validate(req, snap, fullGroom(60))
		require.NoError(t, err)
		assert.Equal(t, scheduling.ReasonTimeConflict, again.Reason)
	})

	t.Run("outside working hours", func(t *testing.T) {
		d, err := engine.Validate(request(&jane, 16*60+30), janeSnapshot(), fullGroom(60))
		require.NoError(t, err)
		assert.Equal(t, scheduling.ReasonOutsideWorkingHours, d.Reason)
	})

	t.Run("staff without category permission", func(t *testing.T) {
		restricted := mondayStaff(jane, 9*60, 17*60)
		restricted.CategoryIDs = []uuid.UUID{uuid.New()} // some other category
		snap := scheduling.Snapshot{LocationID: locationID, Roster: []scheduling.StaffAvailability{restricted}}

		d, err := engine.Validate(request(&jane, 11*60), snap, fullGroom(60))
		require.NoError(t, err)
		assert.Equal(t, scheduling.ReasonStaffNotPermitted, d.Reason)
	})

	t.Run("unknown staff id", func(t *testing.T) {
		ghost := uuid.New()
		d, err := engine.Validate(request(&ghost, 11*60), janeSnapshot(), fullGroom(60))
		require.NoError(t, err)
		assert.Equal(t, scheduling.ReasonNoEligibleStaff, d.Reason)
	})

	t.Run("invalid duration", func(t *testing.T) {
		d, err := engine.Validate(request(&jane, 11*60), janeSnapshot(), fullGroom(0))
		require.NoError(t, err)
		assert.Equal(t, scheduling.ReasonInvalidDuration, d.Reason)
	})

	t.Run("location mismatch fails fast", func(t *testing.T) {
		req := request(&jane, 11*60)
		req.LocationID = uuid.New()
		_, err := engine.Validate(req, janeSnapshot(), fullGroom(60))
		assert.True(t, errs.Is(err, scheduling.ErrInvariantViolation))
	})

	t.Run("malformed work interval fails fast", func(t *testing.T) {
		snap := janeSnapshot()
		snap.Roster[0].Intervals[0].End = snap.Roster[0].Intervals[0].Start
		_, err := engine.Validate(request(&jane, 11*60), snap, fullGroom(60))
		assert.True(t, errs.Is(err, scheduling.ErrInvariantViolation))
	})
}

func TestValidateAnyStaff(t *testing.T) {
	engine := scheduling.NewEngine()

	t.Run("picks the least loaded staff", func(t *testing.T) {
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster: []scheduling.StaffAvailability{
				mondayStaff(staffA, 9*60, 17*60),
				mondayStaff(staffB, 9*60, 17*60),
			},
			Appointments: []scheduling.Appointment{
				appointmentFor(staffA, minuteAt(monday, 9, 0), minuteAt(monday, 10, 0)),
				appointmentFor(staffA, minuteAt(monday, 13, 0), minuteAt(monday, 14, 0)),
				appointmentFor(staffB, minuteAt(monday, 9, 0), minuteAt(monday, 10, 0)),
			},
		}

		d, err := engine.Validate(request(nil, 11*60), snap, fullGroom(60))
		require.NoError(t, err)
		require.True(t, d.Accepted)
		assert.Equal(t, staffB, d.StaffID)
	})

	t.Run("load ties break by ascending staff id", func(t *testing.T) {
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster: []scheduling.StaffAvailability{
				mondayStaff(staffB, 9*60, 17*60),
				mondayStaff(staffA, 9*60, 17*60),
			},
		}

		d, err := engine.Validate(request(nil, 11*60), snap, fullGroom(60))
		require.NoError(t, err)
		require.True(t, d.Accepted)
		assert.Equal(t, staffA, d.StaffID)
	})

	t.Run("no staff assigned to the location", func(t *testing.T) {
		elsewhere := mondayStaff(staffA, 9*60, 17*60)
		elsewhere.LocationIDs = []uuid.UUID{uuid.New()}
		snap := scheduling.Snapshot{LocationID: locationID, Roster: []scheduling.StaffAvailability{elsewhere}}

		d, err := engine.Validate(request(nil, 11*60), snap, fullGroom(60))
		require.NoError(t, err)
		assert.Equal(t, scheduling.ReasonNoEligibleStaff, d.Reason)
	})

	t.Run("all staff busy reports a time conflict", func(t *testing.T) {
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster: []scheduling.StaffAvailability{
				mondayStaff(staffA, 9*60, 17*60),
				mondayStaff(staffB, 9*60, 12*60),
			},
			Appointments: []scheduling.Appointment{
				appointmentFor(staffA, minuteAt(monday, 13, 0), minuteAt(monday, 15, 0)),
			},
		}

		// 13:00 overlaps staff A's booking and falls outside staff B's hours;
		// the conflict is the more actionable rejection.
		d, err := engine.Validate(request(nil, 13*60), snap, fullGroom(60))
		require.NoError(t, err)
		assert.Equal(t, scheduling.ReasonTimeConflict, d.Reason)
	})
}

func TestValidateResources(t *testing.T) {
	engine := scheduling.NewEngine()

	t.Run("second overlapping tub claim is rejected", func(t *testing.T) {
		bathService := fullGroom(0)
		bathService.Resources = []scheduling.RequiredResource{
			{ResourceTypeID: bathTubID, Quantity: 1, DurationMinutes: 30},
		}

		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster: []scheduling.StaffAvailability{
				mondayStaff(staffA, 9*60, 17*60),
				mondayStaff(staffB, 9*60, 17*60),
			},
			Capacities: map[uuid.UUID]int{bathTubID: 1},
		}

		first, err := engine.Validate(request(&staffA, 10*60), snap, bathService)
		require.NoError(t, err)
		require.True(t, first.Accepted)

		snap.Appointments = append(snap.Appointments, scheduling.Appointment{
			ID:      uuid.New(),
			StaffID: staffA,
			Start:   first.Start,
			End:     first.End,
			Status:  scheduling.StatusScheduled,
			Claims:  bathService.Claims(),
		})

		second, err := engine.Validate(request(&staffB, 10*60+15), snap, bathService)
		require.NoError(t, err)
		require.False(t, second.Accepted)
		assert.Equal(t, scheduling.ReasonResourceConflict, second.Reason)
		require.NotNil(t, second.Conflict)
	})

	t.Run("capacity above one admits parallel claims", func(t *testing.T) {
		bathService := fullGroom(0)
		bathService.Resources = []scheduling.RequiredResource{
			{ResourceTypeID: bathTubID, Quantity: 1, DurationMinutes: 30},
		}

		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster: []scheduling.StaffAvailability{
				mondayStaff(staffA, 9*60, 17*60),
				mondayStaff(staffB, 9*60, 17*60),
			},
			Appointments: []scheduling.Appointment{
				appointmentFor(staffA, minuteAt(monday, 10, 0), minuteAt(monday, 10, 30),
					scheduling.ResourceClaim{ResourceTypeID: bathTubID, Quantity: 1}),
			},
			Capacities: map[uuid.UUID]int{bathTubID: 2},
		}

		d, err := engine.Validate(request(&staffB, 10*60), snap, bathService)
		require.NoError(t, err)
		assert.True(t, d.Accepted)
	})
}
