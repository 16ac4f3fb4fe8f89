//go:build unit

package scheduling_test

import (
	"testing"
	"time"

	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	locationID = uuid.MustParse("10000000-0000-0000-0000-000000000001")
	staffA     = uuid.MustParse("20000000-0000-0000-0000-00000000000a")
	staffB     = uuid.MustParse("20000000-0000-0000-0000-00000000000b")
	categoryID = uuid.MustParse("30000000-0000-0000-0000-000000000001")
	bathTubID  = uuid.MustParse("40000000-0000-0000-0000-000000000001")

	// 2026-09-07 is a Monday.
	monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
)

func minuteAt(day time.Time, h, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
}

func mondayStaff(id uuid.UUID, startMin, endMin scheduling.MinuteOfDay) scheduling.StaffAvailability {
	return scheduling.StaffAvailability{
		StaffID:     id,
		LocationIDs: []uuid.UUID{locationID},
		Intervals: []scheduling.WorkInterval{
			{Weekday: time.Monday, Start: startMin, End: endMin},
		},
	}
}

func fullGroom(durationMin int) scheduling.ServiceItem {
	return scheduling.ServiceItem{
		ID:              uuid.MustParse("50000000-0000-0000-0000-000000000001"),
		CategoryID:      categoryID,
		Name:            "Full Groom",
		DurationMinutes: durationMin,
		PriceCents:      8500,
	}
}

func appointmentFor(staffID uuid.UUID, start, end time.Time, claims ...scheduling.ResourceClaim) scheduling.Appointment {
	return scheduling.Appointment{
		ID:         uuid.New(),
		StaffID:    staffID,
		LocationID: locationID,
		Start:      start,
		End:        end,
		Status:     scheduling.StatusScheduled,
		Claims:     claims,
	}
}

func TestEnumerateSlots(t *testing.T) {
	engine := scheduling.NewEngine()

	t.Run("window boundary arithmetic", func(t *testing.T) {
		// 60-minute service against a 09:00-10:30 window with 30-minute step:
		// a 10:00 start would end at 11:00, past the window, so only two
		// candidates survive.
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster:     []scheduling.StaffAvailability{mondayStaff(staffA, 9*60, 10*60+30)},
		}

		iter, err := engine.EnumerateSlots(monday, snap, fullGroom(60), nil)
		require.NoError(t, err)

		slots := iter.Collect(0)
		require.Len(t, slots, 2)
		assert.Equal(t, minuteAt(monday, 9, 0), slots[0].Start)
		assert.Equal(t, minuteAt(monday, 9, 30), slots[1].Start)
		assert.Equal(t, minuteAt(monday, 10, 30), slots[1].End)
	})

	t.Run("excludes occupied intervals", func(t *testing.T) {
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster:     []scheduling.StaffAvailability{mondayStaff(staffA, 9*60, 12*60)},
			Appointments: []scheduling.Appointment{
				appointmentFor(staffA, minuteAt(monday, 10, 0), minuteAt(monday, 11, 0)),
			},
		}

		iter, err := engine.EnumerateSlots(monday, snap, fullGroom(60), nil)
		require.NoError(t, err)

		slots := iter.Collect(0)
		starts := make([]time.Time, len(slots))
		for i, s := range slots {
			starts[i] = s.Start
		}
		// 09:30 would overlap 10:00-11:00; 11:00 is back-to-back and allowed.
		assert.Equal(t, []time.Time{minuteAt(monday, 9, 0), minuteAt(monday, 11, 0)}, starts)
	})

	t.Run("never emits a slot intersecting an occupying appointment", func(t *testing.T) {
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster: []scheduling.StaffAvailability{
				mondayStaff(staffA, 9*60, 17*60),
				mondayStaff(staffB, 9*60, 17*60),
			},
			Appointments: []scheduling.Appointment{
				appointmentFor(staffA, minuteAt(monday, 9, 30), minuteAt(monday, 10, 15)),
				appointmentFor(staffA, minuteAt(monday, 13, 0), minuteAt(monday, 14, 30)),
				appointmentFor(staffB, minuteAt(monday, 11, 0), minuteAt(monday, 12, 0)),
			},
		}

		iter, err := engine.EnumerateSlots(monday, snap, fullGroom(45), nil)
		require.NoError(t, err)

		for s, ok := iter.Next(); ok; s, ok = iter.Next() {
			for _, a := range snap.Appointments {
				if a.StaffID != s.StaffID {
					continue
				}
				intersects := a.Start.Before(s.End) && a.End.After(s.Start)
				assert.False(t, intersects,
					"slot %v-%v intersects appointment %v-%v", s.Start, s.End, a.Start, a.End)
			}
		}
	})

	t.Run("ordered by start then staff id", func(t *testing.T) {
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster: []scheduling.StaffAvailability{
				mondayStaff(staffB, 9*60, 11*60),
				mondayStaff(staffA, 9*60, 11*60),
			},
		}

		iter, err := engine.EnumerateSlots(monday, snap, fullGroom(60), nil)
		require.NoError(t, err)

		slots := iter.Collect(0)
		require.Len(t, slots, 6)
		assert.Equal(t, staffA, slots[0].StaffID)
		assert.Equal(t, staffB, slots[1].StaffID)
		assert.Equal(t, slots[0].Start, slots[1].Start)
		assert.True(t, slots[1].Start.Before(slots[2].Start))
	})

	t.Run("restartable", func(t *testing.T) {
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster:     []scheduling.StaffAvailability{mondayStaff(staffA, 9*60, 12*60)},
		}

		iter, err := engine.EnumerateSlots(monday, snap, fullGroom(60), nil)
		require.NoError(t, err)

		first := iter.Collect(2)
		iter.Reset()
		again := iter.Collect(2)
		assert.Equal(t, first, again)
	})

	t.Run("staff filter", func(t *testing.T) {
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster: []scheduling.StaffAvailability{
				mondayStaff(staffA, 9*60, 12*60),
				mondayStaff(staffB, 9*60, 12*60),
			},
		}

		iter, err := engine.EnumerateSlots(monday, snap, fullGroom(60), &staffB)
		require.NoError(t, err)

		for s, ok := iter.Next(); ok; s, ok = iter.Next() {
			assert.Equal(t, staffB, s.StaffID)
		}
	})

	t.Run("no working window that day yields nothing", func(t *testing.T) {
		tuesdayOnly := scheduling.StaffAvailability{
			StaffID:     staffA,
			LocationIDs: []uuid.UUID{locationID},
			Intervals: []scheduling.WorkInterval{
				{Weekday: time.Tuesday, Start: 9 * 60, End: 17 * 60},
			},
		}
		snap := scheduling.Snapshot{LocationID: locationID, Roster: []scheduling.StaffAvailability{tuesdayOnly}}

		iter, err := engine.EnumerateSlots(monday, snap, fullGroom(60), nil)
		require.NoError(t, err)
		assert.Empty(t, iter.Collect(0))
	})

	t.Run("skips slots when resource units are exhausted", func(t *testing.T) {
		withTub := fullGroom(0)
		withTub.Resources = []scheduling.RequiredResource{
			{ResourceTypeID: bathTubID, Quantity: 1, DurationMinutes: 30},
		}
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster: []scheduling.StaffAvailability{
				mondayStaff(staffA, 9*60, 10*60),
				mondayStaff(staffB, 9*60, 10*60),
			},
			Appointments: []scheduling.Appointment{
				appointmentFor(staffB, minuteAt(monday, 9, 0), minuteAt(monday, 9, 30),
					scheduling.ResourceClaim{ResourceTypeID: bathTubID, Quantity: 1}),
			},
			Capacities: map[uuid.UUID]int{bathTubID: 1},
		}

		iter, err := engine.EnumerateSlots(monday, snap, withTub, &staffA)
		require.NoError(t, err)

		slots := iter.Collect(0)
		// The 09:00 tub unit is taken; staff A can only start at 09:30.
		require.Len(t, slots, 1)
		assert.Equal(t, minuteAt(monday, 9, 30), slots[0].Start)
	})

	t.Run("invalid duration rejected up front", func(t *testing.T) {
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster:     []scheduling.StaffAvailability{mondayStaff(staffA, 9*60, 12*60)},
		}
		_, err := engine.EnumerateSlots(monday, snap, fullGroom(0), nil)
		assert.ErrorIs(t, err, scheduling.ErrInvalidDuration)
	})

	t.Run("missing capacity for required resource is an invariant violation", func(t *testing.T) {
		withTub := fullGroom(0)
		withTub.Resources = []scheduling.RequiredResource{
			{ResourceTypeID: bathTubID, Quantity: 1, DurationMinutes: 30},
		}
		snap := scheduling.Snapshot{
			LocationID: locationID,
			Roster:     []scheduling.StaffAvailability{mondayStaff(staffA, 9*60, 12*60)},
		}
		_, err := engine.EnumerateSlots(monday, snap, withTub, nil)
		assert.True(t, errs.Is(err, scheduling.ErrInvariantViolation))
	})
}

func TestServiceItemDuration(t *testing.T) {
	t.Run("direct duration", func(t *testing.T) {
		d, err := fullGroom(75).Duration()
		require.NoError(t, err)
		assert.Equal(t, 75, d)
	})

	t.Run("derived duration sums resource durations", func(t *testing.T) {
		item := fullGroom(0)
		item.Resources = []scheduling.RequiredResource{
			{ResourceTypeID: bathTubID, Quantity: 1, DurationMinutes: 30},
			{ResourceTypeID: uuid.New(), Quantity: 1, DurationMinutes: 45},
		}
		d, err := item.Duration()
		require.NoError(t, err)
		assert.Equal(t, 75, d)
	})

	t.Run("non-positive duration rejected", func(t *testing.T) {
		_, err := fullGroom(-10).Duration()
		assert.ErrorIs(t, err, scheduling.ErrInvalidDuration)
	})
}
