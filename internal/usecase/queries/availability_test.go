//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/infra"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	locationID = uuid.MustParse("20000000-0000-0000-0000-000000000001")
	staffID    = uuid.MustParse("30000000-0000-0000-0000-00000000000a")
	serviceID  = uuid.MustParse("40000000-0000-0000-0000-000000000001")

	// 2026-09-07 is a Monday
	monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
)

type stubSnapshots struct {
	snap scheduling.Snapshot
	err  error
}

func (s *stubSnapshots) Snapshot(_ context.Context, _ uuid.UUID, _ time.Time) (scheduling.Snapshot, error) {
	return s.snap, s.err
}

type stubServices struct {
	item scheduling.ServiceItem
	err  error
}

func (s *stubServices) FindByID(_ context.Context, _ uuid.UUID) (scheduling.ServiceItem, error) {
	return s.item, s.err
}

func morningSnapshot() scheduling.Snapshot {
	return scheduling.Snapshot{
		LocationID: locationID,
		Roster: []scheduling.StaffAvailability{{
			StaffID: staffID,
			Intervals: []scheduling.WorkInterval{{
				Weekday: time.Monday,
				Start:   9 * 60,
				End:     10*60 + 30,
			}},
			LocationIDs: []uuid.UUID{locationID},
		}},
		Capacities: map[uuid.UUID]int{},
	}
}

func TestGetSlots_WindowBoundary(t *testing.T) {
	q := queries.NewAvailabilityQueries(
		scheduling.NewEngine(),
		&stubSnapshots{snap: morningSnapshot()},
		&stubServices{item: scheduling.ServiceItem{ID: serviceID, DurationMinutes: 60}},
		50,
	)

	views, err := q.GetSlots(context.Background(), queries.GetSlotsInput{
		LocationID:    locationID,
		ServiceItemID: serviceID,
		Date:          monday,
	})
	require.NoError(t, err)

	// 9:00-10:30 window, 60-minute service: only 9:00 and 9:30 fit.
	require.Len(t, views, 2)
	require.Equal(t, monday.Add(9*time.Hour), views[0].Start)
	require.Equal(t, monday.Add(9*time.Hour+30*time.Minute), views[1].Start)
	require.Equal(t, staffID, views[0].StaffID)
}

func TestGetSlots_LimitCapsResults(t *testing.T) {
	q := queries.NewAvailabilityQueries(
		scheduling.NewEngine(),
		&stubSnapshots{snap: morningSnapshot()},
		&stubServices{item: scheduling.ServiceItem{ID: serviceID, DurationMinutes: 60}},
		50,
	)

	views, err := q.GetSlots(context.Background(), queries.GetSlotsInput{
		LocationID:    locationID,
		ServiceItemID: serviceID,
		Date:          monday,
		Limit:         1,
	})
	require.NoError(t, err)
	require.Len(t, views, 1)
}

func TestGetSlots_ServiceItemNotFound(t *testing.T) {
	q := queries.NewAvailabilityQueries(
		scheduling.NewEngine(),
		&stubSnapshots{snap: morningSnapshot()},
		&stubServices{err: infra.WrapRepoErr("service item not found", nil, infra.KindNotFound)},
		50,
	)

	_, err := q.GetSlots(context.Background(), queries.GetSlotsInput{
		LocationID:    locationID,
		ServiceItemID: serviceID,
		Date:          monday,
	})
	require.True(t, errs.Is(err, errs.ErrServiceItemNotFound))
}

func TestGetSlots_LocationNotFound(t *testing.T) {
	q := queries.NewAvailabilityQueries(
		scheduling.NewEngine(),
		&stubSnapshots{err: infra.WrapRepoErr("location not found", nil, infra.KindNotFound)},
		&stubServices{item: scheduling.ServiceItem{ID: serviceID, DurationMinutes: 60}},
		50,
	)

	_, err := q.GetSlots(context.Background(), queries.GetSlotsInput{
		LocationID:    locationID,
		ServiceItemID: serviceID,
		Date:          monday,
	})
	require.True(t, errs.Is(err, errs.ErrLocationNotFound))
}
