//go:build unit

package appointment_test

import (
	"testing"
	"time"

	"groomdesk/internal/domain/appointment"
	"groomdesk/internal/domain/scheduling"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduled(t *testing.T) *appointment.Appointment {
	t.Helper()
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	a, err := appointment.NewAppointment(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		"fb:1234", start, start.Add(time.Hour), nil)
	require.NoError(t, err)
	return a
}

func TestAppointmentLifecycle(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		a := newScheduled(t)
		assert.Equal(t, scheduling.StatusScheduled, a.Status())
		assert.True(t, a.Occupies())

		require.NoError(t, a.CheckIn())
		require.NoError(t, a.Start())
		require.NoError(t, a.Complete())
		assert.Equal(t, scheduling.StatusCompleted, a.Status())
		assert.True(t, a.IsFinal())
		assert.False(t, a.Occupies())
	})

	t.Run("cannot start before check-in", func(t *testing.T) {
		a := newScheduled(t)
		assert.ErrorIs(t, a.Start(), appointment.ErrInvalidTransition)
	})

	t.Run("cancel from any non-final status", func(t *testing.T) {
		a := newScheduled(t)
		require.NoError(t, a.CheckIn())
		require.NoError(t, a.Cancel())
		assert.Equal(t, scheduling.StatusCanceled, a.Status())
	})

	t.Run("cancel after completion is rejected", func(t *testing.T) {
		a := newScheduled(t)
		require.NoError(t, a.CheckIn())
		require.NoError(t, a.Start())
		require.NoError(t, a.Complete())
		assert.ErrorIs(t, a.Cancel(), appointment.ErrAlreadyFinal)
	})

	t.Run("no-show only from scheduled", func(t *testing.T) {
		a := newScheduled(t)
		require.NoError(t, a.MarkNoShow())

		b := newScheduled(t)
		require.NoError(t, b.CheckIn())
		assert.ErrorIs(t, b.MarkNoShow(), appointment.ErrInvalidTransition)
	})

	t.Run("degenerate interval rejected", func(t *testing.T) {
		at := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
		_, err := appointment.NewAppointment(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(), "", at, at, nil)
		assert.ErrorIs(t, err, appointment.ErrInvalidInterval)
	})

	t.Run("snapshot record carries claims and status", func(t *testing.T) {
		tub := scheduling.ResourceClaim{ResourceTypeID: uuid.New(), Quantity: 1}
		start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
		a, err := appointment.NewAppointment(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			"fb:1234", start, start.Add(time.Hour),
			[]scheduling.ResourceClaim{tub})
		require.NoError(t, err)

		rec := a.SnapshotRecord()
		assert.Equal(t, a.ID(), rec.ID)
		assert.Equal(t, scheduling.StatusScheduled, rec.Status)
		assert.Equal(t, []scheduling.ResourceClaim{tub}, rec.Claims)
	})
}
