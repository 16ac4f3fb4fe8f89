//go:build unit

package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"groomdesk/internal/infra/db"
	"groomdesk/internal/pkg/clock"
	"groomdesk/internal/pkg/config"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeJobUoW struct{}

func (f *fakeJobUoW) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (f *fakeJobUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbx db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeNoShowMarker struct {
	marked  []uuid.UUID
	cutoffs []time.Time
}

func (f *fakeNoShowMarker) MarkOverdueNoShows(_ context.Context, _ db.DBTX, cutoff time.Time) ([]uuid.UUID, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.marked, nil
}

type fakeDueLister struct {
	due []*queries.NotificationJobView
}

func (f *fakeDueLister) ListDue(context.Context, time.Time, int) ([]*queries.NotificationJobView, error) {
	return f.due, nil
}

type fakeStatusWriter struct {
	dispatched []uuid.UUID
	failed     []uuid.UUID
	nextRuns   []time.Time
}

func (f *fakeStatusWriter) MarkDispatched(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	f.dispatched = append(f.dispatched, id)
	return nil
}

func (f *fakeStatusWriter) MarkFailed(_ context.Context, _ db.DBTX, id uuid.UUID, _ int, nextRun time.Time) error {
	f.failed = append(f.failed, id)
	f.nextRuns = append(f.nextRuns, nextRun)
	return nil
}

type fakeDispatcher struct {
	failKinds map[string]bool
	sent      []string
}

func (f *fakeDispatcher) Dispatch(_ context.Context, kind string, _ []byte) error {
	if f.failKinds[kind] {
		return errs.New("webhook unreachable")
	}
	f.sent = append(f.sent, kind)
	return nil
}

type JobsTestSuite struct {
	suite.Suite

	now        time.Time
	marker     *fakeNoShowMarker
	lister     *fakeDueLister
	writer     *fakeStatusWriter
	dispatcher *fakeDispatcher
	runner     *Runner
}

func TestJobsSuite(t *testing.T) {
	suite.Run(t, new(JobsTestSuite))
}

func (s *JobsTestSuite) SetupTest() {
	s.now = time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	s.marker = &fakeNoShowMarker{}
	s.lister = &fakeDueLister{}
	s.writer = &fakeStatusWriter{}
	s.dispatcher = &fakeDispatcher{failKinds: map[string]bool{}}

	cfg := config.JobsConfig{
		NoShowSweepSpec:      "*/5 * * * *",
		NotificationSpec:     "* * * * *",
		NoShowGraceMinutes:   15,
		NotificationBatchMax: 100,
	}
	s.runner = NewRunner(
		cfg,
		&fakeJobUoW{},
		s.marker,
		s.lister,
		s.writer,
		s.dispatcher,
		clock.NewMockClock(s.now),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func (s *JobsTestSuite) TestNoShowSweep_UsesGraceCutoff() {
	s.marker.marked = []uuid.UUID{uuid.New(), uuid.New()}

	s.runner.runNoShowSweep()

	require.Len(s.T(), s.marker.cutoffs, 1)
	require.Equal(s.T(), s.now.Add(-15*time.Minute), s.marker.cutoffs[0])
}

func (s *JobsTestSuite) TestNotificationDispatch_MarksOutcomePerJob() {
	okJob := &queries.NotificationJobView{ID: uuid.New(), Kind: "appointment_confirmation", Payload: []byte(`{}`)}
	badJob := &queries.NotificationJobView{ID: uuid.New(), Kind: "appointment_cancellation", Payload: []byte(`{}`), Attempts: 2}
	s.lister.due = []*queries.NotificationJobView{okJob, badJob}
	s.dispatcher.failKinds["appointment_cancellation"] = true

	s.runner.runNotificationDispatch()

	require.Equal(s.T(), []string{"appointment_confirmation"}, s.dispatcher.sent)
	require.Equal(s.T(), []uuid.UUID{okJob.ID}, s.writer.dispatched)
	require.Equal(s.T(), []uuid.UUID{badJob.ID}, s.writer.failed)
	// attempt 2 retries after 4 minutes
	require.Equal(s.T(), s.now.Add(4*time.Minute), s.writer.nextRuns[0])
}

func (s *JobsTestSuite) TestBackoffCapsAtOneHour() {
	require.Equal(s.T(), time.Minute, backoffFor(0))
	require.Equal(s.T(), 8*time.Minute, backoffFor(3))
	require.Equal(s.T(), time.Hour, backoffFor(10))
}
