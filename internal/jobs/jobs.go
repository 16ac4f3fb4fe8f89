// Package jobs runs the salon's recurring background work on cron schedules:
// sweeping overdue scheduled appointments into no_show and dispatching queued
// notifications.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"groomdesk/internal/infra/db"
	"groomdesk/internal/pkg/clock"
	"groomdesk/internal/pkg/config"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/queries"
	"groomdesk/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const notificationMaxAttempts = 5

// Dispatcher is the outbound delivery channel for notification payloads.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind string, payload []byte) error
}

type NoShowMarker interface {
	MarkOverdueNoShows(ctx context.Context, dbtx db.DBTX, cutoff time.Time) ([]uuid.UUID, error)
}

type DueJobLister interface {
	ListDue(ctx context.Context, now time.Time, limit int) ([]*queries.NotificationJobView, error)
}

type JobStatusWriter interface {
	MarkDispatched(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	MarkFailed(ctx context.Context, dbtx db.DBTX, id uuid.UUID, maxAttempts int, nextRun time.Time) error
}

type Runner struct {
	cron          *cron.Cron
	cfg           config.JobsConfig
	uow           shared.UnitOfWork
	appointments  NoShowMarker
	jobs          DueJobLister
	notifications JobStatusWriter
	dispatcher    Dispatcher
	clk           clock.Clock
	logger        *slog.Logger
}

func NewRunner(
	cfg config.JobsConfig,
	uow shared.UnitOfWork,
	appointments NoShowMarker,
	jobs DueJobLister,
	notifications JobStatusWriter,
	dispatcher Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		cron:          cron.New(),
		cfg:           cfg,
		uow:           uow,
		appointments:  appointments,
		jobs:          jobs,
		notifications: notifications,
		dispatcher:    dispatcher,
		clk:           clk,
		logger:        logger,
	}
}

// Start registers the schedules and launches the cron loop.
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc(r.cfg.NoShowSweepSpec, r.runNoShowSweep); err != nil {
		return errs.Wrapf(err, "invalid no-show sweep schedule %q", r.cfg.NoShowSweepSpec)
	}
	if _, err := r.cron.AddFunc(r.cfg.NotificationSpec, r.runNotificationDispatch); err != nil {
		return errs.Wrapf(err, "invalid notification schedule %q", r.cfg.NotificationSpec)
	}
	r.cron.Start()
	r.logger.Info("job runner started",
		slog.String("no_show_sweep", r.cfg.NoShowSweepSpec),
		slog.String("notification_dispatch", r.cfg.NotificationSpec),
	)
	return nil
}

// Stop halts scheduling and waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("job runner stopped")
}

func (r *Runner) runNoShowSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := r.clk.Now().Add(-time.Duration(r.cfg.NoShowGraceMinutes) * time.Minute)
	err := r.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		ids, err := r.appointments.MarkOverdueNoShows(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			r.logger.Info("no-show sweep marked appointments", slog.Int("count", len(ids)))
		}
		return nil
	})
	if err != nil {
		r.logger.Error("no-show sweep failed", slog.Any("error", err))
	}
}

func (r *Runner) runNotificationDispatch() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	due, err := r.jobs.ListDue(ctx, r.clk.Now(), r.cfg.NotificationBatchMax)
	if err != nil {
		r.logger.Error("failed to list due notifications", slog.Any("error", err))
		return
	}

	for _, job := range due {
		if err := r.dispatcher.Dispatch(ctx, job.Kind, job.Payload); err != nil {
			r.logger.Warn("notification dispatch failed",
				slog.String("job_id", job.ID.String()),
				slog.String("kind", job.Kind),
				slog.Any("error", err),
			)
			nextRun := r.clk.Now().Add(backoffFor(int(job.Attempts)))
			if err := r.markFailed(ctx, job.ID, nextRun); err != nil {
				r.logger.Error("failed to record dispatch failure", slog.Any("error", err))
			}
			continue
		}
		if err := r.markDispatched(ctx, job.ID); err != nil {
			r.logger.Error("failed to record dispatch success", slog.Any("error", err))
		}
	}
}

func (r *Runner) markDispatched(ctx context.Context, id uuid.UUID) error {
	return r.uow.WithDB(ctx, func(ctx context.Context, dbx db.DBTX) error {
		return r.notifications.MarkDispatched(ctx, dbx, id)
	})
}

func (r *Runner) markFailed(ctx context.Context, id uuid.UUID, nextRun time.Time) error {
	return r.uow.WithDB(ctx, func(ctx context.Context, dbx db.DBTX) error {
		return r.notifications.MarkFailed(ctx, dbx, id, notificationMaxAttempts, nextRun)
	})
}

// backoffFor doubles the retry delay per attempt, capped at an hour.
func backoffFor(attempts int) time.Duration {
	d := time.Minute << attempts
	if d > time.Hour {
		return time.Hour
	}
	return d
}
