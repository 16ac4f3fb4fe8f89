package components

import (
	"context"
	"log/slog"

	"groomdesk/internal/infra/notify"
	"groomdesk/internal/infra/readstore"
	"groomdesk/internal/infra/writerepo"
	"groomdesk/internal/jobs"
	"groomdesk/internal/pkg/clock"
	"groomdesk/internal/pkg/config"
	"groomdesk/internal/usecase/shared"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		NewJobRunner,
	),
	fx.Invoke(startJobRunner),
)

func NewJobRunner(
	cfg config.Config,
	uow shared.UnitOfWork,
	appointments *writerepo.AppointmentRepository,
	due *readstore.NotificationReadStore,
	notifications *writerepo.NotificationRepository,
	clk clock.Clock,
	logger *slog.Logger,
) *jobs.Runner {
	dispatcher := notify.NewWebhookDispatcher(cfg.Jobs, logger)
	return jobs.NewRunner(cfg.Jobs, uow, appointments, due, notifications, dispatcher, clk, logger)
}

func startJobRunner(lc fx.Lifecycle, runner *jobs.Runner) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return runner.Start()
		},
		OnStop: func(_ context.Context) error {
			runner.Stop()
			return nil
		},
	})
}
