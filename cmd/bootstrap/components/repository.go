package components

import (
	"groomdesk/internal/infra/db"
	"groomdesk/internal/infra/readstore"
	"groomdesk/internal/infra/uow"
	"groomdesk/internal/infra/writerepo"
	"groomdesk/internal/usecase/commands"
	"groomdesk/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewSchedulingReadStore,
			fx.As(new(queries.SnapshotReader)),
		),
		fx.Annotate(
			readstore.NewServiceItemReadStore,
			fx.As(new(queries.ServiceItemReader)),
		),
		fx.Annotate(
			readstore.NewAppointmentReadStore,
			fx.As(new(queries.AppointmentReader)),
		),
		fx.Annotate(
			readstore.NewStaffReadStore,
			fx.As(new(commands.StaffAccountReader)),
		),
		readstore.NewNotificationReadStore,
		writerepo.NewAppointmentRepository,
		writerepo.NewNotificationRepository,
		func(r *writerepo.AppointmentRepository) commands.AppointmentWriter { return r },
		func(r *writerepo.NotificationRepository) commands.NotificationWriter { return r },
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
