package bootstrap

import (
	"groomdesk/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	SchedulingModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
	components.JobsModule,
)
