package components

import (
	"context"
	"log/slog"

	"groomdesk/internal/chat/debounce"
	"groomdesk/internal/domain/scheduling"
	infrachat "groomdesk/internal/infra/chat"
	"groomdesk/internal/pkg/clock"
	"groomdesk/internal/pkg/config"
	"groomdesk/internal/usecase"
	"groomdesk/internal/usecase/commands"
	"groomdesk/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewAvailabilityQueries,
		queries.NewAppointmentQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewAuthCommands,
		NewChatCommands,
	),
)

func NewAvailabilityQueries(
	engine *scheduling.Engine,
	snapshots queries.SnapshotReader,
	services queries.ServiceItemReader,
	cfg config.Config,
) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(engine, snapshots, services, cfg.Scheduling.MaxSlotsPerQuery)
}

func NewChatCommands(lc fx.Lifecycle, cfg config.Config, booking commands.BookingCommands, clk clock.Clock, logger *slog.Logger) commands.ChatCommands {
	chat := commands.NewChatCommands(
		debounce.NewMemoryStore(),
		infrachat.NewOpenAIResponder(cfg.Chat),
		infrachat.NewGraphMessenger(cfg.Chat),
		booking,
		cfg.Chat.QuietPeriod(),
		clk,
		logger,
	)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			chat.Shutdown()
			return nil
		},
	})
	return chat
}
