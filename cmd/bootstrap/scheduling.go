package bootstrap

import (
	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/pkg/config"

	"go.uber.org/fx"
)

var SchedulingModule = fx.Module("scheduling",
	fx.Provide(
		NewSlotEngine,
		NewOverlapGuard,
	),
)

func NewSlotEngine(cfg config.Config) *scheduling.Engine {
	statuses := scheduling.StatusesFromStrings(cfg.Scheduling.NormalizedStatuses())
	return scheduling.NewEngine(
		scheduling.WithStepMinutes(cfg.Scheduling.SlotStepMinutes),
		scheduling.WithOccupyingStatuses(statuses),
	)
}

func NewOverlapGuard(cfg config.Config) *scheduling.Guard {
	statuses := scheduling.StatusesFromStrings(cfg.Scheduling.NormalizedStatuses())
	return scheduling.NewGuard(statuses...)
}
