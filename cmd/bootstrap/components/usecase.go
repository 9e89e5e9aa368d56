package components

import (
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/usecase"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"

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
	func(cfg config.Config) config.ScheduleConfig { return cfg.Schedule },
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewCatalogQueries,
		queries.NewAvailabilityQueries,
		queries.NewBookingQueries,
		queries.NewGiftCardQueries,
		queries.NewLoyaltyQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewBookingCommands,
		commands.NewLoyaltyCommands,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
