package components

import (
	"library-lending/internal/infra/cache"
	"library-lending/internal/infra/queue"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/usecase"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"
	"library-lending/internal/usecase/shared"

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
		func(store queries.BookViewStore, cacheStore cache.Store, cfg config.Config) queries.BookQueries {
			return queries.NewBookQueries(store, cacheStore, cfg.Cache.TTL)
		},
		queries.NewLoanQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(
			uow shared.UnitOfWork,
			loanQueries queries.LoanQueries,
			enqueuer queue.Enqueuer,
			clock clock.Clock,
			cfg config.Config,
		) commands.LoanCommands {
			return commands.NewLoanUseCase(uow, loanQueries, enqueuer, clock, cfg.Loan)
		},
		commands.NewCatalogUseCase,
		commands.NewAuthUseCase,
	),
)
