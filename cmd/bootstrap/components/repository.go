package components

import (
	"library-lending/internal/infra/readstore"
	repo_impl "library-lending/internal/infra/repository"
	sqlc "library-lending/internal/infra/sqlc/generated"
	"library-lending/internal/infra/uow"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewSQLQueries,
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserReader)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewBookReadStore,
			fx.As(new(queries.BookViewStore)),
		),
		fx.Annotate(
			readstore.NewLoanReadStore,
			fx.As(new(queries.LoanViewStore)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}
