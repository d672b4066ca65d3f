package readstore

import (
	"context"

	"library-lending/internal/infra"
	sqlc "library-lending/internal/infra/sqlc/generated"
	"library-lending/internal/pkg/pgconv"
	"library-lending/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookViewQueries interface {
	GetBookByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetBookByIDRow, error)
	ListBooks(ctx context.Context, db sqlc.DBTX, arg sqlc.ListBooksParams) ([]sqlc.ListBooksRow, error)
	CountBooks(ctx context.Context, db sqlc.DBTX, arg sqlc.CountBooksParams) (int64, error)
}

type BookReadStore struct {
	queries BookViewQueries
	db      sqlc.DBTX
}

func NewBookReadStore(queries *sqlc.Queries, db sqlc.DBTX) *BookReadStore {
	return &BookReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	row, err := r.queries.GetBookByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book by ID", err)
	}

	return rowToBookView(row), nil
}

func (r *BookReadStore) List(ctx context.Context, query, category string, limit, offset int32) ([]*queries.BookView, error) {
	rows, err := r.queries.ListBooks(ctx, r.db, sqlc.ListBooksParams{
		Query:    query,
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list books", err)
	}

	result := make([]*queries.BookView, len(rows))
	for i, row := range rows {
		result[i] = rowToBookView(sqlc.GetBookByIDRow(row))
	}
	return result, nil
}

func (r *BookReadStore) Count(ctx context.Context, query, category string) (int64, error) {
	count, err := r.queries.CountBooks(ctx, r.db, sqlc.CountBooksParams{
		Query:    query,
		Category: category,
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count books", err)
	}
	return count, nil
}

func rowToBookView(row sqlc.GetBookByIDRow) *queries.BookView {
	return &queries.BookView{
		ID:              row.ID,
		Title:           row.Title,
		Author:          row.Author,
		ISBN:            row.Isbn,
		PublicationYear: pgconv.Int32PtrFromPgtype(row.PublicationYear),
		Description:     pgconv.StringPtrFromPgtype(row.Description),
		Category:        pgconv.StringPtrFromPgtype(row.Category),
		TotalCopies:     row.TotalCopies,
		AvailableCopies: row.AvailableCopies,
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:       pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
