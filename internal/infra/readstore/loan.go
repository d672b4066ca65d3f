package readstore

import (
	"context"

	"library-lending/internal/infra"
	sqlc "library-lending/internal/infra/sqlc/generated"
	"library-lending/internal/pkg/pgconv"
	"library-lending/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoanViewQueries interface {
	GetLoanByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetLoanByIDRow, error)
	ListLoansByUser(ctx context.Context, db sqlc.DBTX, userID uuid.UUID) ([]sqlc.ListLoansByUserRow, error)
	ListActiveLoans(ctx context.Context, db sqlc.DBTX) ([]sqlc.ListActiveLoansRow, error)
}

type LoanReadStore struct {
	queries LoanViewQueries
	db      sqlc.DBTX
}

func NewLoanReadStore(queries *sqlc.Queries, db sqlc.DBTX) *LoanReadStore {
	return &LoanReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *LoanReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.LoanView, error) {
	row, err := r.queries.GetLoanByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loan by ID", err)
	}

	return &queries.LoanView{
		ID:         row.ID,
		UserID:     row.UserID,
		BookCopyID: row.BookCopyID,
		BookID:     row.BookID,
		BookTitle:  row.BookTitle,
		LoanDate:   pgconv.TimeFromPgtype(row.LoanDate),
		DueDate:    pgconv.TimeFromPgtype(row.DueDate),
		ReturnDate: pgconv.TimePtrFromPgtype(row.ReturnDate),
	}, nil
}

func (r *LoanReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.LoanView, error) {
	rows, err := r.queries.ListLoansByUser(ctx, r.db, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loans by user", err)
	}

	result := make([]*queries.LoanView, len(rows))
	for i, row := range rows {
		result[i] = &queries.LoanView{
			ID:         row.ID,
			UserID:     row.UserID,
			BookCopyID: row.BookCopyID,
			BookID:     row.BookID,
			BookTitle:  row.BookTitle,
			LoanDate:   pgconv.TimeFromPgtype(row.LoanDate),
			DueDate:    pgconv.TimeFromPgtype(row.DueDate),
			ReturnDate: pgconv.TimePtrFromPgtype(row.ReturnDate),
		}
	}
	return result, nil
}

func (r *LoanReadStore) ListActive(ctx context.Context) ([]*queries.ActiveLoanView, error) {
	rows, err := r.queries.ListActiveLoans(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active loans", err)
	}

	result := make([]*queries.ActiveLoanView, len(rows))
	for i, row := range rows {
		result[i] = &queries.ActiveLoanView{
			LoanView: queries.LoanView{
				ID:         row.ID,
				UserID:     row.UserID,
				BookCopyID: row.BookCopyID,
				BookID:     row.BookID,
				BookTitle:  row.BookTitle,
				LoanDate:   pgconv.TimeFromPgtype(row.LoanDate),
				DueDate:    pgconv.TimeFromPgtype(row.DueDate),
				ReturnDate: pgconv.TimePtrFromPgtype(row.ReturnDate),
			},
			UserEmail: row.UserEmail,
		}
	}
	return result, nil
}
