package repository

import (
	"context"
	"time"

	"library-lending/internal/domain/loan"
	"library-lending/internal/infra"
	sqlc "library-lending/internal/infra/sqlc/generated"
	"library-lending/internal/pkg/pgconv"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type LoanQueries interface {
	CreateLoan(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateLoanParams) (uuid.UUID, error)
	GetLoanByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetLoanByIDRow, error)
	MarkLoanReturned(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkLoanReturnedParams) (int64, error)
}

type LoanRepository struct {
	queries LoanQueries
}

func NewLoanRepository(queries LoanQueries) *LoanRepository {
	return &LoanRepository{queries: queries}
}

func (r *LoanRepository) Create(ctx context.Context, tx sqlc.DBTX, l *loan.Loan) (uuid.UUID, error) {
	params := sqlc.CreateLoanParams{
		ID:         l.ID(),
		UserID:     l.UserID(),
		BookCopyID: l.BookCopyID(),
		LoanDate:   pgconv.TimeToPgtype(l.LoanDate()),
		DueDate:    pgconv.TimeToPgtype(l.DueDate()),
	}

	loanID, err := r.queries.CreateLoan(ctx, tx, params)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create loan", err)
	}
	return loanID, nil
}

func (r *LoanRepository) FindByID(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*shared.LoanSnapshot, error) {
	row, err := r.queries.GetLoanByID(ctx, tx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loan by ID", err)
	}

	return &shared.LoanSnapshot{
		ID:         row.ID,
		UserID:     row.UserID,
		BookCopyID: row.BookCopyID,
		LoanDate:   pgconv.TimeFromPgtype(row.LoanDate),
		DueDate:    pgconv.TimeFromPgtype(row.DueDate),
		ReturnDate: pgconv.TimePtrFromPgtype(row.ReturnDate),
	}, nil
}

func (r *LoanRepository) MarkReturned(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, returnedAt time.Time) error {
	affected, err := r.queries.MarkLoanReturned(ctx, tx, sqlc.MarkLoanReturnedParams{
		ID:         id,
		ReturnDate: pgconv.TimeToPgtype(returnedAt),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to mark loan returned", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("loan is already returned", nil, infra.KindConflict)
	}
	return nil
}
