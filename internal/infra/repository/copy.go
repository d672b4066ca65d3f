package repository

import (
	"context"

	"library-lending/internal/infra"
	sqlc "library-lending/internal/infra/sqlc/generated"
	"library-lending/internal/pkg/pgconv"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type CopyQueries interface {
	GetBookCopyByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.BookCopies, error)
	FindAvailableCopyForBook(ctx context.Context, db sqlc.DBTX, bookID uuid.UUID) (uuid.UUID, error)
	ClaimAvailableCopy(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (int64, error)
	ReleaseCopy(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (int64, error)
	CreateBookCopy(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateBookCopyParams) (uuid.UUID, error)
	SoftDeleteBookCopy(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (int64, error)
	SoftDeleteBookCopiesByBook(ctx context.Context, db sqlc.DBTX, bookID uuid.UUID) (int64, error)
}

type CopyRepository struct {
	queries CopyQueries
}

func NewCopyRepository(queries CopyQueries) *CopyRepository {
	return &CopyRepository{queries: queries}
}

func (r *CopyRepository) FindByID(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*shared.CopySnapshot, error) {
	row, err := r.queries.GetBookCopyByID(ctx, tx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("book copy not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book copy by ID", err)
	}

	return &shared.CopySnapshot{
		ID:      row.ID,
		BookID:  row.BookID,
		Status:  row.Status,
		Version: row.Version,
	}, nil
}

func (r *CopyRepository) FindAvailableForBook(ctx context.Context, tx sqlc.DBTX, bookID uuid.UUID) (uuid.UUID, error) {
	id, err := r.queries.FindAvailableCopyForBook(ctx, tx, bookID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("no available copy", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to find available copy", err)
	}
	return id, nil
}

func (r *CopyRepository) Claim(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error {
	affected, err := r.queries.ClaimAvailableCopy(ctx, tx, id)
	if err != nil {
		return infra.WrapRepoErr("failed to claim book copy", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("book copy is no longer available", nil, infra.KindConflict)
	}
	return nil
}

func (r *CopyRepository) Release(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error {
	affected, err := r.queries.ReleaseCopy(ctx, tx, id)
	if err != nil {
		return infra.WrapRepoErr("failed to release book copy", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("book copy is not loaned", nil, infra.KindConflict)
	}
	return nil
}

func (r *CopyRepository) Add(ctx context.Context, tx sqlc.DBTX, id, bookID uuid.UUID) (uuid.UUID, error) {
	copyID, err := r.queries.CreateBookCopy(ctx, tx, sqlc.CreateBookCopyParams{ID: id, BookID: bookID})
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create book copy", err)
	}
	return copyID, nil
}

// SoftDeleteByBook marks every remaining copy of a book deleted,
// loaned ones included. Zero affected rows just means the book had no
// live copies.
func (r *CopyRepository) SoftDeleteByBook(ctx context.Context, tx sqlc.DBTX, bookID uuid.UUID) error {
	if _, err := r.queries.SoftDeleteBookCopiesByBook(ctx, tx, bookID); err != nil {
		return infra.WrapRepoErr("failed to delete book copies", err)
	}
	return nil
}

func (r *CopyRepository) SoftDelete(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error {
	affected, err := r.queries.SoftDeleteBookCopy(ctx, tx, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete book copy", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("book copy is loaned or already deleted", nil, infra.KindConflict)
	}
	return nil
}
