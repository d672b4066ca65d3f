package repository

import (
	"context"

	"library-lending/internal/infra"
	sqlc "library-lending/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type BookWriteQueries interface {
	CreateBook(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateBookParams) (uuid.UUID, error)
	UpdateBook(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateBookParams) (int64, error)
	SoftDeleteBook(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (int64, error)
}

type BookRepository struct {
	queries BookWriteQueries
}

func NewBookRepository(queries BookWriteQueries) *BookRepository {
	return &BookRepository{queries: queries}
}

func (r *BookRepository) Create(ctx context.Context, tx sqlc.DBTX, params sqlc.CreateBookParams) (uuid.UUID, error) {
	bookID, err := r.queries.CreateBook(ctx, tx, params)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create book", err)
	}
	return bookID, nil
}

func (r *BookRepository) Update(ctx context.Context, tx sqlc.DBTX, params sqlc.UpdateBookParams) error {
	affected, err := r.queries.UpdateBook(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update book", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookRepository) SoftDelete(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error {
	affected, err := r.queries.SoftDeleteBook(ctx, tx, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete book", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}
	return nil
}
