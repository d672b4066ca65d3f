package commands

import (
	"context"

	"library-lending/internal/domain/book"
	reqdto "library-lending/internal/handler/dto/request"
	"library-lending/internal/infra"
	"library-lending/internal/infra/cache"
	sqlc "library-lending/internal/infra/sqlc/generated"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/pkg/pgconv"
	"library-lending/internal/usecase/queries"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound    = errs.New("book not found")
	ErrInvalidBookData = errs.New("invalid book data")
	ErrDuplicateISBN   = errs.New("isbn already registered")
	ErrCopyNotFound    = errs.New("book copy not found")
	ErrCopyInUse       = errs.New("book copy is currently loaned")
)

type CatalogCommands interface {
	CreateBook(ctx context.Context, req reqdto.CreateBookRequest) (*queries.BookView, error)
	UpdateBook(ctx context.Context, bookID uuid.UUID, req reqdto.UpdateBookRequest) (*queries.BookView, error)
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
	AddCopy(ctx context.Context, bookID uuid.UUID) (uuid.UUID, error)
	RemoveCopy(ctx context.Context, copyID uuid.UUID) error
}

type catalogUseCaseImpl struct {
	uow         shared.UnitOfWork
	cache       cache.Store
	bookQueries queries.BookQueries
}

func NewCatalogUseCase(uow shared.UnitOfWork, cacheStore cache.Store, bookQueries queries.BookQueries) CatalogCommands {
	return &catalogUseCaseImpl{
		uow:         uow,
		cache:       cacheStore,
		bookQueries: bookQueries,
	}
}

func (u *catalogUseCaseImpl) CreateBook(ctx context.Context, req reqdto.CreateBookRequest) (*queries.BookView, error) {
	entity, err := book.NewBook(req.Title, req.Author, req.ISBN, req.PublicationYear, req.Description, req.Category)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidBookData)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Books().Create(ctx, tx.DB(), sqlc.CreateBookParams{
			ID:              entity.ID(),
			Title:           entity.Title(),
			Author:          entity.Author(),
			Isbn:            entity.ISBN(),
			PublicationYear: pgconv.Int32PtrToPgtype(entity.PublicationYear()),
			Description:     pgconv.StringPtrToPgtype(entity.Description()),
			Category:        pgconv.StringPtrToPgtype(entity.Category()),
		})
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateISBN
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.bookQueries.GetByID(ctx, entity.ID())
}

// UpdateBook rewrites the catalog row and deletes the detail cache key in
// the same operation, so the next read observes the new state.
func (u *catalogUseCaseImpl) UpdateBook(ctx context.Context, bookID uuid.UUID, req reqdto.UpdateBookRequest) (*queries.BookView, error) {
	// Validation only; the entity's generated ID is discarded.
	entity, err := book.NewBook(req.Title, req.Author, req.ISBN, req.PublicationYear, req.Description, req.Category)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidBookData)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.Books().Update(ctx, tx.DB(), sqlc.UpdateBookParams{
			ID:              bookID,
			Title:           entity.Title(),
			Author:          entity.Author(),
			Isbn:            entity.ISBN(),
			PublicationYear: pgconv.Int32PtrToPgtype(entity.PublicationYear()),
			Description:     pgconv.StringPtrToPgtype(entity.Description()),
			Category:        pgconv.StringPtrToPgtype(entity.Category()),
		})
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookNotFound
			}
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateISBN
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.cache.Delete(ctx, cache.BookKey(bookID))

	return u.bookQueries.GetByID(ctx, bookID)
}

func (u *catalogUseCaseImpl) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Books().SoftDelete(ctx, tx.DB(), bookID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// A deleted book must not stay borrowable through its copies;
		// the cascade rides the same transaction.
		if err := tx.Copies().SoftDeleteByBook(ctx, tx.DB(), bookID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.cache.Delete(ctx, cache.BookKey(bookID))
	return nil
}

func (u *catalogUseCaseImpl) AddCopy(ctx context.Context, bookID uuid.UUID) (uuid.UUID, error) {
	var copyID uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Copies().Add(ctx, tx.DB(), uuid.New(), bookID)
		if err != nil {
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return ErrBookNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		copyID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	u.cache.Delete(ctx, cache.BookKey(bookID))
	return copyID, nil
}

func (u *catalogUseCaseImpl) RemoveCopy(ctx context.Context, copyID uuid.UUID) error {
	var bookID uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snapshot, err := tx.Copies().FindByID(ctx, tx.DB(), copyID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCopyNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		bookID = snapshot.BookID

		if err := tx.Copies().SoftDelete(ctx, tx.DB(), copyID); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrCopyInUse
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.cache.Delete(ctx, cache.BookKey(bookID))
	return nil
}
