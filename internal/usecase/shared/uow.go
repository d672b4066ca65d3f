package shared

import (
	"context"
	"time"

	"library-lending/internal/domain/loan"
	sqlc "library-lending/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations. Serialization
	// failures and deadlocks are retried; domain conflicts (guarded
	// updates matching zero rows) are not.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
}

type Tx interface {
	Copies() CopyRepository
	Loans() LoanRepository
	Books() BookRepository
	Users() UserRepository
	DB() sqlc.DBTX
}

// Minimal snapshots for command-side reads inside a transaction
type CopySnapshot struct {
	ID      uuid.UUID
	BookID  uuid.UUID
	Status  string
	Version int32
}

type LoanSnapshot struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	BookCopyID uuid.UUID
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

type CopyRepository interface {
	FindByID(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*CopySnapshot, error)
	// FindAvailableForBook returns a candidate copy; the claim below is
	// the only authority on whether it is actually taken.
	FindAvailableForBook(ctx context.Context, tx sqlc.DBTX, bookID uuid.UUID) (uuid.UUID, error)
	// Claim performs the guarded available→loaned transition; a copy
	// that is no longer available surfaces as a CONFLICT kind.
	Claim(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error
	Release(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error
	Add(ctx context.Context, tx sqlc.DBTX, id, bookID uuid.UUID) (uuid.UUID, error)
	SoftDelete(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error
	// SoftDeleteByBook cascades a book deletion to its copies so a
	// deleted book can never be borrowed again. Copies out on loan are
	// marked too; Release still lets their returns complete.
	SoftDeleteByBook(ctx context.Context, tx sqlc.DBTX, bookID uuid.UUID) error
}

type LoanRepository interface {
	Create(ctx context.Context, tx sqlc.DBTX, l *loan.Loan) (uuid.UUID, error)
	FindByID(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*LoanSnapshot, error)
	MarkReturned(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, returnedAt time.Time) error
}

type BookRepository interface {
	Create(ctx context.Context, tx sqlc.DBTX, params sqlc.CreateBookParams) (uuid.UUID, error)
	Update(ctx context.Context, tx sqlc.DBTX, params sqlc.UpdateBookParams) error
	SoftDelete(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, tx sqlc.DBTX, params sqlc.CreateUserParams) (uuid.UUID, error)
}
