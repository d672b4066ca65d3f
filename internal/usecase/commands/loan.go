package commands

import (
	"context"
	"log/slog"

	"library-lending/internal/domain/book"
	"library-lending/internal/domain/loan"
	reqdto "library-lending/internal/handler/dto/request"
	"library-lending/internal/infra"
	"library-lending/internal/infra/queue"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/queries"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration         = errs.New("loan duration out of policy bounds")
	ErrNoAvailableCopy         = errs.New("no available copy")
	ErrCopyConflict            = errs.New("copy was claimed concurrently")
	ErrLoanNotFound            = errs.New("loan not found")
	ErrNotLoanOwner            = errs.New("loan belongs to another user")
	ErrLoanAlreadyReturned     = errs.New("loan already returned")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type LoanCommands interface {
	Borrow(ctx context.Context, userID uuid.UUID, req reqdto.BorrowLoanRequest) (*queries.LoanView, error)
	Return(ctx context.Context, userID uuid.UUID, isAdmin bool, loanID uuid.UUID) (*queries.LoanView, error)
}

type loanUseCaseImpl struct {
	uow         shared.UnitOfWork
	loanQueries queries.LoanQueries
	enqueuer    queue.Enqueuer
	clock       clock.Clock
	cfg         config.LoanConfig
}

func NewLoanUseCase(
	uow shared.UnitOfWork,
	loanQueries queries.LoanQueries,
	enqueuer queue.Enqueuer,
	clock clock.Clock,
	cfg config.LoanConfig,
) LoanCommands {
	return &loanUseCaseImpl{
		uow:         uow,
		loanQueries: loanQueries,
		enqueuer:    enqueuer,
		clock:       clock,
		cfg:         cfg,
	}
}

// Borrow claims one available copy and records the loan in a single
// transaction. Losing the claim race surfaces as ErrCopyConflict; the
// caller decides whether to try again. The confirmation notification is
// enqueued only after the transaction commits and its failure never
// undoes the loan.
func (u *loanUseCaseImpl) Borrow(ctx context.Context, userID uuid.UUID, req reqdto.BorrowLoanRequest) (*queries.LoanView, error) {
	days := u.cfg.DefaultDurationDays
	if req.DurationDays != nil {
		days = *req.DurationDays
	}

	var loanID uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		copyID, err := u.resolveCopy(ctx, tx, req)
		if err != nil {
			return err
		}

		newLoan, err := loan.NewLoan(userID, copyID, u.clock.Now(), days, u.cfg.MaxDurationDays)
		if err != nil {
			return errs.Mark(err, ErrInvalidDuration)
		}

		if err := tx.Copies().Claim(ctx, tx.DB(), copyID); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrCopyConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		loanID, err = tx.Loans().Create(ctx, tx.DB(), newLoan)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := u.enqueuer.Enqueue(ctx, queue.Job{LoanID: loanID}); err != nil {
		slog.Warn("failed to enqueue loan confirmation",
			"loan_id", loanID,
			"error", err.Error())
	}

	view, err := u.loanQueries.GetByIDSystem(ctx, loanID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

// resolveCopy picks the copy to claim. The result is only a candidate;
// the guarded claim decides who actually gets it.
func (u *loanUseCaseImpl) resolveCopy(ctx context.Context, tx shared.Tx, req reqdto.BorrowLoanRequest) (uuid.UUID, error) {
	if req.CopyID == nil {
		copyID, err := tx.Copies().FindAvailableForBook(ctx, tx.DB(), req.BookID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return uuid.Nil, ErrNoAvailableCopy
			}
			return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return copyID, nil
	}

	snapshot, err := tx.Copies().FindByID(ctx, tx.DB(), *req.CopyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, ErrNoAvailableCopy
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if snapshot.BookID != req.BookID {
		return uuid.Nil, ErrNoAvailableCopy
	}
	if snapshot.Status != book.CopyStatusAvailable.String() {
		return uuid.Nil, ErrCopyConflict
	}
	return snapshot.ID, nil
}

// Return sets the return date and releases the copy in one transaction.
// Members may only return their own loans; admins may return any.
func (u *loanUseCaseImpl) Return(ctx context.Context, userID uuid.UUID, isAdmin bool, loanID uuid.UUID) (*queries.LoanView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snapshot, err := tx.Loans().FindByID(ctx, tx.DB(), loanID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrLoanNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !isAdmin && snapshot.UserID != userID {
			return ErrNotLoanOwner
		}
		if snapshot.ReturnDate != nil {
			return ErrLoanAlreadyReturned
		}

		if err := tx.Loans().MarkReturned(ctx, tx.DB(), loanID, u.clock.Now()); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrLoanAlreadyReturned
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Copies().Release(ctx, tx.DB(), snapshot.BookCopyID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := u.loanQueries.GetByIDSystem(ctx, loanID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}
