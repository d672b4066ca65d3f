package queries

import (
	"context"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrLoanViewNotFound = errs.New("loan not found")
	ErrLoanQueryFail    = errs.New("failed to query loans")
)

type LoanQueries interface {
	// GetByIDSystem skips ownership checks; callers enforce access.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*LoanView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*LoanView, error)
	ListActive(ctx context.Context) ([]*ActiveLoanView, error)
}

type LoanViewStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*LoanView, error)
	ListActive(ctx context.Context) ([]*ActiveLoanView, error)
}

type loanQueriesImpl struct {
	store LoanViewStore
}

func NewLoanQueries(store LoanViewStore) LoanQueries {
	return &loanQueriesImpl{store: store}
}

func (q *loanQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*LoanView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLoanViewNotFound
		}
		return nil, errs.Mark(err, ErrLoanQueryFail)
	}
	return view, nil
}

func (q *loanQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*LoanView, error) {
	views, err := q.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrLoanQueryFail)
	}
	return views, nil
}

func (q *loanQueriesImpl) ListActive(ctx context.Context) ([]*ActiveLoanView, error) {
	views, err := q.store.ListActive(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrLoanQueryFail)
	}
	return views, nil
}
