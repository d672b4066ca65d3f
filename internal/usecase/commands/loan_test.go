//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"library-lending/internal/domain/book"
	"library-lending/internal/domain/loan"
	reqdto "library-lending/internal/handler/dto/request"
	"library-lending/internal/infra"
	"library-lending/internal/infra/queue"
	sqlc "library-lending/internal/infra/sqlc/generated"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// In-memory stand-ins. The copy store performs the guarded status
// transition under a single mutex, which is what the conditional UPDATE
// gives the real repository: exactly one concurrent claimer can move a
// copy from available to loaned.
// =============================================================================

type loanState struct {
	mu     sync.Mutex
	copies map[uuid.UUID]*shared.CopySnapshot
	// deletedCopies marks copies soft-deleted while still on loan; they
	// stay in the copy table so returns complete, but selection and
	// counts skip them.
	deletedCopies map[uuid.UUID]bool
	loans         map[uuid.UUID]*shared.LoanSnapshot
	books         map[uuid.UUID]*queries.BookView
}

func newLoanState() *loanState {
	return &loanState{
		copies:        make(map[uuid.UUID]*shared.CopySnapshot),
		deletedCopies: make(map[uuid.UUID]bool),
		loans:         make(map[uuid.UUID]*shared.LoanSnapshot),
		books:         make(map[uuid.UUID]*queries.BookView),
	}
}

func (s *loanState) addBook(title string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.books[id] = &queries.BookView{
		ID:     id,
		Title:  title,
		Author: "Test Author",
		ISBN:   "9780000000000",
	}
	return id
}

func (s *loanState) addCopy(bookID uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.copies[id] = &shared.CopySnapshot{
		ID:      id,
		BookID:  bookID,
		Status:  book.CopyStatusAvailable.String(),
		Version: 1,
	}
	return id
}

func (s *loanState) copySnapshot(id uuid.UUID) shared.CopySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.copies[id]
}

func (s *loanState) loanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loans)
}

type fakeUoW struct {
	state *loanState
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{state: u.state})
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeTx struct {
	state *loanState
}

func (t *fakeTx) Copies() shared.CopyRepository { return &fakeCopyRepo{state: t.state} }
func (t *fakeTx) Loans() shared.LoanRepository  { return &fakeLoanRepo{state: t.state} }
func (t *fakeTx) Books() shared.BookRepository  { return &fakeBookRepo{state: t.state} }
func (t *fakeTx) Users() shared.UserRepository  { return nil }
func (t *fakeTx) DB() sqlc.DBTX                 { return nil }

type fakeCopyRepo struct {
	state *loanState
}

func (r *fakeCopyRepo) FindByID(_ context.Context, _ sqlc.DBTX, id uuid.UUID) (*shared.CopySnapshot, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	c, ok := r.state.copies[id]
	if !ok || r.state.deletedCopies[id] {
		return nil, infra.WrapRepoErr("book copy not found", nil, infra.KindNotFound)
	}
	snapshot := *c
	return &snapshot, nil
}

func (r *fakeCopyRepo) FindAvailableForBook(_ context.Context, _ sqlc.DBTX, bookID uuid.UUID) (uuid.UUID, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, c := range r.state.copies {
		if c.BookID == bookID && c.Status == book.CopyStatusAvailable.String() && !r.state.deletedCopies[c.ID] {
			return c.ID, nil
		}
	}
	return uuid.Nil, infra.WrapRepoErr("no available copy", nil, infra.KindNotFound)
}

func (r *fakeCopyRepo) Claim(_ context.Context, _ sqlc.DBTX, id uuid.UUID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	c, ok := r.state.copies[id]
	if !ok || r.state.deletedCopies[id] || c.Status != book.CopyStatusAvailable.String() {
		return infra.WrapRepoErr("book copy is no longer available", nil, infra.KindConflict)
	}
	c.Status = book.CopyStatusLoaned.String()
	c.Version++
	return nil
}

func (r *fakeCopyRepo) Release(_ context.Context, _ sqlc.DBTX, id uuid.UUID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	c, ok := r.state.copies[id]
	if !ok || c.Status != book.CopyStatusLoaned.String() {
		return infra.WrapRepoErr("book copy is not loaned", nil, infra.KindConflict)
	}
	c.Status = book.CopyStatusAvailable.String()
	c.Version++
	return nil
}

func (r *fakeCopyRepo) Add(_ context.Context, _ sqlc.DBTX, id, bookID uuid.UUID) (uuid.UUID, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.books[bookID]; !ok {
		return uuid.Nil, infra.WrapRepoErr("book does not exist", nil, infra.KindForeignKeyViolated)
	}
	r.state.copies[id] = &shared.CopySnapshot{
		ID:      id,
		BookID:  bookID,
		Status:  book.CopyStatusAvailable.String(),
		Version: 1,
	}
	return id, nil
}

func (r *fakeCopyRepo) SoftDelete(_ context.Context, _ sqlc.DBTX, id uuid.UUID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	c, ok := r.state.copies[id]
	if !ok || c.Status == book.CopyStatusLoaned.String() {
		return infra.WrapRepoErr("book copy is loaned or already deleted", nil, infra.KindConflict)
	}
	delete(r.state.copies, id)
	return nil
}

func (r *fakeCopyRepo) SoftDeleteByBook(_ context.Context, _ sqlc.DBTX, bookID uuid.UUID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for id, c := range r.state.copies {
		if c.BookID != bookID {
			continue
		}
		if c.Status == book.CopyStatusLoaned.String() {
			r.state.deletedCopies[id] = true
			continue
		}
		delete(r.state.copies, id)
	}
	return nil
}

type fakeLoanRepo struct {
	state *loanState
}

func (r *fakeLoanRepo) Create(_ context.Context, _ sqlc.DBTX, l *loan.Loan) (uuid.UUID, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.loans[l.ID()] = &shared.LoanSnapshot{
		ID:         l.ID(),
		UserID:     l.UserID(),
		BookCopyID: l.BookCopyID(),
		LoanDate:   l.LoanDate(),
		DueDate:    l.DueDate(),
	}
	return l.ID(), nil
}

func (r *fakeLoanRepo) FindByID(_ context.Context, _ sqlc.DBTX, id uuid.UUID) (*shared.LoanSnapshot, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	l, ok := r.state.loans[id]
	if !ok {
		return nil, infra.WrapRepoErr("loan not found", nil, infra.KindNotFound)
	}
	snapshot := *l
	return &snapshot, nil
}

func (r *fakeLoanRepo) MarkReturned(_ context.Context, _ sqlc.DBTX, id uuid.UUID, returnedAt time.Time) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	l, ok := r.state.loans[id]
	if !ok {
		return infra.WrapRepoErr("loan not found", nil, infra.KindNotFound)
	}
	if l.ReturnDate != nil {
		return infra.WrapRepoErr("loan is already returned", nil, infra.KindConflict)
	}
	l.ReturnDate = &returnedAt
	return nil
}

type fakeLoanViews struct {
	state *loanState
}

func (v *fakeLoanViews) FindByID(_ context.Context, id uuid.UUID) (*queries.LoanView, error) {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	l, ok := v.state.loans[id]
	if !ok {
		return nil, infra.WrapRepoErr("loan not found", nil, infra.KindNotFound)
	}
	c := v.state.copies[l.BookCopyID]
	title := ""
	if b, ok := v.state.books[c.BookID]; ok {
		title = b.Title
	}
	return &queries.LoanView{
		ID:         l.ID,
		UserID:     l.UserID,
		BookCopyID: l.BookCopyID,
		BookID:     c.BookID,
		BookTitle:  title,
		LoanDate:   l.LoanDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
	}, nil
}

func (v *fakeLoanViews) ListByUser(_ context.Context, userID uuid.UUID) ([]*queries.LoanView, error) {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	var views []*queries.LoanView
	for id := range v.state.loans {
		if v.state.loans[id].UserID == userID {
			l := v.state.loans[id]
			views = append(views, &queries.LoanView{ID: l.ID, UserID: l.UserID, BookCopyID: l.BookCopyID})
		}
	}
	return views, nil
}

func (v *fakeLoanViews) ListActive(_ context.Context) ([]*queries.ActiveLoanView, error) {
	return nil, nil
}

type loanFixture struct {
	state *loanState
	queue *queue.MemoryQueue
	clock *clock.MockClock
	uc    commands.LoanCommands
}

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newLoanFixture(t *testing.T) *loanFixture {
	t.Helper()

	state := newLoanState()
	memQueue := queue.NewMemoryQueue(128)
	mockClock := clock.NewMockClock(testBase)
	loanQueries := queries.NewLoanQueries(&fakeLoanViews{state: state})

	uc := commands.NewLoanUseCase(
		&fakeUoW{state: state},
		loanQueries,
		memQueue,
		mockClock,
		config.NewTestConfig().Loan,
	)

	return &loanFixture{state: state, queue: memQueue, clock: mockClock, uc: uc}
}

func intPtr(v int) *int { return &v }

// =============================================================================
// Borrow
// =============================================================================

func TestLoanUseCase_Borrow(t *testing.T) {
	ctx := context.Background()

	t.Run("success: claims a copy and records the loan", func(t *testing.T) {
		f := newLoanFixture(t)
		bookID := f.state.addBook("Dune")
		copyID := f.state.addCopy(bookID)
		userID := uuid.New()

		view, err := f.uc.Borrow(ctx, userID, reqdto.BorrowLoanRequest{BookID: bookID})
		require.NoError(t, err)

		assert.Equal(t, userID, view.UserID)
		assert.Equal(t, bookID, view.BookID)
		assert.Equal(t, copyID, view.BookCopyID)
		assert.Equal(t, "Dune", view.BookTitle)
		assert.Equal(t, testBase, view.LoanDate)
		assert.Equal(t, testBase.Add(14*24*time.Hour), view.DueDate)
		assert.Nil(t, view.ReturnDate)

		c := f.state.copySnapshot(copyID)
		assert.Equal(t, book.CopyStatusLoaned.String(), c.Status)
		assert.Equal(t, int32(2), c.Version)
		assert.Equal(t, 1, f.queue.Len())
	})

	t.Run("success: explicit duration inside the policy bound", func(t *testing.T) {
		f := newLoanFixture(t)
		bookID := f.state.addBook("Dune")
		f.state.addCopy(bookID)

		view, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{
			BookID:       bookID,
			DurationDays: intPtr(7),
		})
		require.NoError(t, err)
		assert.Equal(t, testBase.Add(7*24*time.Hour), view.DueDate)
	})

	t.Run("error: duration outside the policy bound", func(t *testing.T) {
		for _, days := range []int{0, -3, 15} {
			f := newLoanFixture(t)
			bookID := f.state.addBook("Dune")
			copyID := f.state.addCopy(bookID)

			_, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{
				BookID:       bookID,
				DurationDays: intPtr(days),
			})
			assert.ErrorIs(t, err, commands.ErrInvalidDuration)

			c := f.state.copySnapshot(copyID)
			assert.Equal(t, book.CopyStatusAvailable.String(), c.Status)
			assert.Equal(t, 0, f.queue.Len())
		}
	})

	t.Run("error: book has no copies at all", func(t *testing.T) {
		f := newLoanFixture(t)
		bookID := f.state.addBook("Dune")

		_, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{BookID: bookID})
		assert.ErrorIs(t, err, commands.ErrNoAvailableCopy)
	})

	t.Run("error: every copy already loaned", func(t *testing.T) {
		f := newLoanFixture(t)
		bookID := f.state.addBook("Dune")
		f.state.addCopy(bookID)

		_, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{BookID: bookID})
		require.NoError(t, err)

		_, err = f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{BookID: bookID})
		assert.ErrorIs(t, err, commands.ErrNoAvailableCopy)
	})

	t.Run("enqueue failure does not undo the loan", func(t *testing.T) {
		f := newLoanFixture(t)
		f.queue.FailEnqueues = true
		bookID := f.state.addBook("Dune")
		copyID := f.state.addCopy(bookID)

		view, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{BookID: bookID})
		require.NoError(t, err)
		assert.Equal(t, copyID, view.BookCopyID)
		assert.Equal(t, book.CopyStatusLoaned.String(), f.state.copySnapshot(copyID).Status)
		assert.Equal(t, 1, f.state.loanCount())
		assert.Equal(t, 0, f.queue.Len())
	})
}

func TestLoanUseCase_BorrowExplicitCopy(t *testing.T) {
	ctx := context.Background()

	t.Run("success: pins the requested copy", func(t *testing.T) {
		f := newLoanFixture(t)
		bookID := f.state.addBook("Dune")
		f.state.addCopy(bookID)
		target := f.state.addCopy(bookID)

		view, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{
			BookID: bookID,
			CopyID: &target,
		})
		require.NoError(t, err)
		assert.Equal(t, target, view.BookCopyID)
	})

	t.Run("error: copy does not exist", func(t *testing.T) {
		f := newLoanFixture(t)
		bookID := f.state.addBook("Dune")
		f.state.addCopy(bookID)
		unknown := uuid.New()

		_, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{
			BookID: bookID,
			CopyID: &unknown,
		})
		assert.ErrorIs(t, err, commands.ErrNoAvailableCopy)
	})

	t.Run("error: copy belongs to another book", func(t *testing.T) {
		f := newLoanFixture(t)
		bookID := f.state.addBook("Dune")
		otherBookID := f.state.addBook("Neuromancer")
		otherCopy := f.state.addCopy(otherBookID)

		_, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{
			BookID: bookID,
			CopyID: &otherCopy,
		})
		assert.ErrorIs(t, err, commands.ErrNoAvailableCopy)
	})

	t.Run("error: copy is already loaned", func(t *testing.T) {
		f := newLoanFixture(t)
		bookID := f.state.addBook("Dune")
		copyID := f.state.addCopy(bookID)

		_, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{BookID: bookID})
		require.NoError(t, err)

		_, err = f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{
			BookID: bookID,
			CopyID: &copyID,
		})
		assert.ErrorIs(t, err, commands.ErrCopyConflict)
	})
}

// =============================================================================
// Concurrency
// =============================================================================

func TestLoanUseCase_Borrow_MutualExclusion(t *testing.T) {
	ctx := context.Background()
	f := newLoanFixture(t)
	bookID := f.state.addBook("Dune")
	copyID := f.state.addCopy(bookID)

	const racers = 8
	results := make(chan error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{
				BookID: bookID,
				CopyID: &copyID,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			assert.ErrorIs(t, err, commands.ErrCopyConflict)
			conflicts++
		}
	}

	assert.Equal(t, 1, wins, "exactly one racer may claim the copy")
	assert.Equal(t, racers-1, conflicts)
	assert.Equal(t, 1, f.state.loanCount())

	c := f.state.copySnapshot(copyID)
	assert.Equal(t, book.CopyStatusLoaned.String(), c.Status)
	assert.Equal(t, int32(2), c.Version, "the guarded transition ran once")
	assert.Equal(t, 1, f.queue.Len())
}

func TestLoanUseCase_Borrow_ManyBorrowersFewCopies(t *testing.T) {
	ctx := context.Background()
	f := newLoanFixture(t)
	bookID := f.state.addBook("Dune")

	const copies = 3
	const borrowers = 50
	for i := 0; i < copies; i++ {
		f.state.addCopy(bookID)
	}

	type outcome struct {
		view *queries.LoanView
		err  error
	}
	results := make(chan outcome, borrowers)

	var wg sync.WaitGroup
	for i := 0; i < borrowers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Losing the claim race is a retryable condition for the
			// caller, so retry like a client would until the book is
			// definitively out of copies.
			for {
				view, err := f.uc.Borrow(ctx, uuid.New(), reqdto.BorrowLoanRequest{BookID: bookID})
				if errors.Is(err, commands.ErrCopyConflict) {
					continue
				}
				results <- outcome{view: view, err: err}
				return
			}
		}()
	}
	wg.Wait()
	close(results)

	var wins, exhausted int
	claimed := make(map[uuid.UUID]bool)
	for r := range results {
		if r.err == nil {
			wins++
			assert.False(t, claimed[r.view.BookCopyID], "copy loaned twice: %s", r.view.BookCopyID)
			claimed[r.view.BookCopyID] = true
			continue
		}
		assert.ErrorIs(t, r.err, commands.ErrNoAvailableCopy)
		exhausted++
	}

	assert.Equal(t, copies, wins, "every copy is loaned exactly once")
	assert.Equal(t, borrowers-copies, exhausted)
	assert.Equal(t, copies, f.state.loanCount())
	assert.Equal(t, copies, f.queue.Len())
}

// =============================================================================
// Return
// =============================================================================

func TestLoanUseCase_Return(t *testing.T) {
	ctx := context.Background()

	borrow := func(t *testing.T, f *loanFixture, userID uuid.UUID) (uuid.UUID, uuid.UUID) {
		t.Helper()
		bookID := f.state.addBook("Dune")
		copyID := f.state.addCopy(bookID)
		view, err := f.uc.Borrow(ctx, userID, reqdto.BorrowLoanRequest{BookID: bookID})
		require.NoError(t, err)
		return view.ID, copyID
	}

	t.Run("success: owner returns the loan and the copy frees up", func(t *testing.T) {
		f := newLoanFixture(t)
		userID := uuid.New()
		loanID, copyID := borrow(t, f, userID)

		f.clock.Add(48 * time.Hour)
		view, err := f.uc.Return(ctx, userID, false, loanID)
		require.NoError(t, err)

		require.NotNil(t, view.ReturnDate)
		assert.Equal(t, testBase.Add(48*time.Hour), *view.ReturnDate)

		c := f.state.copySnapshot(copyID)
		assert.Equal(t, book.CopyStatusAvailable.String(), c.Status)
		assert.Equal(t, int32(3), c.Version)
	})

	t.Run("success: admin returns another member's loan", func(t *testing.T) {
		f := newLoanFixture(t)
		loanID, _ := borrow(t, f, uuid.New())

		_, err := f.uc.Return(ctx, uuid.New(), true, loanID)
		assert.NoError(t, err)
	})

	t.Run("error: member cannot return another member's loan", func(t *testing.T) {
		f := newLoanFixture(t)
		loanID, copyID := borrow(t, f, uuid.New())

		_, err := f.uc.Return(ctx, uuid.New(), false, loanID)
		assert.ErrorIs(t, err, commands.ErrNotLoanOwner)
		assert.Equal(t, book.CopyStatusLoaned.String(), f.state.copySnapshot(copyID).Status)
	})

	t.Run("error: second return is rejected", func(t *testing.T) {
		f := newLoanFixture(t)
		userID := uuid.New()
		loanID, _ := borrow(t, f, userID)

		_, err := f.uc.Return(ctx, userID, false, loanID)
		require.NoError(t, err)

		_, err = f.uc.Return(ctx, userID, false, loanID)
		assert.ErrorIs(t, err, commands.ErrLoanAlreadyReturned)
	})

	t.Run("error: loan does not exist", func(t *testing.T) {
		f := newLoanFixture(t)
		_, err := f.uc.Return(ctx, uuid.New(), false, uuid.New())
		assert.ErrorIs(t, err, commands.ErrLoanNotFound)
	})
}

func TestLoanUseCase_BorrowReturnBorrow(t *testing.T) {
	ctx := context.Background()
	f := newLoanFixture(t)
	bookID := f.state.addBook("Dune")
	copyID := f.state.addCopy(bookID)

	first := uuid.New()
	view, err := f.uc.Borrow(ctx, first, reqdto.BorrowLoanRequest{BookID: bookID})
	require.NoError(t, err)

	_, err = f.uc.Return(ctx, first, false, view.ID)
	require.NoError(t, err)

	second := uuid.New()
	view, err = f.uc.Borrow(ctx, second, reqdto.BorrowLoanRequest{BookID: bookID})
	require.NoError(t, err)
	assert.Equal(t, second, view.UserID)
	assert.Equal(t, copyID, view.BookCopyID)

	c := f.state.copySnapshot(copyID)
	assert.Equal(t, book.CopyStatusLoaned.String(), c.Status)
	assert.Equal(t, int32(4), c.Version)
	assert.Equal(t, 2, f.state.loanCount())
	assert.Equal(t, 2, f.queue.Len())
}
