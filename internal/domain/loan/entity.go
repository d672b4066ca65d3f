package loan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("loan duration out of policy bounds")
	ErrAlreadyReturned = errors.New("loan is already returned")
)

// Loan is the append-only record of one borrowing event. It is created
// in the same transaction as the copy's available→loaned transition and
// only ever mutated by the return flow setting returnDate.
type Loan struct {
	id         uuid.UUID
	userID     uuid.UUID
	bookCopyID uuid.UUID
	loanDate   time.Time
	dueDate    time.Time
	returnDate *time.Time
}

// NewLoan validates the requested duration against the policy bound and
// fixes loan/due dates from the supplied clock reading.
func NewLoan(userID, bookCopyID uuid.UUID, now time.Time, durationDays, maxDurationDays int) (*Loan, error) {
	if durationDays <= 0 || durationDays > maxDurationDays {
		return nil, ErrInvalidDuration
	}

	return &Loan{
		id:         uuid.New(),
		userID:     userID,
		bookCopyID: bookCopyID,
		loanDate:   now,
		dueDate:    now.Add(time.Duration(durationDays) * 24 * time.Hour),
	}, nil
}

func Reconstruct(id, userID, bookCopyID uuid.UUID, loanDate, dueDate time.Time, returnDate *time.Time) *Loan {
	return &Loan{
		id:         id,
		userID:     userID,
		bookCopyID: bookCopyID,
		loanDate:   loanDate,
		dueDate:    dueDate,
		returnDate: returnDate,
	}
}

func (l *Loan) Return(now time.Time) error {
	if l.returnDate != nil {
		return ErrAlreadyReturned
	}
	l.returnDate = &now
	return nil
}

func (l *Loan) IsActive() bool {
	return l.returnDate == nil
}

func (l *Loan) IsOverdue(now time.Time) bool {
	return l.returnDate == nil && now.After(l.dueDate)
}

func (l *Loan) ID() uuid.UUID          { return l.id }
func (l *Loan) UserID() uuid.UUID      { return l.userID }
func (l *Loan) BookCopyID() uuid.UUID  { return l.bookCopyID }
func (l *Loan) LoanDate() time.Time    { return l.loanDate }
func (l *Loan) DueDate() time.Time     { return l.dueDate }
func (l *Loan) ReturnDate() *time.Time { return l.returnDate }
