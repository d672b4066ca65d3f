package request

import "github.com/google/uuid"

type BorrowLoanRequest struct {
	BookID uuid.UUID `json:"book_id" binding:"required"`
	// CopyID pins the borrow to one specific copy; when omitted the
	// server picks any available copy of the book.
	CopyID       *uuid.UUID `json:"copy_id"`
	DurationDays *int       `json:"loan_duration_days" binding:"omitempty,min=1"`
}
