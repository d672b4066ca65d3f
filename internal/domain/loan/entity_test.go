//go:build unit

package loan_test

import (
	"testing"
	"time"

	"library-lending/internal/domain/loan"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoan(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	copyID := uuid.New()

	tests := []struct {
		name         string
		durationDays int
		maxDays      int
		wantErr      error
		wantDue      time.Time
	}{
		{
			name:         "default duration",
			durationDays: 14,
			maxDays:      14,
			wantDue:      now.Add(14 * 24 * time.Hour),
		},
		{
			name:         "one day",
			durationDays: 1,
			maxDays:      14,
			wantDue:      now.Add(24 * time.Hour),
		},
		{
			name:         "zero duration rejected",
			durationDays: 0,
			maxDays:      14,
			wantErr:      loan.ErrInvalidDuration,
		},
		{
			name:         "negative duration rejected",
			durationDays: -3,
			maxDays:      14,
			wantErr:      loan.ErrInvalidDuration,
		},
		{
			name:         "above policy maximum rejected",
			durationDays: 15,
			maxDays:      14,
			wantErr:      loan.ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := loan.NewLoan(userID, copyID, now, tt.durationDays, tt.maxDays)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, l.UserID())
			assert.Equal(t, copyID, l.BookCopyID())
			assert.Equal(t, now, l.LoanDate())
			assert.Equal(t, tt.wantDue, l.DueDate())
			assert.True(t, l.IsActive())
			assert.Nil(t, l.ReturnDate())
		})
	}
}

func TestLoanReturn(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("marks the loan returned once", func(t *testing.T) {
		l, err := loan.NewLoan(uuid.New(), uuid.New(), now, 7, 14)
		require.NoError(t, err)

		returnedAt := now.Add(48 * time.Hour)
		require.NoError(t, l.Return(returnedAt))
		assert.False(t, l.IsActive())
		require.NotNil(t, l.ReturnDate())
		assert.Equal(t, returnedAt, *l.ReturnDate())
	})

	t.Run("second return is rejected", func(t *testing.T) {
		l, err := loan.NewLoan(uuid.New(), uuid.New(), now, 7, 14)
		require.NoError(t, err)

		require.NoError(t, l.Return(now.Add(time.Hour)))
		assert.ErrorIs(t, l.Return(now.Add(2*time.Hour)), loan.ErrAlreadyReturned)
	})
}

func TestLoanIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l, err := loan.NewLoan(uuid.New(), uuid.New(), now, 7, 14)
	require.NoError(t, err)

	assert.False(t, l.IsOverdue(now))
	assert.False(t, l.IsOverdue(l.DueDate()))
	assert.True(t, l.IsOverdue(l.DueDate().Add(time.Minute)))

	require.NoError(t, l.Return(l.DueDate().Add(time.Hour)))
	assert.False(t, l.IsOverdue(l.DueDate().Add(48*time.Hour)))
}
