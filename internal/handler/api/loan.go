package api

import (
	"errors"
	"net/http"

	"library-lending/internal/domain/user"
	reqdto "library-lending/internal/handler/dto/request"
	"library-lending/internal/handler/httperr"
	"library-lending/internal/handler/middleware"
	"library-lending/internal/usecase/commands"
	"library-lending/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoanHandler struct {
	loanUseCase commands.LoanCommands
	loanQueries queries.LoanQueries
}

func NewLoanHandler(loanUseCase commands.LoanCommands, loanQueries queries.LoanQueries) *LoanHandler {
	return &LoanHandler{
		loanUseCase: loanUseCase,
		loanQueries: loanQueries,
	}
}

// @Summary Borrow a book
// @Description Claim an available copy and create a loan
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BorrowLoanRequest true "Borrow request"
// @Success 201 {object} queries.LoanView
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /loans [post]
func (h *LoanHandler) Borrow(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	var req reqdto.BorrowLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.loanUseCase.Borrow(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidDuration):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Loan duration out of policy bounds", nil)
		case errors.Is(err, commands.ErrNoAvailableCopy):
			httperr.AbortWithError(c, http.StatusNotFound, err, "No available copy for this book", nil)
		case errors.Is(err, commands.ErrCopyConflict):
			// Retryable: another borrower claimed the copy first
			httperr.AbortWithError(c, http.StatusConflict, err, "Copy was claimed concurrently, please retry", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Return a loan
// @Description Mark a loan returned and release its copy
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} queries.LoanView
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /loans/{id}/return [post]
func (h *LoanHandler) Return(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid loan ID", nil)
		return
	}

	view, err := h.loanUseCase.Return(c.Request.Context(), userID, role == user.RoleAdmin, loanID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLoanNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Loan not found", nil)
		case errors.Is(err, commands.ErrNotLoanOwner):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Loan belongs to another user", nil)
		case errors.Is(err, commands.ErrLoanAlreadyReturned):
			httperr.AbortWithError(c, http.StatusConflict, err, "Loan is already returned", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary My loans
// @Description List the current user's loans, newest first
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.LoanView
// @Failure 401 {object} httperr.Response
// @Router /loans/my-loans [get]
func (h *LoanHandler) MyLoans(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	views, err := h.loanQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load loans", nil)
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Active loans
// @Description List all active loans, soonest due first (admin only)
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.ActiveLoanView
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /loans/active [get]
func (h *LoanHandler) ActiveLoans(c *gin.Context) {
	views, err := h.loanQueries.ListActive(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load loans", nil)
		return
	}

	c.JSON(http.StatusOK, views)
}
