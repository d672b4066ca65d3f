package api

import (
	"errors"
	"net/http"

	reqdto "library-lending/internal/handler/dto/request"
	"library-lending/internal/handler/httperr"
	"library-lending/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	bookQueries queries.BookQueries
}

func NewBookHandler(bookQueries queries.BookQueries) *BookHandler {
	return &BookHandler{
		bookQueries: bookQueries,
	}
}

// @Summary List books
// @Description List catalog books with pagination and optional search
// @Tags books
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param q query string false "Title or author search"
// @Param category query string false "Category filter"
// @Success 200 {object} queries.BookListPage
// @Failure 400 {object} httperr.Response
// @Router /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q reqdto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	page, err := h.bookQueries.List(c.Request.Context(), queries.ListBooksFilter{
		Page:     q.Page,
		PerPage:  q.PerPage,
		Query:    q.Query,
		Category: q.Category,
	})
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load books", nil)
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Summary Get book
// @Description Get one catalog book with copy availability
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} queries.BookView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID", nil)
		return
	}

	view, err := h.bookQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Book not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
