package api

import (
	"errors"
	"net/http"

	reqdto "library-lending/internal/handler/dto/request"
	"library-lending/internal/handler/httperr"
	"library-lending/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	catalogUseCase commands.CatalogCommands
}

func NewAdminHandler(catalogUseCase commands.CatalogCommands) *AdminHandler {
	return &AdminHandler{
		catalogUseCase: catalogUseCase,
	}
}

// @Summary Create book
// @Description Add a new book to the catalog
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookRequest true "Book data"
// @Success 201 {object} queries.BookView
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/books [post]
func (h *AdminHandler) CreateBook(c *gin.Context) {
	var req reqdto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.catalogUseCase.CreateBook(c.Request.Context(), req)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Update book
// @Description Update a catalog book and invalidate its cached detail
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body reqdto.UpdateBookRequest true "Book data"
// @Success 200 {object} queries.BookView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/books/{id} [put]
func (h *AdminHandler) UpdateBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID", nil)
		return
	}

	var req reqdto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.catalogUseCase.UpdateBook(c.Request.Context(), bookID, req)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Delete book
// @Description Soft-delete a catalog book and invalidate its cached detail
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/books/{id} [delete]
func (h *AdminHandler) DeleteBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID", nil)
		return
	}

	if err := h.catalogUseCase.DeleteBook(c.Request.Context(), bookID); err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Add copy
// @Description Add a loanable copy to a book
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 201 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/books/{id}/copies [post]
func (h *AdminHandler) AddCopy(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID", nil)
		return
	}

	copyID, err := h.catalogUseCase.AddCopy(c.Request.Context(), bookID)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"copy_id": copyID.String(),
	})
}

// @Summary Remove copy
// @Description Soft-delete a copy that is not currently loaned
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Copy ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/copies/{id} [delete]
func (h *AdminHandler) RemoveCopy(c *gin.Context) {
	copyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid copy ID", nil)
		return
	}

	if err := h.catalogUseCase.RemoveCopy(c.Request.Context(), copyID); err != nil {
		h.respondCatalogError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidBookData):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book data", nil)
	case errors.Is(err, commands.ErrBookNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Book not found", nil)
	case errors.Is(err, commands.ErrDuplicateISBN):
		httperr.AbortWithError(c, http.StatusConflict, err, "ISBN already registered", nil)
	case errors.Is(err, commands.ErrCopyNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Book copy not found", nil)
	case errors.Is(err, commands.ErrCopyInUse):
		httperr.AbortWithError(c, http.StatusConflict, err, "Book copy is currently loaned", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
