package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"library-backend/internal/adapter/middleware"
	userDomain "library-backend/internal/domain/user"
	"library-backend/internal/usecase/catalog"
)

type BookHandler struct{ uc *catalog.Usecase }

func NewBookHandler(uc *catalog.Usecase) *BookHandler { return &BookHandler{uc: uc} }

type addBookReq struct {
	GoogleBooksID string `json:"google_books_id" validate:"required"`
	TotalCopies   int    `json:"total_copies"    validate:"gte=0,lte=100"`
}

// Search proxies the metadata API. Admins see out-of-stock books too.
func (h *BookHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	startIndex, _ := strconv.Atoi(c.QueryParam("startIndex"))
	maxResults, _ := strconv.Atoi(c.QueryParam("maxResults"))

	_, role, _ := middleware.Principal(c)
	isAdmin := role == userDomain.RoleAdmin

	page, err := h.uc.Search(c.Request().Context(), query, startIndex, maxResults, isAdmin)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *BookHandler) AddBook(c echo.Context) error {
	var req addBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	b, err := h.uc.AddBook(c.Request().Context(), req.GoogleBooksID, req.TotalCopies)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BookHandler) GetBook(c echo.Context) error {
	bookID, err := strconv.ParseUint(c.Param("book_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book_id"})
	}
	b, err := h.uc.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BookHandler) ListBooks(c echo.Context) error {
	books, err := h.uc.ListBooks(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"books": books})
}
