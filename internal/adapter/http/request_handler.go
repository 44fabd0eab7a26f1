package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"library-backend/internal/adapter/middleware"
	"library-backend/internal/usecase/borrowing"
)

type RequestHandler struct{ uc *borrowing.Usecase }

func NewRequestHandler(uc *borrowing.Usecase) *RequestHandler { return &RequestHandler{uc: uc} }

type submitReq struct {
	BookID uint64 `json:"book_id" validate:"required,gte=1"`
}

// Borrow opens a pending borrow request for the caller.
func (h *RequestHandler) Borrow(c echo.Context) error {
	userID, _, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid token"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.SubmitBorrow(c.Request().Context(), userID, req.BookID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Return opens a pending return request for the caller's open loan.
func (h *RequestHandler) Return(c echo.Context) error {
	userID, _, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid token"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.SubmitReturn(c.Request().Context(), userID, req.BookID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// MyLoans pages through the caller's borrow history.
func (h *RequestHandler) MyLoans(c echo.Context) error {
	userID, _, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid token"})
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	loans, err := h.uc.ListUserLoans(c.Request().Context(), userID, page, limit)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}
