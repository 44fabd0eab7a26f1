package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"library-backend/internal/adapter/middleware"
	requestDomain "library-backend/internal/domain/request"
	"library-backend/internal/usecase/resolution"
)

type ResolutionHandler struct{ uc *resolution.Usecase }

func NewResolutionHandler(uc *resolution.Usecase) *ResolutionHandler {
	return &ResolutionHandler{uc: uc}
}

type resolveReq struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// Resolve applies the admin decision to a pending request.
func (h *ResolutionHandler) Resolve(c echo.Context) error {
	requestID := c.Param("request_id")
	if !reHex32.MatchString(requestID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request_id"})
	}

	adminID, _, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid token"})
	}

	var req resolveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Resolve(c.Request().Context(), resolution.ResolveInput{
		RequestID: requestID,
		Decision:  requestDomain.Decision(req.Status),
		AdminID:   adminID,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListAll backs the admin ledger dashboard.
func (h *ResolutionHandler) ListAll(c echo.Context) error {
	rows, err := h.uc.ListAllRequests(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"requests": rows})
}

// UserHistory is the ledger narrowed to one user, for the admin dashboard.
func (h *ResolutionHandler) UserHistory(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}
	rows, err := h.uc.ListUserHistory(c.Request().Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"requests": rows})
}

// MyHistory is the ledger narrowed to the caller.
func (h *ResolutionHandler) MyHistory(c echo.Context) error {
	userID, _, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid token"})
	}
	rows, err := h.uc.ListUserHistory(c.Request().Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"requests": rows})
}
