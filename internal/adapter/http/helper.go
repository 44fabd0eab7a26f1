package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	bookDomain "library-backend/internal/domain/book"
	requestDomain "library-backend/internal/domain/request"
	userDomain "library-backend/internal/domain/user"
	"library-backend/internal/metadata"
	"library-backend/internal/usecase/catalog"
)

// respondErr maps domain errors onto HTTP codes. Unknown errors become an
// opaque 500; the detail goes to the log, not the client.
func respondErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, bookDomain.ErrNotFound),
		errors.Is(err, requestDomain.ErrNotFound),
		errors.Is(err, userDomain.ErrNotFound),
		errors.Is(err, metadata.ErrVolumeNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, bookDomain.ErrNoCopies),
		errors.Is(err, bookDomain.ErrAtCapacity),
		errors.Is(err, bookDomain.ErrDuplicate),
		errors.Is(err, requestDomain.ErrNotPending),
		errors.Is(err, requestDomain.ErrAlreadyBorrowed),
		errors.Is(err, requestDomain.ErrBorrowPending),
		errors.Is(err, requestDomain.ErrReturnPending),
		errors.Is(err, requestDomain.ErrNotBorrowed),
		errors.Is(err, userDomain.ErrEmailTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, requestDomain.ErrInvalidDecision),
		errors.Is(err, catalog.ErrEmptyQuery):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, userDomain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
