package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rings-s/anha/internal/common"
)

// httpError maps service errors onto HTTP status codes. Unrecognized
// errors are logged and surfaced as a plain 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCredential):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrInvalidAssignment):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotEligible):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrAlreadyReviewed):
		return echo.NewHTTPError(http.StatusConflict, "booking already reviewed")
	}
	slog.Error("unhandled error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
