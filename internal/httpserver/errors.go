package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pokeru-app/backend/internal/repo"
	"github.com/pokeru-app/backend/internal/service"
)

func detailError(code int, msg string) *echo.HTTPError {
	return echo.NewHTTPError(code, echo.Map{"detail": msg})
}

// businessError translates service-layer failures into HTTP responses.
// Duplicate email/username map to 403 rather than 409; that convention
// predates this service and clients depend on it.
func businessError(err error) error {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrInvalidGameTime):
		return detailError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUsernameExists),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrNotVerified):
		return detailError(http.StatusForbidden, err.Error())
	case errors.Is(err, repo.ErrUserNotFound),
		errors.Is(err, repo.ErrGameNotFound):
		return detailError(http.StatusNotFound, err.Error())
	}
	return err
}
