package handler

import (
	"errors"
	"net/http"

	"hostelhub/internal/service"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}

func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, http.StatusUnauthorized, err)
	case errors.Is(err, service.ErrAccountInactive):
		return writeError(c, http.StatusUnauthorized, err)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrSessionNotFound):
		return writeError(c, http.StatusNotFound, err)
	case errors.Is(err, service.ErrBookingClosed):
		return writeError(c, http.StatusConflict, err)
	default:
		return writeError(c, http.StatusInternalServerError, errors.New("internal error"))
	}
}
