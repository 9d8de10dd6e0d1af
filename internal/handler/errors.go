package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/session-auth/internal/logging"
	"github.com/iliyamo/session-auth/internal/service"
)

// writeError is the single place service errors become HTTP responses.
// Internal failures are logged with their cause and answered generically.
func writeError(c echo.Context, log logging.Logger, err error) error {
	ctx := c.Request().Context()
	switch service.KindOf(err) {
	case service.KindConflict:
		return c.JSON(http.StatusConflict, echo.Map{"message": service.MessageOf(err)})
	case service.KindUnauthorized:
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": service.MessageOf(err)})
	case service.KindValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": service.MessageOf(err)})
	}
	log.Error(ctx, "request failed", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}
