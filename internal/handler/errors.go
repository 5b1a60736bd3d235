package handler

import (
	"github.com/labstack/echo/v4"

	"stockresearch/internal/errors"
)

// respondError converts a service error into an Echo HTTP error. The original
// error is kept as the internal cause for logging only.
func respondError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}
