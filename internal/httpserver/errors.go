package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/external"
	"github.com/Skotchmaster/product_catalog/internal/service"
)

const (
	msgInternal = "internal error"
	msgUpstream = "external service request failed"
)

// detail strips the sentinel prefix added by fmt.Errorf("%w: ...").
func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, detail(err, service.ErrValidation)
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, detail(err, service.ErrNotFound)
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, detail(err, service.ErrConflict)
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, detail(err, service.ErrUnavailable)
	case errors.Is(err, external.ErrInvalidInput):
		return http.StatusBadRequest, detail(err, external.ErrInvalidInput)
	case errors.Is(err, external.ErrNotFound):
		return http.StatusNotFound, "external resource not found"
	case errors.Is(err, external.ErrUpstream):
		return http.StatusBadRequest, msgUpstream
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// fail logs err under event and converts it into the matching HTTP error.
// Client errors are logged at warn, everything else at error.
func fail(l *slog.Logger, event string, err error) error {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError || errors.Is(err, external.ErrUpstream) {
		l.Error(event, "status", code, "reason", msg, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}

// badRequest reports an unparseable path or query parameter.
func badRequest(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid parameter", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, l *slog.Logger, event string, req any) error {
	if err := c.Bind(req); err != nil {
		l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
