package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/service"
	"github.com/painelquick/backend/internal/storage"
)

// fail logs err with the handler logger and turns it into the HTTP error
// matching its sentinel.
func fail(l *slog.Logger, op string, err error) error {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", status, "reason", msg, "error", err)
		return echo.NewHTTPError(status, msg).SetInternal(err)
	}
	l.Warn(op+"_error", "status", status, "reason", msg, "error", err)
	return echo.NewHTTPError(status, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNoCourier):
		return http.StatusBadRequest, service.ErrNoCourier.Error()
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, service.Detail(err)
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, service.Detail(err)
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, service.Detail(err)
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, service.Detail(err)
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, service.Detail(err)
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, storage.ErrNotImage):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_error", "status", 400, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

// ErrorHandler writes every error as a JSON body with a message. Internal
// details are exposed only when dev is set.
func ErrorHandler(dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			he = &echo.HTTPError{Code: http.StatusInternalServerError, Message: "internal server error", Internal: err}
		}

		var body any
		switch {
		case errors.Is(err, echo.ErrNotFound):
			body = map[string]any{"message": "route not found", "path": c.Request().URL.Path}
		case he.Code >= http.StatusInternalServerError:
			m := map[string]any{"message": "internal server error"}
			if dev && he.Internal != nil {
				m["error"] = he.Internal.Error()
			}
			body = m
		default:
			switch msg := he.Message.(type) {
			case string:
				body = map[string]any{"message": msg}
			case map[string]any:
				body = msg
			default:
				body = map[string]any{"message": http.StatusText(he.Code)}
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, body)
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}
