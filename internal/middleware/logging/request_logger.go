package loggingmw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vmkazarin/online_store/internal/logging"
)

// RequestLogger puts a per-request logger into the request context and writes
// one request_success or request_error line per request. Handlers pick the
// logger up with logging.FromContext, so their own lines carry the same
// request fields.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			l := base.With(
				"method", req.Method,
				"route", c.Path(),
				"path", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			// The RequestID middleware runs earlier and records the id on the
			// response; the request header only has it when the client sent
			// its own and that middleware is absent.
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}
			if rid != "" {
				l = l.With("request_id", rid)
			}

			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				// Resolve the error here so the logged status is the one the
				// client actually received.
				c.Echo().HTTPErrorHandler(err, c)
			}

			status := c.Response().Status
			fields := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_out", c.Response().Size,
			}
			if err != nil {
				fields = append(fields, "error", err.Error())
			}

			switch {
			case status >= http.StatusInternalServerError:
				l.Error("request_error", fields...)
			case status >= http.StatusBadRequest:
				l.Warn("request_error", fields...)
			default:
				l.Info("request_success", fields...)
			}
			return nil
		}
	}
}
