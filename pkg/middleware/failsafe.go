package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/transport"
)

// Failsafe returns the error-handling middleware. Errors and panics from
// the rest of the chain are logged and turned into a plain-text error
// response, discarding anything written so far. Typed *api.Error values
// keep their status and message; every other failure becomes a 500 that
// reveals nothing of the cause.
func Failsafe(logger *slog.Logger) transport.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next transport.Application) transport.Application {
		guarded := transport.Recovery()(next)
		return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			err := guarded.Handle(req, resp)
			if err == nil {
				return nil
			}

			status := transport.StatusFromError(err)
			message := ""
			var apiErr *api.Error
			if errors.As(err, &apiErr) && status != http.StatusInternalServerError {
				message = apiErr.Message
			}

			attrs := []slog.Attr{
				slog.String("request_id", transport.RequestIDFrom(req)),
				slog.String("method", req.Method().String()),
				slog.String("path", req.Path()),
				slog.Int("status", status),
				slog.String("error", err.Error()),
			}
			var panicErr *transport.PanicError
			if errors.As(err, &panicErr) {
				attrs = append(attrs, slog.String("stack", string(panicErr.Stack)))
			}
			level := slog.LevelWarn
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(req.Context(), level, "request failed", attrs...)

			transport.WriteError(resp, status, message)
			return nil
		})
	}
}
