package transport

import (
	"log/slog"
	"time"

	"github.com/aamyot/molecule/pkg/api"
)

// Logging returns middleware that emits one structured log entry per
// request: method, path, status, duration, the request ID when one is
// set, and the error if the request failed.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Application) Application {
		return ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			start := time.Now()

			err := next.Handle(req, resp)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFrom(req)),
				slog.String("method", req.Method().String()),
				slog.String("path", req.Path()),
				slog.Int("status", resp.Status()),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(req.Context(), slog.LevelError, "request failed", attrs...)
			} else {
				logger.LogAttrs(req.Context(), slog.LevelInfo, "request completed", attrs...)
			}

			return err
		})
	}
}
