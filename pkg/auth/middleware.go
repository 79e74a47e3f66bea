package auth

import (
	"log/slog"
	"net/http"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/debug"
	"github.com/aamyot/molecule/pkg/transport"
)

// Middleware creates middleware from an AuthChain. It checks the bypass
// list, runs authentication and exposes the identity to the rest of the
// chain. Rejected requests get a 401 without being forwarded.
func Middleware(chain *AuthChain, bypassPaths []string) transport.Middleware {
	bypass := make(map[string]bool, len(bypassPaths))
	for _, p := range bypassPaths {
		bypass[p] = true
	}

	return func(next transport.Application) transport.Application {
		return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			// Check bypass list.
			if bypass[req.Path()] {
				debug.Log("auth", "bypassing authentication", "path", req.Path())
				return next.Handle(req, resp)
			}

			result := chain.Authenticate(req)

			if result.Decision != Yes || result.Identity == nil {
				slog.Warn("authentication failed",
					"path", req.Path(),
					"remote_ip", req.RemoteIP(),
					"error", result.Err,
				)
				transport.WriteError(resp, http.StatusUnauthorized, "authentication required")
				resp.SetHeader("WWW-Authenticate", "Bearer")
				return nil
			}

			// Validate identity.
			if result.Identity.Subject == "" {
				return api.NewServerError("authenticator returned identity with empty subject", nil)
			}

			slog.Debug("authentication succeeded",
				"subject", result.Identity.Subject,
				"path", req.Path(),
				"remote_ip", req.RemoteIP(),
			)

			return api.WithAttribute(req, IdentityKey, result.Identity, func() error {
				return next.Handle(req, resp)
			})
		})
	}
}

// DefaultBypassPaths lists paths that skip authentication.
var DefaultBypassPaths = []string{"/healthz", "/readyz", "/metrics"}
