package middleware

import (
	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/cookies"
	"github.com/aamyot/molecule/pkg/debug"
	"github.com/aamyot/molecule/pkg/transport"
)

// Cookies returns middleware that exposes a cookie jar to the rest of the
// chain through cookies.From. Cookies staged in the jar are set on the
// response.
func Cookies() transport.Middleware {
	return func(next transport.Application) transport.Application {
		return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			jar := cookies.New(req, resp)
			if debug.Enabled("cookies") {
				names := make([]string, 0, len(req.Cookies()))
				for _, c := range req.Cookies() {
					names = append(names, c.Name)
				}
				debug.Log("cookies", "request cookies", "names", names)
			}
			return api.WithAttribute(req, cookies.JarKey, jar, func() error {
				return next.Handle(req, resp)
			})
		})
	}
}
