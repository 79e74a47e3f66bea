package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/transport"
)

// ServerHeader returns middleware that sets the Server header before
// forwarding.
func ServerHeader(name string) transport.Middleware {
	return func(next transport.Application) transport.Application {
		return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			resp.SetHeader("Server", name)
			return next.Handle(req, resp)
		})
	}
}

// DateHeader returns middleware that sets the Date header from clock
// before forwarding. A nil clock uses time.Now.
func DateHeader(clock func() time.Time) transport.Middleware {
	if clock == nil {
		clock = time.Now
	}
	return func(next transport.Application) transport.Application {
		return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			resp.SetHeader("Date", clock().UTC().Format(http.TimeFormat))
			return next.Handle(req, resp)
		})
	}
}

// ContentLengthHeader returns middleware that sets Content-Length from the
// buffered body once the rest of the chain succeeded, unless the header
// is already present.
func ContentLengthHeader() transport.Middleware {
	return func(next transport.Application) transport.Application {
		return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			if err := next.Handle(req, resp); err != nil {
				return err
			}
			if !resp.Headers().Has("Content-Length") {
				resp.SetHeader("Content-Length", strconv.Itoa(resp.BodySize()))
			}
			return nil
		})
	}
}
