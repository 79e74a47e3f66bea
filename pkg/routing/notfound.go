package routing

import (
	"net/http"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/transport"
)

// NotFound returns an application answering 404 with a plain-text body
// naming the requested path.
func NotFound() transport.Application {
	return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
		resp.SetStatus(http.StatusNotFound)
		resp.SetContentType("text/plain; charset=UTF-8")
		resp.SetBody([]byte("Not found: " + req.Path()))
		return nil
	})
}
