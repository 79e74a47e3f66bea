package transport

import "github.com/aamyot/molecule/pkg/api"

// Application handles a request by writing to the response. It is the
// primary contract between the pipeline and user code.
type Application interface {
	Handle(req *api.Request, resp *api.Response) error
}

// ApplicationFunc is an adapter that allows using an ordinary function
// as an Application.
type ApplicationFunc func(req *api.Request, resp *api.Response) error

// Handle calls f(req, resp).
func (f ApplicationFunc) Handle(req *api.Request, resp *api.Response) error {
	return f(req, resp)
}
