package routing

import (
	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/transport"
)

// Definition is a route under construction, selected by method and path
// pattern. Finish it with To.
type Definition struct {
	router  *Router
	methods []api.Method
	pattern Pattern
}

// Get starts a route for GET requests matching path.
func (r *Router) Get(path string) *Definition { return r.define(path, api.MethodGet) }

// Post starts a route for POST requests matching path.
func (r *Router) Post(path string) *Definition { return r.define(path, api.MethodPost) }

// Put starts a route for PUT requests matching path.
func (r *Router) Put(path string) *Definition { return r.define(path, api.MethodPut) }

// Delete starts a route for DELETE requests matching path.
func (r *Router) Delete(path string) *Definition { return r.define(path, api.MethodDelete) }

// Patch starts a route for PATCH requests matching path.
func (r *Router) Patch(path string) *Definition { return r.define(path, api.MethodPatch) }

// Head starts a route for HEAD requests matching path.
func (r *Router) Head(path string) *Definition { return r.define(path, api.MethodHead) }

// Options starts a route for OPTIONS requests matching path.
func (r *Router) Options(path string) *Definition { return r.define(path, api.MethodOptions) }

// Any starts a route for requests of any method matching path.
func (r *Router) Any(path string) *Definition { return r.define(path) }

func (r *Router) define(path string, methods ...api.Method) *Definition {
	return &Definition{router: r, methods: methods, pattern: ParsePattern(path)}
}

// To completes the definition and adds the route to the router.
func (d *Definition) To(app transport.Application) *Router {
	return d.router.Add(&patternRoute{methods: d.methods, pattern: d.pattern, app: app})
}

// patternRoute binds the captured path segments as request parameters when
// it handles a request.
type patternRoute struct {
	methods []api.Method
	pattern Pattern
	app     transport.Application
}

func (r *patternRoute) Matches(req *api.Request) bool {
	if len(r.methods) > 0 && !MethodIs(r.methods...)(req) {
		return false
	}
	_, ok := r.pattern.Match(req.Path())
	return ok
}

func (r *patternRoute) Handle(req *api.Request, resp *api.Response) error {
	params, _ := r.pattern.Match(req.Path())
	for _, seg := range r.pattern.segments {
		if seg.param != "" {
			req.AddParameter(seg.param, params[seg.param])
		}
	}
	return r.app.Handle(req, resp)
}
