// Package routing dispatches requests to the first route whose matcher
// accepts them, falling back to a default application.
package routing

import (
	"errors"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/debug"
	"github.com/aamyot/molecule/pkg/observability"
	"github.com/aamyot/molecule/pkg/transport"
)

// ErrNoDefault is returned when no route matches and the router has no
// default application.
var ErrNoDefault = errors.New("no route matched and no default application is set")

// Route is a candidate destination for a request.
type Route interface {
	// Matches must not modify the request.
	Matches(req *api.Request) bool
	transport.Application
}

type staticRoute struct {
	matcher Matcher
	app     transport.Application
}

func (r *staticRoute) Matches(req *api.Request) bool { return r.matcher(req) }

func (r *staticRoute) Handle(req *api.Request, resp *api.Response) error {
	return r.app.Handle(req, resp)
}

// NewRoute pairs a matcher with the application it leads to.
func NewRoute(matcher Matcher, app transport.Application) Route {
	return &staticRoute{matcher: matcher, app: app}
}

// Router is an Application holding an ordered list of routes. Routes are
// evaluated in the order they were added and the first match handles the
// request. Configure the router before serving; it is not safe to add
// routes concurrently with dispatch.
type Router struct {
	routes   []Route
	fallback transport.Application
}

// NewRouter creates a router without routes or default.
func NewRouter() *Router {
	return &Router{}
}

// Add appends a route.
func (r *Router) Add(route Route) *Router {
	r.routes = append(r.routes, route)
	return r
}

// Route appends a route built from matcher and app.
func (r *Router) Route(matcher Matcher, app transport.Application) *Router {
	return r.Add(NewRoute(matcher, app))
}

// DefaultsTo sets the application used when no route matches. The last
// call wins.
func (r *Router) DefaultsTo(app transport.Application) *Router {
	r.fallback = app
	return r
}

// Len returns the number of routes.
func (r *Router) Len() int {
	return len(r.routes)
}

// Handle dispatches the request to the first matching route, or to the
// default application.
func (r *Router) Handle(req *api.Request, resp *api.Response) error {
	for i, route := range r.routes {
		if route.Matches(req) {
			debug.Log("routing", "route matched", "index", i, "method", req.Method().String(), "path", req.Path())
			return route.Handle(req, resp)
		}
	}
	if r.fallback == nil {
		return ErrNoDefault
	}
	debug.Log("routing", "no route matched, using default", "method", req.Method().String(), "path", req.Path())
	observability.RouteFallbacksTotal.Inc()
	return r.fallback.Handle(req, resp)
}
