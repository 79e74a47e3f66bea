package transport

import (
	"errors"

	"github.com/aamyot/molecule/pkg/api"
)

// ErrNoApplication is returned by a Stack that was closed without an
// application.
var ErrNoApplication = errors.New("no application at the end of the middleware stack")

// Middleware wraps an Application to add cross-cutting behavior.
// Middleware is applied in order: the first middleware in the chain is
// the outermost wrapper (executes first on the way in, last on the way out).
type Middleware func(Application) Application

// Chain composes multiple middleware into a single middleware.
// Middleware are applied in order: Chain(a, b, c) produces a(b(c(handler))).
func Chain(middlewares ...Middleware) Middleware {
	return func(next Application) Application {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Stack is an ordered list of middleware closed by a single application.
type Stack struct {
	middlewares []Middleware
}

// NewStack creates a stack with the given middleware, outermost first.
func NewStack(middlewares ...Middleware) *Stack {
	return &Stack{middlewares: append([]Middleware{}, middlewares...)}
}

// Use appends middleware to the inner end of the stack.
func (s *Stack) Use(middlewares ...Middleware) *Stack {
	s.middlewares = append(s.middlewares, middlewares...)
	return s
}

// Len returns the number of middleware in the stack.
func (s *Stack) Len() int {
	return len(s.middlewares)
}

// Then closes the stack with app and returns the dispatcher. A nil app
// yields a dispatcher that fails every request with ErrNoApplication.
func (s *Stack) Then(app Application) Application {
	if app == nil {
		app = ApplicationFunc(func(*api.Request, *api.Response) error {
			return ErrNoApplication
		})
	}
	return Chain(s.middlewares...)(app)
}

// RequestIDKey holds the request ID assigned by the RequestID middleware.
var RequestIDKey = api.NewKey[string]("request_id")

// RequestIDFrom returns the request ID, or an empty string when none is set.
func RequestIDFrom(req *api.Request) string {
	id, _ := api.Attribute(req, RequestIDKey)
	return id
}
