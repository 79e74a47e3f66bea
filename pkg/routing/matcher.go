package routing

import (
	"strings"

	"github.com/aamyot/molecule/pkg/api"
)

// Matcher decides whether a route accepts a request. Matchers must not
// modify the request.
type Matcher func(req *api.Request) bool

// Anything matches every request.
func Anything() Matcher {
	return func(*api.Request) bool { return true }
}

// Nothing matches no request.
func Nothing() Matcher {
	return func(*api.Request) bool { return false }
}

// MethodIs matches requests using one of the given methods.
func MethodIs(methods ...api.Method) Matcher {
	return func(req *api.Request) bool {
		for _, m := range methods {
			if req.Method() == m {
				return true
			}
		}
		return false
	}
}

// PathEquals matches requests whose path is exactly path.
func PathEquals(path string) Matcher {
	return func(req *api.Request) bool {
		return req.Path() == path
	}
}

// PathPrefix matches requests whose path starts with prefix.
func PathPrefix(prefix string) Matcher {
	return func(req *api.Request) bool {
		return strings.HasPrefix(req.Path(), prefix)
	}
}

// PathPattern matches requests whose path fits a pattern such as
// "/users/{id}".
func PathPattern(pattern string) Matcher {
	p := ParsePattern(pattern)
	return func(req *api.Request) bool {
		_, ok := p.Match(req.Path())
		return ok
	}
}

// HeaderEquals matches requests carrying the header with exactly value.
// Header names are case-insensitive, values are not.
func HeaderEquals(name, value string) Matcher {
	return func(req *api.Request) bool {
		for _, v := range req.Headers().List(name) {
			if v == value {
				return true
			}
		}
		return false
	}
}

// AllOf matches when every matcher does. It matches everything when given
// no matchers.
func AllOf(matchers ...Matcher) Matcher {
	return func(req *api.Request) bool {
		for _, m := range matchers {
			if !m(req) {
				return false
			}
		}
		return true
	}
}

// AnyOf matches when at least one matcher does.
func AnyOf(matchers ...Matcher) Matcher {
	return func(req *api.Request) bool {
		for _, m := range matchers {
			if m(req) {
				return true
			}
		}
		return false
	}
}

// Not inverts m.
func Not(m Matcher) Matcher {
	return func(req *api.Request) bool {
		return !m(req)
	}
}
