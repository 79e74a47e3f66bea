// Package cookies gives applications a cookie jar over the current
// exchange: client cookies are read from the request and new cookies are
// staged on the response.
package cookies

import "github.com/aamyot/molecule/pkg/api"

// JarKey holds the jar the Cookies middleware creates for each request.
var JarKey = api.NewKey[*Jar]("cookie_jar")

// Jar reads client cookies and stages cookies to send back. Staged
// cookies shadow client cookies of the same name, and a discarded cookie
// reads as absent.
type Jar struct {
	req  *api.Request
	resp *api.Response
}

// New creates a jar over an exchange.
func New(req *api.Request, resp *api.Response) *Jar {
	return &Jar{req: req, resp: resp}
}

// From returns the jar stored on the request by the Cookies middleware.
func From(req *api.Request) (*Jar, bool) {
	return api.Attribute(req, JarKey)
}

// Get returns the cookie visible under name.
func (j *Jar) Get(name string) (api.Cookie, bool) {
	if c, ok := j.resp.Cookie(name); ok {
		if c.Expired() {
			return api.Cookie{}, false
		}
		return c, true
	}
	return j.req.Cookie(name)
}

// Value returns the value of the cookie visible under name, or "".
func (j *Jar) Value(name string) string {
	c, _ := j.Get(name)
	return c.Value
}

// Has reports whether a cookie is visible under name.
func (j *Jar) Has(name string) bool {
	_, ok := j.Get(name)
	return ok
}

// All returns the visible cookies: client cookies first, in their order,
// then newly staged ones.
func (j *Jar) All() []api.Cookie {
	var out []api.Cookie
	seen := map[string]bool{}
	for _, c := range j.req.Cookies() {
		seen[c.Name] = true
		if visible, ok := j.Get(c.Name); ok {
			out = append(out, visible)
		}
	}
	for _, c := range j.resp.Cookies() {
		if !seen[c.Name] && !c.Expired() {
			out = append(out, c)
		}
	}
	return out
}

// Add stages c to be sent to the client, replacing any cookie staged
// under the same name.
func (j *Jar) Add(c api.Cookie) api.Cookie {
	j.resp.AddCookie(c)
	return c
}

// Set stages a session cookie built from name, value and options.
func (j *Jar) Set(name, value string, opts ...Option) api.Cookie {
	return j.Add(apply(api.NewCookie(name, value), opts))
}

// Discard asks the client to delete the named cookie. Options such as
// Path must match the ones the cookie was set with for the client to
// honor the deletion.
func (j *Jar) Discard(name string, opts ...Option) api.Cookie {
	return j.Add(apply(api.NewCookie(name, ""), opts).WithMaxAge(0))
}

// Option adjusts a cookie being staged.
type Option func(api.Cookie) api.Cookie

func Path(path string) Option {
	return func(c api.Cookie) api.Cookie { return c.WithPath(path) }
}

func Domain(domain string) Option {
	return func(c api.Cookie) api.Cookie { return c.WithDomain(domain) }
}

// MaxAge sets the cookie lifetime in seconds.
func MaxAge(seconds int) Option {
	return func(c api.Cookie) api.Cookie { return c.WithMaxAge(seconds) }
}

func Secure() Option {
	return func(c api.Cookie) api.Cookie { return c.WithSecure(true) }
}

func HTTPOnly() Option {
	return func(c api.Cookie) api.Cookie { return c.WithHTTPOnly(true) }
}

func apply(c api.Cookie, opts []Option) api.Cookie {
	for _, opt := range opts {
		c = opt(c)
	}
	return c
}
