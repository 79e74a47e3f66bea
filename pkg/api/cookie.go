package api

import "net/http"

// Cookie is an immutable cookie value. Use the With methods to derive a
// modified copy.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	MaxAge   int // seconds; -1 omits Max-Age (session cookie), 0 expires now
	Secure   bool
	HTTPOnly bool
}

// NewCookie returns a session cookie.
func NewCookie(name, value string) Cookie {
	return Cookie{Name: name, Value: value, MaxAge: -1}
}

func (c Cookie) WithValue(value string) Cookie {
	c.Value = value
	return c
}

func (c Cookie) WithPath(path string) Cookie {
	c.Path = path
	return c
}

func (c Cookie) WithDomain(domain string) Cookie {
	c.Domain = domain
	return c
}

// WithMaxAge sets the lifetime in seconds. Negative values make a session
// cookie; 0 asks the client to delete the cookie.
func (c Cookie) WithMaxAge(seconds int) Cookie {
	if seconds < 0 {
		seconds = -1
	}
	c.MaxAge = seconds
	return c
}

func (c Cookie) WithSecure(secure bool) Cookie {
	c.Secure = secure
	return c
}

func (c Cookie) WithHTTPOnly(httpOnly bool) Cookie {
	c.HTTPOnly = httpOnly
	return c
}

// Expired reports whether the cookie asks the client to delete it.
func (c Cookie) Expired() bool {
	return c.MaxAge == 0
}

// HTTP converts the cookie to its net/http form.
func (c Cookie) HTTP() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
	}
	// net/http uses 0 for "unset" and a negative value for "expire now".
	switch {
	case c.MaxAge == 0:
		hc.MaxAge = -1
	case c.MaxAge > 0:
		hc.MaxAge = c.MaxAge
	}
	return hc
}

// String returns the Set-Cookie header value, or "" when the name is not a
// valid cookie name.
func (c Cookie) String() string {
	return c.HTTP().String()
}
