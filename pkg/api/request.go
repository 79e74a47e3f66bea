package api

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/language"

	"github.com/aamyot/molecule/pkg/negotiation"
)

// Request is an inbound HTTP request as seen by the pipeline. Setters
// return the request so a transport can build it fluently.
type Request struct {
	ctx        context.Context
	uri        string
	path       string
	remoteIP   string
	remoteHost string
	remotePort int
	protocol   string
	method     Method
	secure     bool
	timestamp  time.Time
	body       io.Reader
	headers    Headers

	cookies     map[string]Cookie
	cookieOrder []string

	params     map[string][]string
	paramOrder []string

	attributes map[any]any
}

// NewRequest creates a GET request for "/" with an empty body.
func NewRequest() *Request {
	return &Request{
		ctx:       context.Background(),
		uri:       "/",
		path:      "/",
		protocol:  "HTTP/1.1",
		method:    MethodGet,
		timestamp: time.Now(),
		body:      bytes.NewReader(nil),
	}
}

// Context returns the request context, never nil.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

func (r *Request) SetContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// URI returns the request target as received, including any query string.
func (r *Request) URI() string { return r.uri }

func (r *Request) SetURI(uri string) *Request {
	r.uri = uri
	return r
}

// Path returns the decoded path without the query string.
func (r *Request) Path() string { return r.path }

func (r *Request) SetPath(path string) *Request {
	r.path = path
	return r
}

func (r *Request) RemoteIP() string { return r.remoteIP }

func (r *Request) SetRemoteIP(ip string) *Request {
	r.remoteIP = ip
	return r
}

func (r *Request) RemoteHost() string { return r.remoteHost }

func (r *Request) SetRemoteHost(host string) *Request {
	r.remoteHost = host
	return r
}

func (r *Request) RemotePort() int { return r.remotePort }

func (r *Request) SetRemotePort(port int) *Request {
	r.remotePort = port
	return r
}

func (r *Request) Protocol() string { return r.protocol }

func (r *Request) SetProtocol(protocol string) *Request {
	r.protocol = protocol
	return r
}

func (r *Request) Method() Method { return r.method }

func (r *Request) SetMethod(m Method) *Request {
	r.method = m
	return r
}

// SetMethodName sets the method from its name, case-insensitively.
func (r *Request) SetMethodName(name string) error {
	m, err := ParseMethod(name)
	if err != nil {
		return err
	}
	r.method = m
	return nil
}

// Secure reports whether the request arrived over TLS.
func (r *Request) Secure() bool { return r.secure }

func (r *Request) SetSecure(secure bool) *Request {
	r.secure = secure
	return r
}

// Timestamp returns the time the request was received.
func (r *Request) Timestamp() time.Time { return r.timestamp }

func (r *Request) SetTimestamp(t time.Time) *Request {
	r.timestamp = t
	return r
}

// Headers returns the request headers for reading and writing.
func (r *Request) Headers() *Headers { return &r.headers }

// Header returns the comma-joined values of the named header.
func (r *Request) Header(name string) string {
	return r.headers.Get(name)
}

func (r *Request) AddHeader(name, value string) *Request {
	r.headers.Add(name, value)
	return r
}

// Cookie returns the client cookie with the given name.
func (r *Request) Cookie(name string) (Cookie, bool) {
	c, ok := r.cookies[name]
	return c, ok
}

// Cookies returns the client cookies in the order they were added.
func (r *Request) Cookies() []Cookie {
	out := make([]Cookie, 0, len(r.cookieOrder))
	for _, name := range r.cookieOrder {
		out = append(out, r.cookies[name])
	}
	return out
}

// AddCookie records a client cookie. A later cookie with the same name
// replaces the earlier one.
func (r *Request) AddCookie(c Cookie) *Request {
	if r.cookies == nil {
		r.cookies = make(map[string]Cookie)
	}
	if _, ok := r.cookies[c.Name]; !ok {
		r.cookieOrder = append(r.cookieOrder, c.Name)
	}
	r.cookies[c.Name] = c
	return r
}

// Parameter returns the last value added under name, or "".
func (r *Request) Parameter(name string) string {
	values := r.params[name]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// Parameters returns a copy of every value added under name, in order.
func (r *Request) Parameters(name string) []string {
	return append([]string{}, r.params[name]...)
}

// HasParameter reports whether any value was added under name.
func (r *Request) HasParameter(name string) bool {
	return len(r.params[name]) > 0
}

// ParameterNames returns the parameter names in first-insertion order.
func (r *Request) ParameterNames() []string {
	return append([]string{}, r.paramOrder...)
}

func (r *Request) AddParameter(name, value string) *Request {
	if r.params == nil {
		r.params = make(map[string][]string)
	}
	if _, ok := r.params[name]; !ok {
		r.paramOrder = append(r.paramOrder, name)
	}
	r.params[name] = append(r.params[name], value)
	return r
}

// Body returns the body stream. It can be consumed once.
func (r *Request) Body() io.Reader { return r.body }

func (r *Request) SetBody(body io.Reader) *Request {
	if body == nil {
		body = bytes.NewReader(nil)
	}
	r.body = body
	return r
}

// BodyBytes reads the remaining body. Once the stream is consumed further
// calls return an empty slice.
func (r *Request) BodyBytes() ([]byte, error) {
	return io.ReadAll(r.body)
}

// BodyText reads the remaining body and decodes it with the request
// charset.
func (r *Request) BodyText() (string, error) {
	content, err := r.BodyBytes()
	if err != nil {
		return "", err
	}
	return negotiation.Decode(content, r.Charset())
}

// SetBodyText replaces the body with s encoded in the request charset.
func (r *Request) SetBodyText(s string) error {
	content, err := negotiation.Encode(s, r.Charset())
	if err != nil {
		return err
	}
	r.body = bytes.NewReader(content)
	return nil
}

// ContentType returns the media type of the Content-Type header, without
// parameters, or "".
func (r *Request) ContentType() string {
	ct, _ := negotiation.ParseContentType(r.headers.Get("Content-Type"))
	return ct.MediaType
}

// Charset returns the encoding declared by the Content-Type header,
// ISO-8859-1 when none is declared or the name is unknown.
func (r *Request) Charset() encoding.Encoding {
	return negotiation.CharsetOf(r.headers.Get("Content-Type"), negotiation.ISO88591)
}

// ContentLength returns the Content-Length header value, or -1 when it is
// absent or not a number.
func (r *Request) ContentLength() int64 {
	v, ok := r.headers.Lookup("Content-Length")
	if !ok {
		return -1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// Locales returns the locales the client accepts, most preferred first.
func (r *Request) Locales() []language.Tag {
	return negotiation.ParseAcceptLanguage(r.headers.Get("Accept-Language")).Locales()
}

// Locale returns the client's most preferred locale, or language.Und.
func (r *Request) Locale() language.Tag {
	locales := r.Locales()
	if len(locales) == 0 {
		return language.Und
	}
	return locales[0]
}

// AttributeCount returns the number of attributes currently stored.
func (r *Request) AttributeCount() int {
	return len(r.attributes)
}
