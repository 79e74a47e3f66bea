package api

import (
	"bytes"
	"net/http"

	"golang.org/x/text/encoding"

	"github.com/aamyot/molecule/pkg/negotiation"
)

// Response is the outbound message assembled by the pipeline. The body is
// buffered; writing it to the network is the transport's job.
type Response struct {
	status     int
	statusText string
	headers    Headers

	cookies     map[string]Cookie
	cookieOrder []string

	body bytes.Buffer
}

// NewResponse creates an empty 200 OK response.
func NewResponse() *Response {
	return &Response{status: http.StatusOK}
}

func (r *Response) Status() int { return r.status }

// SetStatus sets the status code. The status text reverts to the standard
// reason phrase.
func (r *Response) SetStatus(code int) *Response {
	r.status = code
	r.statusText = ""
	return r
}

// StatusText returns the custom status text, or the standard reason phrase.
func (r *Response) StatusText() string {
	if r.statusText != "" {
		return r.statusText
	}
	return http.StatusText(r.status)
}

func (r *Response) SetStatusText(text string) *Response {
	r.statusText = text
	return r
}

// Headers returns the response headers for reading and writing.
func (r *Response) Headers() *Headers { return &r.headers }

func (r *Response) Header(name string) string {
	return r.headers.Get(name)
}

// SetHeader replaces the named header with a single value.
func (r *Response) SetHeader(name, value string) *Response {
	r.headers.Put(name, value)
	return r
}

func (r *Response) AddHeader(name, value string) *Response {
	r.headers.Add(name, value)
	return r
}

// AddCookie stages a cookie to set on the client. Staging a cookie with
// the same name again replaces it.
func (r *Response) AddCookie(c Cookie) *Response {
	if r.cookies == nil {
		r.cookies = make(map[string]Cookie)
	}
	if _, ok := r.cookies[c.Name]; !ok {
		r.cookieOrder = append(r.cookieOrder, c.Name)
	}
	r.cookies[c.Name] = c
	return r
}

// Cookie returns the staged cookie with the given name.
func (r *Response) Cookie(name string) (Cookie, bool) {
	c, ok := r.cookies[name]
	return c, ok
}

func (r *Response) HasCookie(name string) bool {
	_, ok := r.cookies[name]
	return ok
}

// RemoveCookie unstages a cookie. It does not ask the client to delete it.
func (r *Response) RemoveCookie(name string) {
	if _, ok := r.cookies[name]; !ok {
		return
	}
	delete(r.cookies, name)
	for i, n := range r.cookieOrder {
		if n == name {
			r.cookieOrder = append(r.cookieOrder[:i], r.cookieOrder[i+1:]...)
			break
		}
	}
}

// Cookies returns the staged cookies in first-staging order.
func (r *Response) Cookies() []Cookie {
	out := make([]Cookie, 0, len(r.cookieOrder))
	for _, name := range r.cookieOrder {
		out = append(out, r.cookies[name])
	}
	return out
}

// Write appends raw bytes to the body.
func (r *Response) Write(p []byte) (int, error) {
	return r.body.Write(p)
}

// WriteString appends s encoded in the response charset.
func (r *Response) WriteString(s string) (int, error) {
	content, err := negotiation.Encode(s, r.Charset())
	if err != nil {
		return 0, err
	}
	return r.body.Write(content)
}

// SetBody replaces the body with content.
func (r *Response) SetBody(content []byte) *Response {
	r.body.Reset()
	r.body.Write(content)
	return r
}

// SetBodyText replaces the body with s encoded in the response charset.
func (r *Response) SetBodyText(s string) error {
	content, err := negotiation.Encode(s, r.Charset())
	if err != nil {
		return err
	}
	r.SetBody(content)
	return nil
}

// BodyBytes returns the buffered body. The slice aliases the buffer until
// the next write.
func (r *Response) BodyBytes() []byte {
	return r.body.Bytes()
}

// BodyText decodes the buffered body with the response charset.
func (r *Response) BodyText() (string, error) {
	return negotiation.Decode(r.body.Bytes(), r.Charset())
}

func (r *Response) BodySize() int {
	return r.body.Len()
}

// ResetBody discards the buffered body.
func (r *Response) ResetBody() {
	r.body.Reset()
}

// Reset restores the response to its initial 200 OK state, dropping
// headers, staged cookies and the body.
func (r *Response) Reset() {
	r.status = http.StatusOK
	r.statusText = ""
	r.headers = Headers{}
	r.cookies = nil
	r.cookieOrder = nil
	r.body.Reset()
}

// SetContentType sets the Content-Type header, parameters included.
func (r *Response) SetContentType(contentType string) *Response {
	r.headers.Put("Content-Type", contentType)
	return r
}

// ContentType returns the media type of the Content-Type header, or "".
func (r *Response) ContentType() string {
	ct, _ := negotiation.ParseContentType(r.headers.Get("Content-Type"))
	return ct.MediaType
}

// Charset returns the encoding declared by the Content-Type header,
// ISO-8859-1 when none is declared or the name is unknown.
func (r *Response) Charset() encoding.Encoding {
	return negotiation.CharsetOf(r.headers.Get("Content-Type"), negotiation.ISO88591)
}
