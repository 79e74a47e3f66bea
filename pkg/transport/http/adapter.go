// Package http drives the molecule pipeline from net/http. The Adapter
// converts each exchange into an api.Request, dispatches it to an
// application and writes the buffered api.Response back to the client.
package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/cookies"
	"github.com/aamyot/molecule/pkg/debug"
	"github.com/aamyot/molecule/pkg/transport"
)

// Adapter serves a transport.Application over HTTP.
type Adapter struct {
	app    transport.Application
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64 // 0 disables the limit
	Logger      *slog.Logger
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 10 << 20, // 10 MB
		Logger:      slog.Default(),
	}
}

// NewAdapter creates an HTTP adapter dispatching every request to app.
// Middleware is applied to the application in the given order.
func NewAdapter(app transport.Application, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		app = transport.Chain(middlewares...)(app)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Adapter{
		app:    app,
		config: cfg,
		logger: cfg.Logger,
		now:    time.Now,
	}
}

// ServeHTTP implements http.Handler.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, status, err := a.buildRequest(w, r)
	if err != nil {
		a.logger.LogAttrs(r.Context(), slog.LevelDebug, "rejecting request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(status), status)
		return
	}

	if debug.TraceIsEnabled("transport") {
		debug.Trace("transport", "inbound request",
			"method", r.Method,
			"uri", req.URI(),
			"remote", r.RemoteAddr,
			"headers", traceHeaders(req.Headers()),
		)
	}

	resp := api.NewResponse()
	if err := a.app.Handle(req, resp); err != nil {
		a.logger.LogAttrs(r.Context(), slog.LevelError, "unhandled application error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if debug.TraceIsEnabled("transport") {
		debug.Trace("transport", "outbound response",
			"status", resp.Status(),
			"headers", traceHeaders(resp.Headers()),
			"body", debug.Truncate(string(resp.BodyBytes()), maxTracedBody),
		)
	}
	a.writeResponse(w, r, resp)
}

const maxTracedBody = 512

func traceHeaders(h *api.Headers) string {
	var b strings.Builder
	for _, name := range h.Names() {
		fmt.Fprintf(&b, "%s: %s\n", name, h.Get(name))
	}
	return b.String()
}

// buildRequest converts r into an api.Request. On failure it returns the
// status to answer with.
func (a *Adapter) buildRequest(w http.ResponseWriter, r *http.Request) (*api.Request, int, error) {
	req := api.NewRequest()

	if err := req.SetMethodName(r.Method); err != nil {
		return nil, http.StatusNotImplemented, err
	}

	uri := r.RequestURI
	if uri == "" {
		uri = r.URL.RequestURI()
	}
	req.SetContext(r.Context()).
		SetURI(uri).
		SetPath(r.URL.Path).
		SetProtocol(r.Proto).
		SetSecure(r.TLS != nil).
		SetTimestamp(a.now())

	host, port, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	req.SetRemoteIP(host).SetRemoteHost(host)
	if p, err := strconv.Atoi(port); err == nil {
		req.SetRemotePort(p)
	}

	if r.Host != "" {
		req.AddHeader("Host", r.Host)
	}
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range r.Header[name] {
			req.AddHeader(name, v)
		}
	}

	for _, header := range r.Header.Values("Cookie") {
		parsed, err := cookies.Parse(header)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		for _, c := range parsed {
			req.AddCookie(c)
		}
	}

	if err := addParameters(req, r.URL.RawQuery); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("query: %w", err)
	}

	var body io.Reader = http.NoBody
	if r.Body != nil {
		body = r.Body
		if a.config.MaxBodySize > 0 {
			body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
		}
	}

	if req.ContentType() == "application/x-www-form-urlencoded" {
		data, err := io.ReadAll(body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, http.StatusRequestEntityTooLarge, err
			}
			return nil, http.StatusBadRequest, err
		}
		if err := addParameters(req, string(data)); err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("form: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req.SetBody(body)

	return req, 0, nil
}

// addParameters adds url-encoded pairs to req in the order they appear.
func addParameters(req *api.Request, encoded string) error {
	for _, pair := range strings.Split(encoded, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(name)
		if err != nil {
			return err
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return err
		}
		req.AddParameter(name, value)
	}
	return nil
}

// writeResponse copies resp onto w. Headers that are not valid on the wire
// are dropped with a warning.
func (a *Adapter) writeResponse(w http.ResponseWriter, r *http.Request, resp *api.Response) {
	out := w.Header()
	headers := resp.Headers()
	for _, name := range headers.Names() {
		if !httpguts.ValidHeaderFieldName(name) {
			a.dropHeader(r, name, "invalid header name")
			continue
		}
		for _, v := range headers.List(name) {
			if !httpguts.ValidHeaderFieldValue(v) {
				a.dropHeader(r, name, "invalid header value")
				continue
			}
			out.Add(name, v)
		}
	}

	for _, c := range resp.Cookies() {
		line := c.String()
		if line == "" {
			a.dropHeader(r, "Set-Cookie", "invalid cookie "+strconv.Quote(c.Name))
			continue
		}
		out.Add("Set-Cookie", line)
	}

	status := resp.Status()
	if status < 100 || status > 999 {
		a.logger.LogAttrs(r.Context(), slog.LevelError, "invalid response status",
			slog.Int("status", status),
			slog.String("path", r.URL.Path),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(resp.BodyBytes()); err != nil {
		a.logger.LogAttrs(r.Context(), slog.LevelDebug, "writing response body",
			slog.String("error", err.Error()),
		)
	}
}

func (a *Adapter) dropHeader(r *http.Request, name, reason string) {
	a.logger.LogAttrs(r.Context(), slog.LevelWarn, "dropping response header",
		slog.String("header", name),
		slog.String("reason", reason),
	)
}
