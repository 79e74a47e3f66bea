package http

import (
	"bytes"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/transport"
)

// capture records the request the adapter built.
type capture struct {
	req  *api.Request
	body string
}

func (c *capture) app(fn func(resp *api.Response) error) transport.Application {
	return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
		c.req = req
		data, err := req.BodyBytes()
		if err != nil {
			return err
		}
		c.body = string(data)
		if fn != nil {
			return fn(resp)
		}
		return nil
	})
}

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return cfg
}

func TestAdapterBuildsRequest(t *testing.T) {
	var c capture
	a := NewAdapter(c.app(nil), quietConfig())

	r := httptest.NewRequest(http.MethodPost, "/users/42?tag=a&tag=b&q=x%20y", strings.NewReader("payload"))
	r.RemoteAddr = "192.0.2.7:5123"
	r.Header.Set("Content-Type", "application/octet-stream")
	r.Header.Set("Accept-Language", "fr-CH, en;q=0.5")
	r.Header.Set("Cookie", "session=abc; theme=dark")
	w := httptest.NewRecorder()
	a.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	req := c.req
	if req.Method() != api.MethodPost {
		t.Errorf("method = %q, want POST", req.Method())
	}
	if req.URI() != "/users/42?tag=a&tag=b&q=x%20y" {
		t.Errorf("uri = %q", req.URI())
	}
	if req.Path() != "/users/42" {
		t.Errorf("path = %q, want /users/42", req.Path())
	}
	if req.RemoteIP() != "192.0.2.7" || req.RemotePort() != 5123 {
		t.Errorf("remote = %s:%d, want 192.0.2.7:5123", req.RemoteIP(), req.RemotePort())
	}
	if req.Protocol() != "HTTP/1.1" {
		t.Errorf("protocol = %q, want HTTP/1.1", req.Protocol())
	}
	if req.Secure() {
		t.Error("plain request should not be secure")
	}
	if req.Header("Host") != "example.com" {
		t.Errorf("Host = %q, want example.com", req.Header("Host"))
	}
	if got := req.Parameters("tag"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("tag params = %v, want [a b]", got)
	}
	if req.Parameter("q") != "x y" {
		t.Errorf("q = %q, want %q", req.Parameter("q"), "x y")
	}
	if names := req.ParameterNames(); len(names) != 2 || names[0] != "tag" {
		t.Errorf("parameter names = %v, want [tag q]", names)
	}
	if ck, ok := req.Cookie("theme"); !ok || ck.Value != "dark" {
		t.Errorf("theme cookie = %+v, %v", ck, ok)
	}
	if len(req.Cookies()) != 2 {
		t.Errorf("cookies = %d, want 2", len(req.Cookies()))
	}
	if req.Locale().String() != "fr-CH" {
		t.Errorf("locale = %s, want fr-CH", req.Locale())
	}
	if c.body != "payload" {
		t.Errorf("body = %q, want payload", c.body)
	}
}

func TestAdapterSecure(t *testing.T) {
	var c capture
	a := NewAdapter(c.app(nil), quietConfig())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.TLS = &tls.ConnectionState{}
	a.ServeHTTP(httptest.NewRecorder(), r)

	if !c.req.Secure() {
		t.Error("TLS request should be secure")
	}
}

func TestAdapterFormParameters(t *testing.T) {
	var c capture
	a := NewAdapter(c.app(nil), quietConfig())

	r := httptest.NewRequest(http.MethodPost, "/login?next=%2Fhome", strings.NewReader("user=ann&pass=s%26cret"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	a.ServeHTTP(httptest.NewRecorder(), r)

	if c.req.Parameter("user") != "ann" || c.req.Parameter("pass") != "s&cret" {
		t.Errorf("form params user=%q pass=%q", c.req.Parameter("user"), c.req.Parameter("pass"))
	}
	if c.req.Parameter("next") != "/home" {
		t.Errorf("query param next = %q, want /home", c.req.Parameter("next"))
	}
	if c.body != "user=ann&pass=s%26cret" {
		t.Errorf("body should remain readable, got %q", c.body)
	}
}

func TestAdapterRejections(t *testing.T) {
	tests := []struct {
		name   string
		build  func() *http.Request
		status int
	}{
		{
			name:   "unknown method",
			build:  func() *http.Request { return httptest.NewRequest("BREW", "/", nil) },
			status: http.StatusNotImplemented,
		},
		{
			name: "malformed cookie",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/", nil)
				r.Header.Set("Cookie", "no-equals-sign")
				return r
			},
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed query",
			build:  func() *http.Request { return httptest.NewRequest(http.MethodGet, "/?a=%zz", nil) },
			status: http.StatusBadRequest,
		},
		{
			name: "form too large",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a="+strings.Repeat("x", 64)))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			status: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			app := transport.ApplicationFunc(func(*api.Request, *api.Response) error {
				called = true
				return nil
			})
			cfg := quietConfig()
			cfg.MaxBodySize = 16
			a := NewAdapter(app, cfg)

			w := httptest.NewRecorder()
			a.ServeHTTP(w, tt.build())

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if called {
				t.Error("application should not be dispatched")
			}
		})
	}
}

func TestAdapterMaxBodySize(t *testing.T) {
	var readErr error
	app := transport.ApplicationFunc(func(req *api.Request, _ *api.Response) error {
		_, readErr = req.BodyBytes()
		return nil
	})
	cfg := quietConfig()
	cfg.MaxBodySize = 4
	a := NewAdapter(app, cfg)

	a.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))

	var maxErr *http.MaxBytesError
	if !errors.As(readErr, &maxErr) {
		t.Errorf("read error = %v, want *http.MaxBytesError", readErr)
	}
}

func TestAdapterWritesResponse(t *testing.T) {
	app := transport.ApplicationFunc(func(_ *api.Request, resp *api.Response) error {
		resp.SetStatus(http.StatusCreated)
		resp.SetContentType("text/plain; charset=UTF-8")
		resp.AddHeader("X-Multi", "one")
		resp.AddHeader("X-Multi", "two")
		resp.AddHeader("Bad Name", "dropped")
		resp.AddHeader("X-Bad-Value", "line\nbreak")
		resp.AddCookie(api.NewCookie("id", "42").WithPath("/").WithHTTPOnly(true))
		resp.AddCookie(api.NewCookie("bad name", "x"))
		return resp.SetBodyText("créé")
	})
	a := NewAdapter(app, quietConfig())

	w := httptest.NewRecorder()
	a.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if got := w.Header().Values("X-Multi"); len(got) != 2 || got[1] != "two" {
		t.Errorf("X-Multi = %v, want [one two]", got)
	}
	if w.Header().Get("Bad Name") != "" || w.Header().Get("X-Bad-Value") != "" {
		t.Error("invalid headers should be dropped")
	}
	cookies := w.Header().Values("Set-Cookie")
	if len(cookies) != 1 || cookies[0] != "id=42; Path=/; HttpOnly" {
		t.Errorf("Set-Cookie = %v, want [id=42; Path=/; HttpOnly]", cookies)
	}
	if !bytes.Equal(w.Body.Bytes(), []byte("créé")) {
		t.Errorf("body = %q, want créé", w.Body.String())
	}
}

func TestAdapterHeadOmitsBody(t *testing.T) {
	a := NewAdapter(greeting("hidden"), quietConfig())

	w := httptest.NewRecorder()
	a.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/", nil))

	if w.Body.Len() != 0 {
		t.Errorf("HEAD body = %q, want empty", w.Body.String())
	}
}

func TestAdapterApplicationError(t *testing.T) {
	app := transport.ApplicationFunc(func(_ *api.Request, resp *api.Response) error {
		resp.SetHeader("X-Partial", "yes")
		return errors.New("boom")
	})
	a := NewAdapter(app, quietConfig())

	w := httptest.NewRecorder()
	a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if w.Header().Get("X-Partial") != "" {
		t.Error("partial response headers should not be written")
	}
}

func TestAdapterAppliesMiddleware(t *testing.T) {
	a := NewAdapter(greeting("ok"), quietConfig(), transport.RequestID())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	a.ServeHTTP(w, r)

	if w.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", w.Header().Get("X-Request-ID"))
	}
}

func TestAdapterInvalidStatus(t *testing.T) {
	app := transport.ApplicationFunc(func(_ *api.Request, resp *api.Response) error {
		resp.SetStatus(42)
		return nil
	})
	a := NewAdapter(app, quietConfig())

	w := httptest.NewRecorder()
	a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
