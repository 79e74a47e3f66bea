package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/transport"
)

func body(s string) transport.Application {
	return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
		resp.SetBody([]byte(s))
		return nil
	})
}

func TestServerHeader(t *testing.T) {
	resp := api.NewResponse()
	ServerHeader("molecule/1.0")(body("")).Handle(api.NewRequest(), resp)

	if got := resp.Header("Server"); got != "molecule/1.0" {
		t.Errorf("Server = %q, want molecule/1.0", got)
	}
}

func TestServerHeaderCanBeOverridden(t *testing.T) {
	app := transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
		resp.SetHeader("Server", "custom")
		return nil
	})
	resp := api.NewResponse()
	ServerHeader("molecule")(app).Handle(api.NewRequest(), resp)

	if got := resp.Header("Server"); got != "custom" {
		t.Errorf("Server = %q, want the downstream value", got)
	}
}

func TestDateHeader(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2012, time.June, 8, 15, 4, 5, 0, time.FixedZone("EDT", -4*3600))
	}
	resp := api.NewResponse()
	DateHeader(clock)(body("")).Handle(api.NewRequest(), resp)

	if got := resp.Header("Date"); got != "Fri, 08 Jun 2012 19:04:05 GMT" {
		t.Errorf("Date = %q", got)
	}
}

func TestContentLengthHeader(t *testing.T) {
	resp := api.NewResponse()
	if err := ContentLengthHeader()(body("hello")).Handle(api.NewRequest(), resp); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if got := resp.Header("Content-Length"); got != "5" {
		t.Errorf("Content-Length = %q, want 5", got)
	}
}

func TestContentLengthHeaderKeepsExplicitValue(t *testing.T) {
	app := transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
		resp.SetHeader("Content-Length", "42")
		return nil
	})
	resp := api.NewResponse()
	ContentLengthHeader()(app).Handle(api.NewRequest(), resp)

	if got := resp.Header("Content-Length"); got != "42" {
		t.Errorf("Content-Length = %q, want 42", got)
	}
}

func TestContentLengthHeaderSkippedOnError(t *testing.T) {
	boom := errors.New("boom")
	app := transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
		return boom
	})
	resp := api.NewResponse()
	if err := ContentLengthHeader()(app).Handle(api.NewRequest(), resp); err != boom {
		t.Errorf("error = %v, want boom", err)
	}
	if resp.Headers().Has("Content-Length") {
		t.Error("Content-Length should not be set when the chain failed")
	}
}
