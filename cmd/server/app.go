package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/auth"
	"github.com/aamyot/molecule/pkg/auth/apikey"
	"github.com/aamyot/molecule/pkg/auth/jwt"
	"github.com/aamyot/molecule/pkg/auth/noop"
	"github.com/aamyot/molecule/pkg/config"
	"github.com/aamyot/molecule/pkg/cookies"
	"github.com/aamyot/molecule/pkg/middleware"
	"github.com/aamyot/molecule/pkg/multipart"
	"github.com/aamyot/molecule/pkg/negotiation"
	"github.com/aamyot/molecule/pkg/observability"
	"github.com/aamyot/molecule/pkg/routing"
	"github.com/aamyot/molecule/pkg/transport"
)

// newApplication assembles the middleware stack and router from cfg.
func newApplication(cfg *config.Config, logger *slog.Logger) (transport.Application, error) {
	fallback, err := negotiation.ParseTag(cfg.Locales.Default)
	if err != nil {
		return nil, fmt.Errorf("locales.default: %w", err)
	}

	chain, err := newAuthChain(cfg.Auth)
	if err != nil {
		return nil, err
	}

	stack := transport.NewStack(
		middleware.Failsafe(logger),
		transport.RequestID(),
		transport.Logging(logger),
		observability.Metrics(),
		middleware.ServerHeader(cfg.Server.Name),
		middleware.DateHeader(time.Now),
		middleware.ContentLengthHeader(),
	)
	if cfg.RateLimit.Enabled {
		stack.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		}, middleware.ByRemoteIP))
	}
	stack.Use(
		auth.Middleware(chain, auth.DefaultBypassPaths),
		middleware.Cookies(),
		middleware.Locales(fallback, negotiation.ParseTags(cfg.Locales.Supported...)...),
	)

	return stack.Then(newRouter()), nil
}

func newAuthChain(cfg config.AuthConfig) (*auth.AuthChain, error) {
	switch cfg.Type {
	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			entries = append(entries, apikey.RawKeyEntry{
				Key:      k.Key,
				Identity: auth.Identity{Subject: k.Subject, Scopes: k.Scopes},
			})
		}
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{apikey.New(entries)},
			DefaultDecision: auth.No,
		}, nil
	case "jwt":
		authn, err := jwt.New(jwt.Config{
			Secret:   []byte(cfg.JWT.Secret),
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
			Leeway:   cfg.JWT.Leeway,
		})
		if err != nil {
			return nil, err
		}
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{authn},
			DefaultDecision: auth.No,
		}, nil
	default:
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{&noop.Authenticator{}},
			DefaultDecision: auth.Yes,
		}, nil
	}
}

var greetings = map[language.Base]string{
	language.MustParseBase("en"): "Hello",
	language.MustParseBase("fr"): "Bonjour",
	language.MustParseBase("de"): "Hallo",
	language.MustParseBase("es"): "Hola",
}

func newRouter() *routing.Router {
	router := routing.NewRouter().DefaultsTo(routing.NotFound())

	router.Get("/healthz").To(transport.ApplicationFunc(func(_ *api.Request, resp *api.Response) error {
		resp.SetContentType("text/plain; charset=UTF-8")
		return resp.SetBodyText("ok\n")
	}))

	router.Get("/hello/{name}").To(transport.ApplicationFunc(hello))
	router.Post("/upload").To(transport.ApplicationFunc(upload))

	return router
}

// hello greets in the negotiated locale and counts visits in a cookie.
func hello(req *api.Request, resp *api.Response) error {
	base, _ := middleware.Locale(req).Base()
	greeting, ok := greetings[base]
	if !ok {
		greeting = greetings[language.MustParseBase("en")]
	}

	visits := 1
	if jar, ok := cookies.From(req); ok {
		if n, err := strconv.Atoi(jar.Value("visits")); err == nil && n > 0 {
			visits = n + 1
		}
		jar.Set("visits", strconv.Itoa(visits), cookies.Path("/"), cookies.HTTPOnly())
	}

	resp.SetContentType("text/plain; charset=UTF-8")
	return resp.SetBodyText(fmt.Sprintf("%s, %s! (visit %d)\n", greeting, req.Parameter("name"), visits))
}

// upload lists the parts of a multipart body.
func upload(req *api.Request, resp *api.Response) error {
	parts, err := multipart.Parse(req)
	if err != nil {
		return api.NewInvalidRequestError(err.Error())
	}

	resp.SetContentType("text/plain; charset=UTF-8")
	for _, p := range parts {
		line := fmt.Sprintf("%s: %d bytes\n", p.Name, len(p.Content))
		if p.IsFile() {
			line = fmt.Sprintf("%s: %s (%s, %d bytes)\n", p.Name, p.Filename, p.ContentType, len(p.Content))
		}
		if _, err := resp.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}
