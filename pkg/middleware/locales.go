package middleware

import (
	"golang.org/x/text/language"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/debug"
	"github.com/aamyot/molecule/pkg/negotiation"
	"github.com/aamyot/molecule/pkg/transport"
)

// Locales returns middleware that negotiates the request locale from the
// Accept-Language header against the supported locales, given in server
// preference order. When nothing acceptable is supported the fallback is
// used. The result is stored under api.LocaleKey for the rest of the
// chain and removed afterwards.
func Locales(fallback language.Tag, supported ...language.Tag) transport.Middleware {
	supported = append([]language.Tag{}, supported...)
	return func(next transport.Application) transport.Application {
		return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			best, ok := negotiation.ParseAcceptLanguage(req.Header("Accept-Language")).SelectBest(supported)
			if !ok {
				best = fallback
			}
			debug.Log("negotiation", "locale negotiated",
				"accept_language", req.Header("Accept-Language"),
				"locale", best.String(),
				"fallback", !ok,
			)
			return api.WithAttribute(req, api.LocaleKey, best, func() error {
				return next.Handle(req, resp)
			})
		})
	}
}

// Locale returns the locale negotiated by the Locales middleware, or
// language.Und outside of it.
func Locale(req *api.Request) language.Tag {
	tag, ok := api.Attribute(req, api.LocaleKey)
	if !ok {
		return language.Und
	}
	return tag
}
