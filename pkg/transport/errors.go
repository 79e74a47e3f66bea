package transport

import (
	"errors"
	"net/http"

	"github.com/aamyot/molecule/pkg/api"
)

// StatusFromError maps an error returned along the chain to an HTTP status
// code. Typed *api.Error values map by type; anything else, panics
// included, is a server error.
func StatusFromError(err error) int {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch apiErr.Type {
	case api.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError discards whatever the response holds and replaces it with a
// plain-text error. An empty message uses the status reason phrase.
func WriteError(resp *api.Response, status int, message string) {
	resp.Reset()
	resp.SetStatus(status)
	resp.SetContentType("text/plain; charset=UTF-8")
	if message == "" {
		message = http.StatusText(status)
	}
	resp.SetBody([]byte(message))
}
