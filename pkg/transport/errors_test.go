package transport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aamyot/molecule/pkg/api"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid_request -> 400", api.NewInvalidRequestError("bad"), http.StatusBadRequest},
		{"unauthorized -> 401", api.NewUnauthorizedError("who"), http.StatusUnauthorized},
		{"not_found -> 404", api.NewNotFoundError("gone"), http.StatusNotFound},
		{"too_many_requests -> 429", api.NewTooManyRequestsError("slow"), http.StatusTooManyRequests},
		{"server_error -> 500", api.NewServerError("broken", nil), http.StatusInternalServerError},
		{"wrapped -> 404", fmt.Errorf("lookup: %w", api.NewNotFoundError("gone")), http.StatusNotFound},
		{"plain error -> 500", errors.New("plain"), http.StatusInternalServerError},
		{"panic -> 500", &PanicError{Value: "boom"}, http.StatusInternalServerError},
		{"unknown type -> 500", &api.Error{Type: "unknown"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFromError(tt.err); got != tt.wantStatus {
				t.Errorf("StatusFromError(%v) = %d, want %d", tt.err, got, tt.wantStatus)
			}
		})
	}
}

func TestWriteErrorDiscardsPartialResponse(t *testing.T) {
	resp := api.NewResponse().SetHeader("X-Partial", "yes")
	resp.SetBody([]byte("half written"))

	WriteError(resp, http.StatusInternalServerError, "")

	if resp.Status() != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.Status())
	}
	if resp.Headers().Has("X-Partial") {
		t.Error("partial headers should be discarded")
	}
	if resp.ContentType() != "text/plain" {
		t.Errorf("content type = %q, want text/plain", resp.ContentType())
	}
	if got := string(resp.BodyBytes()); got != "Internal Server Error" {
		t.Errorf("body = %q, want the reason phrase", got)
	}
}
