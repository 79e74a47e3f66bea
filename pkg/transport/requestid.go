package transport

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/aamyot/molecule/pkg/api"
)

// RequestIDHeader carries the request ID on both the request and the
// response.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID returns middleware that assigns a unique request ID to each
// request. A usable X-Request-ID header sent by the client is reused;
// otherwise a new ID is generated. The ID is echoed in the response header
// and stored under RequestIDKey while the rest of the chain runs.
func RequestID() Middleware {
	return func(next Application) Application {
		return ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			id := strings.TrimSpace(req.Header(RequestIDHeader))
			if id == "" || len(id) > maxRequestIDLength {
				id = generateRequestID()
			}
			resp.SetHeader(RequestIDHeader, id)
			err := api.WithAttribute(req, RequestIDKey, id, func() error {
				return next.Handle(req, resp)
			})
			// Error responses reset the headers set above.
			if !resp.Headers().Has(RequestIDHeader) {
				resp.SetHeader(RequestIDHeader, id)
			}
			return err
		})
	}
}

// generateRequestID creates a new unique request ID as a hex string.
func generateRequestID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
