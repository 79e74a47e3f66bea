package observability

import (
	"strconv"
	"time"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/transport"
)

// Metrics returns middleware that records request metrics.
//
// It captures:
//   - molecule_requests_total (counter): incremented per request with method and status class labels
//   - molecule_request_duration_seconds (histogram): dispatch duration with a method label
//   - molecule_requests_in_flight (gauge): incremented while a request is being dispatched
//
// A request failing with an error is counted under the status the error
// maps to, since the response has not been translated yet.
func Metrics() transport.Middleware {
	return func(next transport.Application) transport.Application {
		return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			start := time.Now()
			RequestsInFlight.Inc()
			defer RequestsInFlight.Dec()

			err := next.Handle(req, resp)

			status := resp.Status()
			if err != nil {
				status = transport.StatusFromError(err)
			}
			method := req.Method().String()
			RequestsTotal.WithLabelValues(method, statusClass(status)).Inc()
			RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
			return err
		})
	}
}

// statusClass builds a status class label like "2xx", "4xx", "5xx".
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
