package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/aamyot/molecule/pkg/api"
	"github.com/aamyot/molecule/pkg/observability"
	"github.com/aamyot/molecule/pkg/transport"
)

// RateLimitConfig configures a per-key token bucket.
type RateLimitConfig struct {
	RPS   float64 // sustained requests per second; defaults to 5
	Burst int     // bucket size; defaults to 10
}

// KeyFunc extracts the rate limiting key from a request.
type KeyFunc func(req *api.Request) string

// ByRemoteIP keys requests by client address.
func ByRemoteIP(req *api.Request) string {
	return req.RemoteIP()
}

type limiterPool struct {
	mu  sync.Mutex
	m   map[string]*rate.Limiter
	cfg RateLimitConfig
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*rate.Limiter)
	}
	if l, ok := p.m[key]; ok {
		return l
	}
	rps := p.cfg.RPS
	if rps <= 0 {
		rps = 5
	}
	burst := p.cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	p.m[key] = l
	return l
}

// RateLimit returns middleware that answers 429 Too Many Requests, without
// forwarding, once a key exceeds its token bucket. A nil key function
// keys by remote IP.
func RateLimit(cfg RateLimitConfig, key KeyFunc) transport.Middleware {
	if key == nil {
		key = ByRemoteIP
	}
	pool := &limiterPool{cfg: cfg}
	return func(next transport.Application) transport.Application {
		return transport.ApplicationFunc(func(req *api.Request, resp *api.Response) error {
			if !pool.get(key(req)).Allow() {
				observability.RateLimitRejectedTotal.Inc()
				transport.WriteError(resp, http.StatusTooManyRequests, "rate limit exceeded")
				resp.SetHeader("Retry-After", "1")
				return nil
			}
			return next.Handle(req, resp)
		})
	}
}
