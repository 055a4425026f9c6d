package worker

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles narrative fetches per remote host so a batch run never
// hammers a single complaint portal. Local file sources pass through
// unthrottled.
type Limiter struct {
	mu       sync.Mutex
	perHost  map[string]*rate.Limiter
	fallback rate.Limit
	burst    int
}

// NewLimiter creates a limiter applying the given rate to every host
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		perHost:  make(map[string]*rate.Limiter),
		fallback: rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the source's host has rate budget. Sources without a
// remote host return immediately.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	host := hostOf(source)
	if host == "" {
		return nil
	}
	return l.bucket(host).Wait(ctx)
}

// Allow reports whether a request to the source could go out right now
func (l *Limiter) Allow(source string) bool {
	host := hostOf(source)
	if host == "" {
		return true
	}
	return l.bucket(host).Allow()
}

// SetHostRate overrides the shared rate for one host
func (l *Limiter) SetHostRate(host string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.burst
	}
	l.mu.Lock()
	l.perHost[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	l.mu.Unlock()
}

func (l *Limiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.perHost[host]
	if !ok {
		b = rate.NewLimiter(l.fallback, l.burst)
		l.perHost[host] = b
	}
	return b
}

// hostOf returns the remote host of a URL source, or "" for local paths
// and unparseable strings
func hostOf(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return ""
	}
	return u.Host
}
